package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Forest(t *testing.T) {
	assert := assert.New(t)

	var f Forest[string]
	r1 := f.Add(None, "r1")
	r2 := f.Add(None, "r2")
	c1 := f.Add(r1, "c1")
	c2 := f.Add(r1, "c2")
	g1 := f.Add(c2, "g1")

	assert.Equal(5, f.Len())
	assert.Equal([]int{r1, r2}, f.Roots())
	assert.Equal([]int{c1, c2}, f.Children(r1))
	assert.Equal([]int{r2, c1, g1}, f.Leaves())
	assert.Equal([]int{r1, c2, g1}, f.Path(g1))
	assert.Equal(2, f.Depth(g1))
	assert.Equal(None, f.Parent(r2))
	assert.Equal(c2, f.Parent(g1))

	v, ok := f.Get(g1)
	assert.True(ok)
	assert.Equal("g1", v)

	_, ok = f.Get(99)
	assert.False(ok)
	assert.Nil(f.Path(99))

	assert.Panics(func() { f.Add(42, "bad") })
}
