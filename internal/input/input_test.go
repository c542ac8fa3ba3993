package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectCommandReader_ReadCommand(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		allowBlank  bool
		expect      []string
		expectLines []int
	}{
		{
			name:        "single line without newline",
			input:       "run ab",
			expect:      []string{"run ab"},
			expectLines: []int{1},
		},
		{
			name:        "blank lines are skipped",
			input:       "state q0\n\n   \nstate q1\n",
			expect:      []string{"state q0", "state q1"},
			expectLines: []int{1, 4},
		},
		{
			name:        "blank lines are returned when allowed",
			input:       "state q0\n\nstate q1\n",
			allowBlank:  true,
			expect:      []string{"state q0", "", "state q1"},
			expectLines: []int{1, 2, 3},
		},
		{
			name:        "surrounding space is trimmed",
			input:       "\t  show  \r\n",
			expect:      []string{"show"},
			expectLines: []int{1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewDirectReader(strings.NewReader(tc.input))
			r.AllowBlank(tc.allowBlank)

			for i := range tc.expect {
				actual, err := r.ReadCommand()
				assert.NoError(err)
				assert.Equal(tc.expect[i], actual)
				assert.Equal(tc.expectLines[i], r.Line())
			}

			actual, err := r.ReadCommand()
			assert.ErrorIs(err, io.EOF)
			assert.Equal("", actual)
			assert.NoError(r.Close())
		})
	}
}
