package strings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name      string
		input     []string
		normalize func(string) string
		expected  []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: []string{},
		},
		{
			name:     "trims whitespace by default",
			input:    []string{"  foo  ", "bar  ", "  baz"},
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"foo", "bar", "foo", "baz", "bar"},
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "drops blanks",
			input:    []string{"", "   ", "foo"},
			expected: []string{"foo"},
		},
		{
			name:      "origins collapse after trimming slashes",
			input:     []string{"https://a.example/", " https://a.example", "http://localhost:5173//"},
			normalize: TrimOrigin,
			expected:  []string{"https://a.example", "http://localhost:5173"},
		},
		{
			name:      "custom normalizer",
			input:     []string{"FOO", "foo", "Bar"},
			normalize: strings.ToLower,
			expected:  []string{"foo", "bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Dedupe(tt.input, tt.normalize))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList("", TrimOrigin))
	assert.Nil(t, SplitList("   ", TrimOrigin))
	assert.Equal(t,
		[]string{"http://localhost:5173", "https://the-profilr.onrender.com"},
		SplitList("http://localhost:5173, https://the-profilr.onrender.com/,http://localhost:5173", TrimOrigin),
	)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, SplitList("broker-1:9092,,broker-2:9092", nil))
}
