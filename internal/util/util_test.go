package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no quotes", "hello", "hello"},
		{"double quoted", `"hello"`, "hello"},
		{"single quotes only", "'hello'", "'hello'"},
		{"quotes in middle", `he"llo`, `he"llo`},
		{"only quotes", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrimQuotes(tt.input))
		})
	}
}

func TestFixEscapeQuotes(t *testing.T) {
	assert.Equal(t, `say "hi"`, FixEscapeQuotes(`say ""hi""`))
	assert.Equal(t, "plain", FixEscapeQuotes("plain"))
}

func TestCleanArgs(t *testing.T) {
	in := []string{` "411" `, `"[1,2,3]"`, "true"}
	out := CleanArgs(in)

	assert.Equal(t, []string{"411", "[1,2,3]", "true"}, out)
	assert.Equal(t, ` "411" `, in[0], "input is not modified")
}

func TestSplitCommand(t *testing.T) {
	cmd, args := SplitCommand(":VEHICLE:SEAT:|411|2\n")
	assert.Equal(t, ":VEHICLE:SEAT:", cmd)
	assert.Equal(t, []string{"411", "2"}, args)

	cmd, args = SplitCommand(":REGISTRY:STATUS:")
	assert.Equal(t, ":REGISTRY:STATUS:", cmd)
	assert.Nil(t, args)
}
