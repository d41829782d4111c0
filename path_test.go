package filekit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPathPOSIX(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"   ", false},
		{".", true},
		{"..", true},
		{"./a/b", true},
		{"../../../", true},
		{"/usr/local", true},
		{"//a", true},
		{"  notes.txt \n", true},
		{"file://a/b", false},
		{"http://a", false},
		{"c:/x", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isPathOn("linux", tt.in), "%q", tt.in)
	}
}

func TestIsPathWindows(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"notes.txt", true},
		{"./notes.txt", true},
		{`C:\Users\me`, true},
		{"a/b", false},
		{"a|b", false},
		{"http://a", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isPathOn("windows", tt.in), "%q", tt.in)
	}
}
