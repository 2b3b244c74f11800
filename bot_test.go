package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		text    string
		cmd     string
		content string
	}{
		{"_panel dice 🎲 3d6", "panel", "dice 🎲 3d6"},
		{"_PING", "ping", ""},
		{"_panel ticket 🎫 line one\nline two", "panel", "ticket 🎫 line one\nline two"},
		{"_", "", ""},
		{"_   help  ", "help", ""},
	}
	for _, tt := range tests {
		cmd, content := splitCommand(tt.text, "_")
		assert.Equal(t, tt.cmd, cmd, tt.text)
		assert.Equal(t, tt.content, content, tt.text)
	}
}
