package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetText(t *testing.T) {
	LoadTranslations()

	assert.Equal(t, "unknown.key", GetText("unknown.key"))
	assert.Contains(t, GetText("bot.arguments.invalid"), "arguments")
	assert.Contains(t, []string{
		":x: You didn't give me enough arguments.",
		":x: That's not enough arguments.",
	}, GetText("bot.arguments.too-few"))
	assert.Equal(t, "<@1> you already have an open ticket: <#2>", GetTextF("panels.ticket.already-open", "1", "2"))
}
