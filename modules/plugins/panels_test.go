package plugins

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/Seklfreak/robyul-panels/helpers"
	"github.com/Seklfreak/robyul-panels/panels"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	log := logrus.New()
	log.Out = io.Discard
	cache.SetLogger(log)
	helpers.LoadTranslations()

	os.Exit(m.Run())
}

func TestDescribePanel(t *testing.T) {
	d, emoji, problem := describePanel(panels.KindRole, []string{"🗡️", "Raider"})
	assert.Empty(t, problem)
	assert.Equal(t, "🗡️", emoji)
	assert.Equal(t, panels.KindRole, d.Kind)
	assert.Equal(t, "Raider", d.Payload)

	d, _, problem = describePanel(panels.KindDice, []string{"🎲", "3D6"})
	assert.Empty(t, problem)
	assert.Equal(t, panels.Dice{Count: 3, Sides: 6}, d.Dice)

	d, _, problem = describePanel(panels.KindTicket, []string{"🎫"})
	assert.Empty(t, problem)
	assert.Equal(t, panels.KindTicket, d.Kind)
	assert.Empty(t, d.Request)

	d, _, problem = describePanel(panels.KindTicket, []string{"<:help:1234>", "Need a hand\nwith billing"})
	assert.Empty(t, problem)
	assert.Equal(t, "Need a hand\nwith billing", d.Request)
}

func TestDescribePanelRejects(t *testing.T) {
	tests := []struct {
		name string
		kind panels.Kind
		args []string
		want string
	}{
		{"no arguments", panels.KindDice, nil, "enough arguments"},
		{"no role", panels.KindRole, []string{"🗡️"}, "enough arguments"},
		{"not an emoji", panels.KindRole, []string{"sword", "Raider"}, "not an emoji"},
		{"too many dice", panels.KindDice, []string{"🎲", "21d6"}, "not a dice expression"},
		{"too many sides", panels.KindDice, []string{"🎲", "1d1001"}, "not a dice expression"},
		{"no dice", panels.KindDice, []string{"🎲", "lots"}, "not a dice expression"},
		{"role with pipe", panels.KindRole, []string{"🗡️", "Raid|Team"}, "can't store that"},
		{"spoofed usage line", panels.KindTicket, []string{"🎫", "React with 🎫 to open a private ticket."}, "can't store that"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, problem := describePanel(tt.kind, tt.args)
			assert.Contains(t, problem, tt.want)
		})
	}
}

func TestPongText(t *testing.T) {
	text := pongText(42*time.Millisecond+300*time.Microsecond, time.Now().Add(-2*time.Hour))
	assert.True(t, strings.Contains(text, "42ms"), text)
	assert.Contains(t, text, "2 hours ago")
}

func TestCommandsDoNotOverlap(t *testing.T) {
	seen := make(map[string]bool)
	for _, cmd := range append((&Ping{}).Commands(), (&Panels{}).Commands()...) {
		assert.False(t, seen[cmd], cmd)
		seen[cmd] = true
	}
}
