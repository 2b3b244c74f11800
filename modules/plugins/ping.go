package plugins

import (
	"time"

	"github.com/Seklfreak/robyul-panels/helpers"
	"github.com/Seklfreak/robyul-panels/panels"
	"github.com/bwmarrin/discordgo"
	humanize "github.com/dustin/go-humanize"
)

type Ping struct {
	started time.Time
}

func (p *Ping) Commands() []string {
	return []string{
		"ping",
	}
}

func (p *Ping) Init(session *discordgo.Session, report *panels.StartupReport) error {
	p.started = report.Started
	return nil
}

func (p *Ping) Action(command string, content string, msg *discordgo.Message, session *discordgo.Session) {
	_, err := helpers.SendMessage(msg.ChannelID, pongText(session.HeartbeatLatency(), p.started))
	helpers.RelaxMessage(err, msg.ChannelID, msg.ID)
}

func pongText(latency time.Duration, started time.Time) string {
	return helpers.GetTextF("plugins.ping.pong", latency.Round(time.Millisecond).String(), humanize.Time(started))
}
