package modules

import (
	"github.com/Seklfreak/robyul-panels/panels"
	"github.com/bwmarrin/discordgo"
)

type BaseModule interface{}

type Plugin interface {
	BaseModule

	Commands() []string

	Init(session *discordgo.Session, report *panels.StartupReport) error

	Action(
		command string,
		content string,
		msg *discordgo.Message,
		session *discordgo.Session,
	)
}

type ExtendedPlugin interface {
	Plugin

	OnReactionAdd(
		reaction *discordgo.MessageReactionAdd,
		session *discordgo.Session,
	)

	OnReactionRemove(
		reaction *discordgo.MessageReactionRemove,
		session *discordgo.Session,
	)
}
