package main

import (
	"fmt"
	"strings"

	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/Seklfreak/robyul-panels/helpers"
	"github.com/Seklfreak/robyul-panels/metrics"
	"github.com/Seklfreak/robyul-panels/modules"
	"github.com/Seklfreak/robyul-panels/panels"
	"github.com/Seklfreak/robyul-panels/ratelimits"
	"github.com/bwmarrin/discordgo"
)

// BotOnReady returns the handler that runs after the gateway connected
func BotOnReady(report *panels.StartupReport) func(session *discordgo.Session, event *discordgo.Ready) {
	return func(session *discordgo.Session, event *discordgo.Ready) {
		log := cache.GetLogger()

		log.WithField("module", "bot").Infof("Connected to discord as %s#%s (%d guilds)",
			event.User.Username, event.User.Discriminator, len(event.Guilds))
		if clientID := helpers.ConfigString("discord.id", ""); clientID != "" {
			log.WithField("module", "bot").Info("Invite link: " + fmt.Sprintf(
				"https://discord.com/oauth2/authorize?client_id=%s&scope=bot&permissions=%s",
				clientID,
				helpers.ConfigString("discord.perms", "268446784"),
			))
		}

		// Cache the session
		cache.SetSession(session)
		report.Add("discord.gateway", true, event.User.ID)

		// Run ratelimiter
		ratelimits.Container.Init()

		// Load and init all modules, only once per process
		if cache.HasPluginList() {
			return
		}
		err := modules.Init(session, report)
		if err != nil {
			report.Add("modules", false, err.Error())
			helpers.RelaxLog(err)
			return
		}
		report.Add("modules", true, "")

		err = session.UpdateGameStatus(0, helpers.GetPrefix()+"help")
		if err != nil {
			log.WithField("module", "bot").Warn("setting status failed: ", err.Error())
		}
	}
}

// BotOnMessageCreate gets called after a new message was sent
// This will be called after *every* message on *every* server so it should die as soon as possible
// or spawn costly work inside of coroutines.
func BotOnMessageCreate(session *discordgo.Session, message *discordgo.MessageCreate) {
	// Ignore other bots and @everyone/@here
	if message.Author == nil || message.Author.Bot || message.MentionEveryone {
		return
	}
	if !cache.HasPluginList() {
		return
	}

	// Check if the message is prefixed for us
	// If not exit
	prefix := helpers.GetPrefix()
	if !strings.HasPrefix(message.Content, prefix) {
		return
	}

	// Get the channel
	// Ignore the event if we cannot resolve the channel or are in DMs
	channel, err := cache.Channel(message.ChannelID)
	if err != nil {
		helpers.CaptureError(err, map[string]string{"ChannelID": message.ChannelID})
		return
	}
	if channel.Type == discordgo.ChannelTypeDM || channel.Type == discordgo.ChannelTypeGroupDM {
		return
	}

	// Split the message into command and arguments
	cmd, content := splitCommand(message.Content, prefix)
	if cmd == "" {
		return
	}
	if cmd != "h" && cmd != "help" && !modules.HasCommand(cmd) {
		return
	}

	// Check if the user is allowed to request commands
	if !ratelimits.Container.HasKeys(message.Author.ID) && !helpers.IsBotAdmin(message.Author.ID) {
		_, err = helpers.SendMessage(message.ChannelID, helpers.GetTextF("bot.ratelimit.hit", message.Author.ID))
		helpers.RelaxMessage(err, message.ChannelID, message.ID)

		ratelimits.Container.Set(message.Author.ID, ratelimits.CHILL_ZONE)
		return
	}

	// Check if the user calls for help
	if cmd == "h" || cmd == "help" {
		metrics.CommandsExecuted.WithLabelValues("help").Inc()
		sendHelp(message)
		return
	}

	cache.GetLogger().WithField("module", "bot").Debugf("%s (#%s) in #%s: %s",
		message.Author.Username, message.Author.ID, channel.GuildID, message.Content)

	// Check if a module matches said command
	modules.CallBotPlugin(cmd, content, message.Message)
}

// splitCommand separates the lower cased command from its arguments
func splitCommand(text, prefix string) (cmd, content string) {
	text = strings.TrimPrefix(text, prefix)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", ""
	}
	cmd = fields[0]
	content = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), cmd))
	return strings.ToLower(cmd), content
}

// BotOnReactionAdd gets called after a reaction is added
// This will be called after *every* reaction added on *every* server so it
// should die as soon as possible or spawn costly work inside of coroutines.
func BotOnReactionAdd(session *discordgo.Session, reaction *discordgo.MessageReactionAdd) {
	if !cache.HasPluginList() {
		return
	}
	modules.CallExtendedPluginOnReactionAdd(reaction)
}

func BotOnReactionRemove(session *discordgo.Session, reaction *discordgo.MessageReactionRemove) {
	if !cache.HasPluginList() {
		return
	}
	modules.CallExtendedPluginOnReactionRemove(reaction)
}

func sendHelp(message *discordgo.MessageCreate) {
	prefix := helpers.GetPrefix()
	_, err := helpers.SendMessage(
		message.ChannelID,
		helpers.GetTextF("bot.help", prefix, prefix, prefix, prefix, prefix),
	)
	helpers.RelaxMessage(err, message.ChannelID, message.ID)
}
