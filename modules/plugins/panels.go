package plugins

import (
	"strings"

	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/Seklfreak/robyul-panels/emojis"
	"github.com/Seklfreak/robyul-panels/helpers"
	"github.com/Seklfreak/robyul-panels/metrics"
	"github.com/Seklfreak/robyul-panels/panels"
	"github.com/Seklfreak/robyul-panels/platform"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// Panels posts reaction panels and routes reactions on them
type Panels struct {
	platform   *platform.Discord
	dispatcher *panels.Dispatcher
}

func (p *Panels) Commands() []string {
	return []string{
		"panel",
		"panels",
	}
}

func (p *Panels) Init(session *discordgo.Session, report *panels.StartupReport) error {
	p.platform = platform.NewDiscord(session)
	if p.platform.BotUserID() == "" {
		return errors.New("bot user unknown, the gateway has not sent ready yet")
	}

	tickets := panels.NewTicketResolver(p.platform, ticketConfig())
	report.Add(panels.ResolverComponent(panels.KindRole), helpers.ConfigBool("panels.roles.enabled", true), "")
	report.Add(panels.ResolverComponent(panels.KindDice), helpers.ConfigBool("panels.dice.enabled", true),
		panels.Dice{Count: panels.MaxDiceCount, Sides: panels.MaxDiceSides}.String()+" at most")
	report.Add(panels.ResolverComponent(panels.KindTicket), helpers.ConfigBool("panels.tickets.enabled", true),
		"channels named "+tickets.ChannelName("<user id>"))

	p.dispatcher = panels.NewDispatcher(p.platform, report,
		panels.NewRoleResolver(p.platform),
		panels.NewDiceResolver(p.platform),
		tickets,
	)
	return nil
}

func ticketConfig() panels.TicketConfig {
	return panels.TicketConfig{
		NamePrefix:   helpers.ConfigString("panels.tickets.name_prefix", "ticket-"),
		SupportRole:  helpers.ConfigString("panels.tickets.support_role", "Support"),
		FallbackRole: helpers.ConfigString("panels.tickets.fallback_role", ""),
		CategoryID:   helpers.ConfigString("panels.tickets.category_id", ""),
	}
}

func (p *Panels) Action(command string, content string, msg *discordgo.Message, session *discordgo.Session) {
	args := helpers.SplitArgs(content, 3)
	if len(args) < 2 {
		_, err := helpers.SendMessage(msg.ChannelID, helpers.GetText("bot.arguments.too-few"))
		helpers.RelaxMessage(err, msg.ChannelID, msg.ID)
		return
	}

	switch strings.ToLower(args[0]) {
	case "role": // [p]panel role <emoji> <role name>
		helpers.RequirePermission(msg, discordgo.PermissionManageRoles,
			helpers.GetText("plugins.panels.no-permission-role"), func() {
				p.create(panels.KindRole, args[1:], msg, session)
			})
	case "dice": // [p]panel dice <emoji> <NdM>
		p.create(panels.KindDice, args[1:], msg, session)
	case "ticket": // [p]panel ticket <emoji> [request]
		helpers.RequirePermission(msg, discordgo.PermissionManageChannels,
			helpers.GetText("plugins.panels.no-permission-ticket"), func() {
				p.create(panels.KindTicket, args[1:], msg, session)
			})
	default:
		_, err := helpers.SendMessage(msg.ChannelID, helpers.GetText("bot.arguments.invalid"))
		helpers.RelaxMessage(err, msg.ChannelID, msg.ID)
	}
}

func (p *Panels) create(kind panels.Kind, args []string, msg *discordgo.Message, session *discordgo.Session) {
	session.ChannelTyping(msg.ChannelID)

	channel, err := cache.Channel(msg.ChannelID)
	helpers.Relax(err)

	descriptor, emojiToken, problem := describePanel(kind, args)
	if problem == "" && emojis.IsCustom(emojiToken) {
		if _, err = session.State.Emoji(channel.GuildID, strings.Split(emojis.APIName(emojiToken), ":")[1]); err != nil {
			problem = helpers.GetText("plugins.panels.external-emoji")
		}
	}
	if problem == "" && kind == panels.KindRole {
		role, err := p.platform.RoleByName(channel.GuildID, descriptor.Payload)
		helpers.Relax(err)
		if role == nil {
			problem = helpers.GetTextF("plugins.panels.role-not-found", descriptor.Payload)
		}
	}
	if problem != "" {
		_, err = helpers.SendMessage(msg.ChannelID, problem)
		helpers.RelaxMessage(err, msg.ChannelID, msg.ID)
		return
	}

	embed, err := panels.Embed(descriptor, emojiToken)
	helpers.Relax(err)

	posted, err := helpers.SendEmbed(msg.ChannelID, embed)
	if err != nil {
		if platform.IsMissingPermissions(err) {
			_, err = helpers.SendMessage(msg.ChannelID, helpers.GetText("bot.errors.no-embed"))
			helpers.RelaxMessage(err, msg.ChannelID, msg.ID)
			return
		}
		helpers.Relax(err)
	}
	metrics.PanelsCreated.WithLabelValues(kind.String()).Inc()
	cache.GetLogger().WithField("module", "panels").Infof("posted %s panel #%s in #%s for #%s",
		kind, posted.ID, posted.ChannelID, msg.Author.ID)

	err = session.MessageReactionAdd(posted.ChannelID, posted.ID, emojis.APIName(emojiToken))
	if err != nil {
		cache.GetLogger().WithField("module", "panels").Warnf("seeding panel #%s failed: %s", posted.ID, err.Error())
		_, err = helpers.SendMessage(msg.ChannelID, helpers.GetTextF("plugins.panels.seed-failed", emojiToken))
		helpers.RelaxMessage(err, msg.ChannelID, msg.ID)
	}
}

// describePanel validates the command arguments of a $kind panel. It returns the
// user facing problem if they are not usable.
func describePanel(kind panels.Kind, args []string) (descriptor panels.Descriptor, emojiToken, problem string) {
	if len(args) == 0 || (kind != panels.KindTicket && len(args) < 2) {
		return descriptor, "", helpers.GetText("bot.arguments.too-few")
	}

	emojiToken = strings.TrimSpace(args[0])
	if !emojis.IsEmoji(emojiToken) {
		return descriptor, emojiToken, helpers.GetTextF("plugins.panels.invalid-emoji", emojiToken)
	}

	var payload string
	if len(args) > 1 {
		payload = strings.TrimSpace(args[1])
	}

	var err error
	switch kind {
	case panels.KindRole:
		descriptor, err = panels.NewRoleDescriptor(emojiToken, payload)
	case panels.KindDice:
		descriptor, err = panels.NewDiceDescriptor(emojiToken, payload)
		if err != nil {
			return descriptor, emojiToken, helpers.GetTextF("plugins.panels.dice-invalid", payload)
		}
	case panels.KindTicket:
		descriptor, err = panels.NewTicketDescriptor(emojiToken, payload)
	default:
		err = panels.ErrInvalidKind
	}
	if err != nil {
		return descriptor, emojiToken, helpers.GetText("plugins.panels.invalid-payload")
	}
	return descriptor, emojiToken, ""
}

func (p *Panels) OnReactionAdd(reaction *discordgo.MessageReactionAdd, session *discordgo.Session) {
	if p.dispatcher == nil {
		return
	}
	p.dispatcher.OnReactionAdd(reaction)
}

func (p *Panels) OnReactionRemove(reaction *discordgo.MessageReactionRemove, session *discordgo.Session) {
	if p.dispatcher == nil {
		return
	}
	p.dispatcher.OnReactionRemove(reaction)
}
