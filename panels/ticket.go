package panels

import (
	"strings"
	"sync"
	"unicode"

	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/Seklfreak/robyul-panels/emojis"
	"github.com/Seklfreak/robyul-panels/helpers"
	"github.com/Seklfreak/robyul-panels/metrics"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

const ticketPermissions int64 = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionAttachFiles

// TicketConfig configures the channels ticket panels open
type TicketConfig struct {
	// NamePrefix is put in front of the requester's user ID to name the channel
	NamePrefix string
	// SupportRole gets access to every ticket, FallbackRole is used if it does not exist
	SupportRole  string
	FallbackRole string
	// CategoryID is the optional category tickets are created in
	CategoryID string
}

// TicketResolver opens a private channel for whoever presses the panel. A press
// by someone who already has a ticket channel points them to it instead.
type TicketResolver struct {
	platform Platform
	config   TicketConfig

	locksMutex sync.Mutex
	locks      map[string]*sync.Mutex
}

func NewTicketResolver(p Platform, config TicketConfig) *TicketResolver {
	config.NamePrefix = ChannelNamePrefix(config.NamePrefix)
	if config.NamePrefix == "" {
		config.NamePrefix = "ticket-"
	}
	return &TicketResolver{
		platform: p,
		config:   config,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (r *TicketResolver) Kind() Kind {
	return KindTicket
}

// ChannelName is the name of $userID's ticket channel
func (r *TicketResolver) ChannelName(userID string) string {
	return r.config.NamePrefix + userID
}

// ChannelNamePrefix rewrites $prefix the way discord rewrites text channel
// names, lookups by name only find channels under the rewritten name.
func ChannelNamePrefix(prefix string) string {
	var name strings.Builder
	dash := false
	for _, r := range strings.ToLower(prefix) {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !dash && name.Len() > 0 {
				name.WriteRune('-')
			}
			dash = true
			continue
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			name.WriteRune(r)
		default:
			continue
		}
		dash = false
	}
	return name.String()
}

func (r *TicketResolver) OnAdd(event Event, panel Panel) error {
	if emojis.KeyFor(event.Emoji) != panel.EmojiKey {
		return nil
	}

	name := r.ChannelName(event.UserID)
	r.lockEntry(event.GuildID + "/" + name)
	defer r.unlockEntry(event.GuildID + "/" + name)

	existing, err := r.platform.ChannelByName(event.GuildID, name)
	if err != nil {
		return r.fail(event, panel, err, "looking up the ticket channel")
	}
	if existing != nil {
		_, err = r.platform.PostMessage(event.ChannelID, &discordgo.MessageSend{
			Content:         helpers.GetTextF("panels.ticket.already-open", event.UserID, existing.ID),
			AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{event.UserID}},
		})
		if err != nil {
			return r.fail(event, panel, err, "pointing to the open ticket")
		}
		return r.platform.RemoveReaction(event.ChannelID, event.MessageID, event.Emoji.APIName(), event.UserID)
	}

	supportRole, err := r.supportRole(event.GuildID)
	if err != nil {
		return r.fail(event, panel, err, "looking up the support role")
	}

	channel, err := r.platform.CreateChannel(event.GuildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                helpers.GetTextF("panels.ticket.topic", "<@"+event.UserID+">", event.UserID),
		PermissionOverwrites: r.overwrites(event, supportRole),
		ParentID:             r.config.CategoryID,
	})
	if err != nil {
		return r.fail(event, panel, err, "creating the ticket channel")
	}
	metrics.TicketsOpened.Inc()
	cache.GetLogger().WithField("module", "panels").Infof("opened ticket channel #%s for #%s", channel.ID, event.UserID)

	intro := []string{helpers.GetTextF("panels.ticket.intro", event.UserID)}
	mentions := &discordgo.MessageAllowedMentions{Users: []string{event.UserID}}
	if supportRole != nil {
		intro = append(intro, helpers.GetTextF("panels.ticket.intro-support", supportRole.Mention()))
		mentions.Roles = []string{supportRole.ID}
	}
	if panel.Request != "" {
		intro = append(intro, helpers.GetTextF("panels.ticket.intro-request", quote(panel.Request)))
	}
	_, err = r.platform.PostMessage(channel.ID, &discordgo.MessageSend{
		Content:         strings.Join(intro, "\n"),
		AllowedMentions: mentions,
	})
	if err != nil {
		return r.fail(event, panel, err, "posting the ticket introduction")
	}

	return r.platform.RemoveReaction(event.ChannelID, event.MessageID, event.Emoji.APIName(), event.UserID)
}

// OnRemove never closes tickets
func (r *TicketResolver) OnRemove(event Event, panel Panel) error {
	return nil
}

func (r *TicketResolver) supportRole(guildID string) (*discordgo.Role, error) {
	for _, name := range []string{r.config.SupportRole, r.config.FallbackRole} {
		if name == "" {
			continue
		}
		role, err := r.platform.RoleByName(guildID, name)
		if err != nil || role != nil {
			return role, err
		}
	}
	return nil, nil
}

func (r *TicketResolver) overwrites(event Event, supportRole *discordgo.Role) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		// the @everyone role shares the guild's ID
		{ID: event.GuildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: event.UserID, Type: discordgo.PermissionOverwriteTypeMember, Allow: ticketPermissions},
	}
	if botID := r.platform.BotUserID(); botID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID: botID, Type: discordgo.PermissionOverwriteTypeMember, Allow: ticketPermissions,
		})
	}
	if supportRole != nil {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID: supportRole.ID, Type: discordgo.PermissionOverwriteTypeRole, Allow: ticketPermissions,
		})
	}
	return overwrites
}

// fail leaves the reaction in place and notes the failure on the panel itself
func (r *TicketResolver) fail(event Event, panel Panel, err error, step string) error {
	err = errors.Wrap(err, step)
	if panel.Message == nil || len(panel.Message.Embeds) == 0 || panel.Message.Embeds[0] == nil {
		return err
	}

	annotated := Annotate(panel.Message.Embeds[0], helpers.GetTextF("panels.ticket.failed", event.UserID, step))
	editErr := r.platform.EditEmbed(event.ChannelID, event.MessageID, annotated)
	if editErr != nil {
		cache.GetLogger().WithField("module", "panels").Warnf("annotating panel #%s failed: %s", event.MessageID, editErr.Error())
	}
	return err
}

func (r *TicketResolver) lockEntry(name string) {
	r.locksMutex.Lock()
	lock, ok := r.locks[name]
	if !ok {
		lock = new(sync.Mutex)
		r.locks[name] = lock
	}
	r.locksMutex.Unlock()

	lock.Lock()
}

func (r *TicketResolver) unlockEntry(name string) {
	r.locksMutex.Lock()
	lock, ok := r.locks[name]
	r.locksMutex.Unlock()

	if ok {
		lock.Unlock()
	}
}

func quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}
