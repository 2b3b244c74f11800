// Package platform talks to discord on behalf of the panel resolvers.
// Lookups of things that do not exist return nil values instead of errors.
package platform

import (
	"strings"

	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// Discord implements the panel platform on a discordgo session
type Discord struct {
	session *discordgo.Session
}

func NewDiscord(session *discordgo.Session) *Discord {
	return &Discord{session: session}
}

func (d *Discord) BotUserID() string {
	if d.session.State == nil || d.session.State.User == nil {
		return ""
	}
	return d.session.State.User.ID
}

// Message looks in the state first and asks the API if the message is not cached
func (d *Discord) Message(channelID, messageID string) (*discordgo.Message, error) {
	message, err := d.session.State.Message(channelID, messageID)
	if err == nil && message != nil {
		return message, nil
	}

	message, err = d.session.ChannelMessage(channelID, messageID)
	if err != nil {
		if isUnknown(err, errCodeUnknownMessage, errCodeUnknownChannel) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "fetching message #%s", messageID)
	}

	cache.GetLogger().WithField("module", "platform").Debugf("adding message #%s to world state", messageID)
	if err = d.session.State.MessageAdd(message); err != nil {
		cache.GetLogger().WithField("module", "platform").Debugf("caching message #%s failed: %s", messageID, err.Error())
	}
	return message, nil
}

func (d *Discord) PostMessage(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	message, err := d.session.ChannelMessageSendComplex(channelID, data)
	if err != nil {
		return nil, errors.Wrapf(err, "posting to channel #%s", channelID)
	}
	return message, nil
}

func (d *Discord) EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed) error {
	_, err := d.session.ChannelMessageEditEmbed(channelID, messageID, embed)
	return errors.Wrapf(err, "editing message #%s", messageID)
}

func (d *Discord) RemoveReaction(channelID, messageID, emojiAPIName, userID string) error {
	err := d.session.MessageReactionRemove(channelID, messageID, emojiAPIName, userID)
	if err != nil && isUnknown(err, errCodeUnknownMessage, errCodeUnknownEmoji, errCodeUnknownChannel) {
		return nil
	}
	return errors.Wrapf(err, "removing reaction %s of #%s", emojiAPIName, userID)
}

// RoleByName prefers an exact match and falls back to a case insensitive one
func (d *Discord) RoleByName(guildID, name string) (*discordgo.Role, error) {
	var roles []*discordgo.Role
	guild, err := d.session.State.Guild(guildID)
	if err == nil && guild != nil && len(guild.Roles) > 0 {
		roles = guild.Roles
	} else {
		roles, err = d.session.GuildRoles(guildID)
		if err != nil {
			if isUnknown(err, errCodeUnknownGuild) {
				return nil, nil
			}
			return nil, errors.Wrapf(err, "listing roles of guild #%s", guildID)
		}
	}

	var match *discordgo.Role
	for _, role := range roles {
		if role.Name == name {
			return role, nil
		}
		if match == nil && strings.EqualFold(role.Name, name) {
			match = role
		}
	}
	return match, nil
}

// MemberHasRole asks the API, the state lags behind role changes we just made
func (d *Discord) MemberHasRole(guildID, userID, roleID string) (bool, error) {
	member, err := d.session.GuildMember(guildID, userID)
	if err != nil {
		if isUnknown(err, errCodeUnknownMember) {
			return false, nil
		}
		return false, errors.Wrapf(err, "fetching member #%s", userID)
	}
	for _, memberRoleID := range member.Roles {
		if memberRoleID == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (d *Discord) GrantRole(guildID, userID, roleID string) error {
	err := d.session.GuildMemberRoleAdd(guildID, userID, roleID)
	return errors.Wrapf(err, "granting role #%s to #%s", roleID, userID)
}

func (d *Discord) RevokeRole(guildID, userID, roleID string) error {
	err := d.session.GuildMemberRoleRemove(guildID, userID, roleID)
	if err != nil && isUnknown(err, errCodeUnknownMember, errCodeUnknownRole) {
		return nil
	}
	return errors.Wrapf(err, "revoking role #%s from #%s", roleID, userID)
}

// ChannelByName asks the API so channels created a moment ago are found too
func (d *Discord) ChannelByName(guildID, name string) (*discordgo.Channel, error) {
	channels, err := d.session.GuildChannels(guildID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing channels of guild #%s", guildID)
	}
	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildText && channel.Name == name {
			return channel, nil
		}
	}
	return nil, nil
}

func (d *Discord) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	channel, err := d.session.GuildChannelCreateComplex(guildID, data)
	if err != nil {
		return nil, errors.Wrapf(err, "creating channel %s", data.Name)
	}
	return channel, nil
}
