package panels

import "github.com/bwmarrin/discordgo"

// Messages is the message store panels live in.
// Lookups return nil and no error when the message does not exist (anymore).
type Messages interface {
	Message(channelID, messageID string) (*discordgo.Message, error)
	PostMessage(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed) error
	RemoveReaction(channelID, messageID, emojiAPIName, userID string) error
}

// Roles is the guild role graph. RoleByName returns nil and no error if no role
// with that name exists. Revoking a role the member does not hold is a no-op.
type Roles interface {
	RoleByName(guildID, name string) (*discordgo.Role, error)
	MemberHasRole(guildID, userID, roleID string) (bool, error)
	GrantRole(guildID, userID, roleID string) error
	RevokeRole(guildID, userID, roleID string) error
}

// Channels is the guild channel graph. ChannelByName returns nil and no error
// if the guild has no channel with that name.
type Channels interface {
	ChannelByName(guildID, name string) (*discordgo.Channel, error)
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)
}

// Platform is everything the resolvers need from discord
type Platform interface {
	Messages
	Roles
	Channels
	BotUserID() string
}
