package helpers

import (
	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/bwmarrin/discordgo"
)

// IsBotAdmin checks if $id is listed in bot.admins
func IsBotAdmin(id string) bool {
	for _, s := range ConfigStrings("bot.admins") {
		if s == id {
			return true
		}
	}

	return false
}

// HasPermission returns true if the author of $msg has $permission in the channel,
// administrators and bot admins always have it
func HasPermission(msg *discordgo.Message, permission int64) bool {
	if msg.Author == nil {
		return false
	}
	if IsBotAdmin(msg.Author.ID) {
		return true
	}

	permissions, err := cache.GetSession().UserChannelPermissions(msg.Author.ID, msg.ChannelID)
	if err != nil {
		cache.GetLogger().WithField("module", "helpers").Debugf("resolving permissions of #%s failed: %s", msg.Author.ID, err.Error())
		return false
	}

	return permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator ||
		permissions&permission == permission
}

// RequirePermission only calls $cb if the author has $permission, posts $deniedText otherwise
func RequirePermission(msg *discordgo.Message, permission int64, deniedText string, cb Callback) {
	if !HasPermission(msg, permission) {
		_, err := SendMessage(msg.ChannelID, deniedText)
		RelaxMessage(err, msg.ChannelID, msg.ID)
		return
	}

	cb()
}

func SendMessage(channelID, content string) (*discordgo.Message, error) {
	return cache.GetSession().ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:         content,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
}

func SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return cache.GetSession().ChannelMessageSendEmbed(channelID, embed)
}
