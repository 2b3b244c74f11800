// Except.go: Contains functions to make handling panics less PITA

package helpers

import (
	"fmt"
	"runtime"

	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/bwmarrin/discordgo"
	"github.com/getsentry/raven-go"
	"github.com/pkg/errors"
)

// DEBUG_MODE makes errors posted to discord include the stack
var DEBUG_MODE = false

// RecoverDiscord recover()s and sends a message to discord
func RecoverDiscord(msg *discordgo.Message) {
	err := recover()
	if err != nil {
		SendError(msg, err)
	}
}

// Recover recover()s and logs the error
func Recover() {
	err := recover()
	if err != nil {
		cache.GetLogger().WithField("module", "helpers").Errorf("recovered: %#v", err)
		raven.CaptureError(fmt.Errorf("%#v", err), map[string]string{})
	}
}

// Relax is a helper to reduce if-checks if panicking is allowed
// If $err is nil this is a no-op. Panics otherwise.
func Relax(err error) {
	if err != nil {
		if DEBUG_MODE {
			if errD, ok := errors.Cause(err).(*discordgo.RESTError); ok && errD.Message != nil {
				cache.GetLogger().WithField("module", "helpers").Debugf("%d: %s", errD.Message.Code, errD.Message.Message)
			}
		}
		panic(err)
	}
}

// RelaxLog logs $err and sends it to sentry, no-op if $err is nil
func RelaxLog(err error) {
	if err != nil {
		cache.GetLogger().WithField("module", "helpers").Error(err.Error())
		CaptureError(err, nil)
	}
}

// CaptureError sends $err with $tags to sentry
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	if tags == nil {
		tags = map[string]string{}
	}
	raven.CaptureError(err, tags)
}

// RelaxMessage does nothing if $err is nil or if there are no permissions to send a message, else sends it to Relax()
func RelaxMessage(err error, channelID string, commandMessageID string) {
	if err == nil {
		return
	}
	if errD, ok := errors.Cause(err).(*discordgo.RESTError); ok && errD.Message != nil && errD.Message.Code == 50013 {
		cache.GetLogger().WithField("module", "helpers").Warnf("no permission to post in #%s", channelID)
		return
	}
	Relax(err)
}

// SendError Takes an error and sends it to discord and sentry.io
func SendError(msg *discordgo.Message, err interface{}) {
	if msg == nil {
		raven.CaptureError(fmt.Errorf("%#v", err), map[string]string{})
		return
	}

	text := fmt.Sprintf("%v", err)
	if errR, ok := err.(*discordgo.RESTError); ok && errR != nil && errR.Message != nil {
		text = errR.Message.Message
	}
	if DEBUG_MODE {
		buf := make([]byte, 1<<16)
		stackSize := runtime.Stack(buf, false)
		text += "\n" + string(buf[0:stackSize])
		if len(text) > 1900 {
			text = text[:1900]
		}
	}

	_, sendErr := cache.GetSession().ChannelMessageSend(msg.ChannelID, GetTextF("bot.errors.general", text))
	if sendErr != nil {
		cache.GetLogger().WithField("module", "helpers").Warnf("posting error to #%s failed: %s", msg.ChannelID, sendErr.Error())
	}

	tags := map[string]string{
		"ChannelID": msg.ChannelID,
		"Content":   msg.Content,
	}
	if msg.Author != nil {
		raven.SetUserContext(&raven.User{
			ID:       msg.Author.ID,
			Username: msg.Author.Username,
		})
		tags["IsBot"] = fmt.Sprintf("%t", msg.Author.Bot)
	}
	raven.CaptureError(fmt.Errorf("%#v", err), tags)
}
