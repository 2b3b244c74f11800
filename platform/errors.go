package platform

import (
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// discord json error codes, https://discord.com/developers/docs/topics/opcodes-and-status-codes
const (
	errCodeUnknownChannel     = 10003
	errCodeUnknownGuild       = 10004
	errCodeUnknownMember      = 10007
	errCodeUnknownMessage     = 10008
	errCodeUnknownRole        = 10011
	errCodeUnknownEmoji       = 10014
	errCodeMissingAccess      = 50001
	errCodeMissingPermissions = 50013
)

// ErrMissingPermissions is returned when the bot is not allowed to do something
var ErrMissingPermissions = errors.New("missing permissions")

func restCode(err error) int {
	if errD, ok := errors.Cause(err).(*discordgo.RESTError); ok && errD != nil && errD.Message != nil {
		return errD.Message.Code
	}
	return 0
}

func isUnknown(err error, codes ...int) bool {
	code := restCode(err)
	if code == 0 {
		if errD, ok := errors.Cause(err).(*discordgo.RESTError); ok && errD != nil && errD.Response != nil {
			return errD.Response.StatusCode == http.StatusNotFound
		}
		return false
	}
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// IsMissingPermissions returns true if $err means the bot lacks the authority for a request
func IsMissingPermissions(err error) bool {
	if err == nil {
		return false
	}
	if errors.Cause(err) == ErrMissingPermissions {
		return true
	}
	switch restCode(err) {
	case errCodeMissingPermissions, errCodeMissingAccess:
		return true
	}
	if errD, ok := errors.Cause(err).(*discordgo.RESTError); ok && errD != nil && errD.Response != nil {
		return errD.Response.StatusCode == http.StatusForbidden
	}
	return false
}
