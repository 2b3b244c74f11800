package emojis

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var customEmojiRegex = regexp.MustCompile(`^<(a)?:([^<>:\s]+):([0-9]+)>$`)

// skin tone modifiers are symbols (Sk), not marks, so they need their own range
func isModifier(r rune) bool {
	if r >= 0x1F3FB && r <= 0x1F3FF {
		return true
	}
	return unicode.In(r, unicode.Mn, unicode.Me)
}

// Normalize turns an emoji token into its matching key.
// Custom emoji (<:name:id> or <a:name:id>) become "name:id", everything else is
// decomposed and stripped of marks, variation selectors and skin tones.
func Normalize(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}

	if parts := customEmojiRegex.FindStringSubmatch(token); parts != nil {
		return parts[2] + ":" + parts[3]
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isModifier)))
	key, _, err := transform.String(t, token)
	if err != nil {
		return ""
	}
	return key
}

// KeyFor returns the matching key of an emoji received with a gateway event
func KeyFor(emoji discordgo.Emoji) string {
	if emoji.ID != "" {
		prefix := "<:"
		if emoji.Animated {
			prefix = "<a:"
		}
		return Normalize(prefix + emoji.Name + ":" + emoji.ID + ">")
	}
	return Normalize(emoji.Name)
}

// APIName returns the form of $token the reaction endpoints expect
func APIName(token string) string {
	token = strings.TrimSpace(token)
	if parts := customEmojiRegex.FindStringSubmatch(token); parts != nil {
		return parts[2] + ":" + parts[3]
	}
	return token
}

// IsCustom returns true if $token is a discord custom emoji
func IsCustom(token string) bool {
	return customEmojiRegex.MatchString(strings.TrimSpace(token))
}

// IsEmoji returns true if $token looks like an unicode emoji or a discord custom emoji
func IsEmoji(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \n|") {
		return false
	}
	if IsCustom(token) {
		return true
	}
	return isEmojiSequence([]rune(token)) && Normalize(token) != ""
}

// isEmojiSequence accepts symbols (So) and the joiners, selectors, skin tones
// and tags emoji are built from. Other characters only pass as the base of an
// emoji presentation (↔️) or keycap (1️⃣) sequence.
func isEmojiSequence(runes []rune) bool {
	base := false
	for i, r := range runes {
		switch {
		case unicode.Is(unicode.So, r):
			base = true
		case r == 0x200D, r == 0x20E3,
			r >= 0xFE00 && r <= 0xFE0F,
			r >= 0x1F3FB && r <= 0x1F3FF,
			r >= 0xE0020 && r <= 0xE007F:
		case i+1 < len(runes) && (runes[i+1] == 0xFE0F || runes[i+1] == 0x20E3):
			base = true
		default:
			return false
		}
	}
	return base
}
