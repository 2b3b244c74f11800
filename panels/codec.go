package panels

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Seklfreak/robyul-panels/emojis"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// Panel messages are their own storage. The embed title names the kind, the
// footer holds "panel:v1|<kind>:<payload>|emoji:<key>". Changing any of the
// literals below orphans every panel that is already posted.
const (
	TitleRole   = "Role Panel"
	TitleDice   = "Dice Panel"
	TitleTicket = "Ticket Panel"

	footerVersionKey = "panel"
	footerVersion    = "v1"
	footerEmojiKey   = "emoji"
	footerRoleKey    = "role"
	footerDiceKey    = "dice"
	footerTicketKey  = "ticket"
	ticketOpenValue  = "open"

	ticketUsagePrefix = "React with "
	AnnotationPrefix  = "⚠️ "

	maxDescriptionLength = 4096
)

var (
	ErrInvalidEmoji   = errors.New("invalid panel emoji")
	ErrInvalidPayload = errors.New("invalid panel payload")
	ErrInvalidKind    = errors.New("invalid panel kind")

	kindByTitle = map[string]Kind{
		TitleRole:   KindRole,
		TitleDice:   KindDice,
		TitleTicket: KindTicket,
	}
	titleByKind = map[Kind]string{
		KindRole:   TitleRole,
		KindDice:   TitleDice,
		KindTicket: TitleTicket,
	}
	colorByKind = map[Kind]int{
		KindRole:   0x0FADED,
		KindDice:   0xE67E22,
		KindTicket: 0x2ECC71,
	}
)

// NewRoleDescriptor describes a role panel for $role triggered by $emojiToken
func NewRoleDescriptor(emojiToken, role string) (Descriptor, error) {
	d := Descriptor{Kind: KindRole, EmojiKey: emojis.Normalize(emojiToken), Payload: strings.TrimSpace(role)}
	_, err := Encode(d)
	return d, err
}

// NewDiceDescriptor describes a dice panel, the expression is range checked
func NewDiceDescriptor(emojiToken, expression string) (Descriptor, error) {
	dice, err := ParseDice(strings.TrimSpace(expression))
	if err != nil {
		return Descriptor{}, err
	}
	d := Descriptor{Kind: KindDice, EmojiKey: emojis.Normalize(emojiToken), Payload: dice.String(), Dice: dice}
	_, err = Encode(d)
	return d, err
}

// NewTicketDescriptor describes a ticket panel with the request text $request
func NewTicketDescriptor(emojiToken, request string) (Descriptor, error) {
	d := Descriptor{Kind: KindTicket, EmojiKey: emojis.Normalize(emojiToken), Request: strings.TrimSpace(request)}
	_, err := Encode(d)
	return d, err
}

// Encode returns the footer text for $d
func Encode(d Descriptor) (string, error) {
	if d.EmojiKey == "" || strings.ContainsAny(d.EmojiKey, "|\n") || d.EmojiKey != strings.TrimSpace(d.EmojiKey) {
		return "", ErrInvalidEmoji
	}

	var key, value string
	switch d.Kind {
	case KindRole:
		if !validValue(d.Payload) {
			return "", errors.Wrap(ErrInvalidPayload, "role name")
		}
		key, value = footerRoleKey, d.Payload
	case KindDice:
		dice, err := ParseDice(d.Payload)
		if err != nil {
			return "", err
		}
		if dice != d.Dice {
			return "", errors.Wrap(ErrInvalidPayload, "dice do not match the expression")
		}
		key, value = footerDiceKey, d.Payload
	case KindTicket:
		if d.Payload != "" {
			return "", errors.Wrap(ErrInvalidPayload, "tickets carry no payload")
		}
		if !validRequest(d.Request) {
			return "", errors.Wrap(ErrInvalidPayload, "ticket request")
		}
		key, value = footerTicketKey, ticketOpenValue
	default:
		return "", ErrInvalidKind
	}

	return fmt.Sprintf("%s:%s|%s:%s|%s:%s",
		footerVersionKey, footerVersion, key, value, footerEmojiKey, d.EmojiKey), nil
}

func validValue(value string) bool {
	return value != "" && value == strings.TrimSpace(value) && !strings.ContainsAny(value, "|\n")
}

func validRequest(request string) bool {
	if request != strings.TrimSpace(request) || utf8.RuneCountInString(request) > 1024 {
		return false
	}
	lines := strings.Split(request, "\n")
	if strings.HasPrefix(lines[0], ticketUsagePrefix) {
		return false
	}
	for _, line := range lines {
		if strings.HasPrefix(line, AnnotationPrefix) {
			return false
		}
	}
	return true
}

// Embed builds the card that gets posted for $d. $emojiToken is shown to the
// users as the emoji to react with.
func Embed(d Descriptor, emojiToken string) (*discordgo.MessageEmbed, error) {
	footer, err := Encode(d)
	if err != nil {
		return nil, err
	}

	var description string
	switch d.Kind {
	case KindRole:
		description = fmt.Sprintf("React with %s to get the **%s** role.\nReact again or remove your reaction to lose it.",
			emojiToken, d.Payload)
	case KindDice:
		description = fmt.Sprintf("React with %s to roll **%s**.", emojiToken, d.Payload)
	case KindTicket:
		description = ticketUsagePrefix + emojiToken + " to open a private ticket."
		if d.Request != "" {
			description += "\n\n" + d.Request
		}
	}

	return &discordgo.MessageEmbed{
		Title:       titleByKind[d.Kind],
		Description: description,
		Color:       colorByKind[d.Kind],
		Footer:      &discordgo.MessageEmbedFooter{Text: footer},
	}, nil
}

// Classify decodes the panel behind a message's title, description and footer.
// Anything that does not match the grammar exactly is not a panel.
func Classify(title, description, footer string) (Descriptor, bool) {
	kind, ok := kindByTitle[strings.TrimSpace(title)]
	if !ok {
		return Descriptor{}, false
	}

	fields, ok := parseFooter(footer)
	if !ok {
		return Descriptor{}, false
	}

	d := Descriptor{Kind: kind, EmojiKey: fields[footerEmojiKey]}
	if d.EmojiKey == "" {
		return Descriptor{}, false
	}

	switch kind {
	case KindRole:
		role, ok := fields[footerRoleKey]
		if !ok || role == "" {
			return Descriptor{}, false
		}
		d.Payload = role
	case KindDice:
		expression, ok := fields[footerDiceKey]
		if !ok {
			return Descriptor{}, false
		}
		dice, err := ParseDice(expression)
		if err != nil {
			return Descriptor{}, false
		}
		d.Payload = expression
		d.Dice = dice
	case KindTicket:
		if fields[footerTicketKey] != ticketOpenValue {
			return Descriptor{}, false
		}
		d.Request = ticketRequest(description)
	}
	return d, true
}

// ClassifyMessage classifies the first embed of $msg
func ClassifyMessage(msg *discordgo.Message) (Descriptor, bool) {
	if msg == nil || len(msg.Embeds) == 0 || msg.Embeds[0] == nil || msg.Embeds[0].Footer == nil {
		return Descriptor{}, false
	}
	embed := msg.Embeds[0]
	return Classify(embed.Title, embed.Description, embed.Footer.Text)
}

func parseFooter(footer string) (fields map[string]string, ok bool) {
	pairs := strings.Split(strings.TrimSpace(footer), "|")
	if len(pairs) != 3 {
		return nil, false
	}
	fields = make(map[string]string, len(pairs))
	for i, pair := range pairs {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, false
		}
		key, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if i == 0 && (key != footerVersionKey || value != footerVersion) {
			return nil, false
		}
		if _, duplicate := fields[key]; duplicate {
			return nil, false
		}
		fields[key] = value
	}
	return fields, true
}

func ticketRequest(description string) string {
	lines := strings.Split(description, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], ticketUsagePrefix) {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], AnnotationPrefix) {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Annotate returns a copy of $embed with $note appended to the description.
// Once the description would get too long for discord the oldest notes are
// dropped, only the trailing notes count, everything above them is the panel.
func Annotate(embed *discordgo.MessageEmbed, note string) *discordgo.MessageEmbed {
	annotated := *embed
	note = AnnotationPrefix + strings.Replace(note, "\n", " ", -1)

	lines := strings.Split(embed.Description, "\n")
	notes := len(lines)
	for notes > 0 && strings.HasPrefix(lines[notes-1], AnnotationPrefix) {
		notes--
	}
	for utf8.RuneCountInString(strings.Join(append(lines, note), "\n")) > maxDescriptionLength {
		if notes >= len(lines) {
			return &annotated
		}
		lines = append(lines[:notes:notes], lines[notes+1:]...)
	}
	annotated.Description = strings.Join(append(lines, note), "\n")
	return &annotated
}
