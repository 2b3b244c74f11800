// Package panels routes reaction events on bot-authored panel messages to the
// resolver for the panel's kind. Panels keep all of their state in the message
// itself: the embed title names the kind and the footer carries the encoded
// parameters, see codec.go.
package panels

import (
	"github.com/bwmarrin/discordgo"
)

// Kind identifies the behaviour of a panel
type Kind int

const (
	KindNone Kind = iota
	KindRole
	KindDice
	KindTicket
)

func (k Kind) String() string {
	switch k {
	case KindRole:
		return "role"
	case KindDice:
		return "dice"
	case KindTicket:
		return "ticket"
	}
	return "none"
}

// Descriptor is everything a panel message encodes about itself
type Descriptor struct {
	Kind     Kind
	EmojiKey string
	// Payload is the role name for role panels and the dice expression for dice panels
	Payload string
	Dice    Dice
	// Request is the ticket description shown on ticket panels
	Request string
}

// Panel is a classified panel message
type Panel struct {
	Descriptor
	Message *discordgo.Message
}

// EventType tells added and removed reactions apart
type EventType int

const (
	EventAdded EventType = iota
	EventRemoved
)

func (t EventType) String() string {
	if t == EventRemoved {
		return "removed"
	}
	return "added"
}

// Event is a reaction added to or removed from a message
type Event struct {
	Type      EventType
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Emoji     discordgo.Emoji
}

// Resolver implements the reaction transitions of one panel kind
type Resolver interface {
	Kind() Kind
	OnAdd(event Event, panel Panel) error
	OnRemove(event Event, panel Panel) error
}
