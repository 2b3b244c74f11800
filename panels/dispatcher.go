package panels

import (
	"fmt"

	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/Seklfreak/robyul-panels/emojis"
	"github.com/Seklfreak/robyul-panels/helpers"
	"github.com/Seklfreak/robyul-panels/metrics"
	"github.com/Seklfreak/robyul-panels/platform"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Outcome is what became of a dispatched event
type Outcome string

const (
	OutcomeIgnored       Outcome = "ignored"
	OutcomeMessageGone   Outcome = "message_gone"
	OutcomeForeign       Outcome = "foreign"
	OutcomeUnclassified  Outcome = "unclassified"
	OutcomeEmojiMismatch Outcome = "emoji_mismatch"
	OutcomeDisabled      Outcome = "disabled"
	OutcomeResolved      Outcome = "resolved"
	OutcomeDenied        Outcome = "denied"
	OutcomeFailed        Outcome = "failed"
)

// Dispatcher routes reaction events to the resolver of the panel they belong to.
// It keeps no state between events, every panel lives in its own message.
type Dispatcher struct {
	platform  Platform
	resolvers map[Kind]Resolver
}

// NewDispatcher registers every resolver $report marks as ready
func NewDispatcher(p Platform, report *StartupReport, resolvers ...Resolver) *Dispatcher {
	d := &Dispatcher{
		platform:  p,
		resolvers: make(map[Kind]Resolver, len(resolvers)),
	}
	for _, resolver := range resolvers {
		if !report.Ready(ResolverComponent(resolver.Kind())) {
			cache.GetLogger().WithField("module", "panels").Warnf("%s panels are disabled, their resolver is not ready", resolver.Kind())
			continue
		}
		d.resolvers[resolver.Kind()] = resolver
	}
	return d
}

// OnReactionAdd listens for said discord event
func (d *Dispatcher) OnReactionAdd(reaction *discordgo.MessageReactionAdd) {
	if reaction == nil || reaction.MessageReaction == nil {
		return
	}
	d.Dispatch(eventFromReaction(EventAdded, reaction.MessageReaction))
}

// OnReactionRemove listens for said discord event
func (d *Dispatcher) OnReactionRemove(reaction *discordgo.MessageReactionRemove) {
	if reaction == nil || reaction.MessageReaction == nil {
		return
	}
	d.Dispatch(eventFromReaction(EventRemoved, reaction.MessageReaction))
}

func eventFromReaction(eventType EventType, reaction *discordgo.MessageReaction) Event {
	return Event{
		Type:      eventType,
		GuildID:   reaction.GuildID,
		ChannelID: reaction.ChannelID,
		MessageID: reaction.MessageID,
		UserID:    reaction.UserID,
		Emoji:     reaction.Emoji,
	}
}

// Dispatch runs exactly one resolver method for $event or drops it.
// Failures stay with the event, nothing escapes to the caller.
func (d *Dispatcher) Dispatch(event Event) (outcome Outcome) {
	kind := KindNone
	log := cache.GetLogger().WithFields(logrus.Fields{
		"module":  "panels",
		"event":   uuid.New().String(),
		"type":    event.Type.String(),
		"message": event.MessageID,
		"user":    event.UserID,
	})

	defer func() {
		if r := recover(); r != nil {
			outcome = OutcomeFailed
			log.Errorf("%s resolver panicked: %#v", kind, r)
			helpers.CaptureError(fmt.Errorf("%#v", r), d.sentryTags(event, kind))
		}
		metrics.PanelEvents.WithLabelValues(kind.String(), event.Type.String(), string(outcome)).Inc()
	}()

	botID := d.platform.BotUserID()
	if event.UserID == "" || event.UserID == botID {
		return OutcomeIgnored
	}

	message, err := d.platform.Message(event.ChannelID, event.MessageID)
	if err != nil {
		log.Warn("fetching panel candidate failed: ", err.Error())
		return OutcomeFailed
	}
	if message == nil {
		return OutcomeMessageGone
	}
	if message.Author == nil || message.Author.ID != botID {
		return OutcomeForeign
	}

	descriptor, ok := ClassifyMessage(message)
	if !ok {
		log.Debug("reaction on a bot message that is no panel")
		return OutcomeUnclassified
	}
	kind = descriptor.Kind
	log = log.WithField("kind", kind.String())

	if emojis.KeyFor(event.Emoji) != descriptor.EmojiKey {
		return OutcomeEmojiMismatch
	}

	resolver, ok := d.resolvers[kind]
	if !ok {
		return OutcomeDisabled
	}

	panel := Panel{Descriptor: descriptor, Message: message}
	if event.Type == EventRemoved {
		err = resolver.OnRemove(event, panel)
	} else {
		err = resolver.OnAdd(event, panel)
	}

	switch {
	case err == nil:
		log.Debug("resolved")
		return OutcomeResolved
	case platform.IsMissingPermissions(err):
		log.Warn("missing permissions: ", err.Error())
		return OutcomeDenied
	default:
		log.Error(err.Error())
		helpers.CaptureError(err, d.sentryTags(event, kind))
		return OutcomeFailed
	}
}

func (d *Dispatcher) sentryTags(event Event, kind Kind) map[string]string {
	return map[string]string{
		"GuildID":   event.GuildID,
		"ChannelID": event.ChannelID,
		"MessageID": event.MessageID,
		"UserID":    event.UserID,
		"Kind":      kind.String(),
		"Type":      event.Type.String(),
	}
}
