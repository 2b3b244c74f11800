package panels

import (
	"strings"
	"sync"
	"testing"

	"github.com/Seklfreak/robyul-panels/platform"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ticketEmoji = discordgo.Emoji{Name: "🎫"}

func ticketPanel(t *testing.T, f *fakePlatform, request string) *discordgo.Message {
	d, err := NewTicketDescriptor("🎫", request)
	require.NoError(t, err)
	return f.postPanel(t, d, "🎫")
}

func overwriteFor(overwrites []*discordgo.PermissionOverwrite, id string) *discordgo.PermissionOverwrite {
	for _, overwrite := range overwrites {
		if overwrite.ID == id {
			return overwrite
		}
	}
	return nil
}

func TestTicketPanelOpensChannelPerUser(t *testing.T) {
	f := newFakePlatform()
	f.addRole("Support")
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "Billing question")

	assert.Equal(t, OutcomeResolved, dispatcher.Dispatch(f.react(panel, "U", ticketEmoji)))
	assert.Equal(t, OutcomeResolved, dispatcher.Dispatch(f.react(panel, "V", ticketEmoji)))

	require.Len(t, f.creates, 2)
	assert.Equal(t, "ticket-U", f.creates[0].Name)
	assert.Equal(t, "ticket-V", f.creates[1].Name)
	assert.Equal(t, discordgo.ChannelTypeGuildText, f.creates[0].Type)
	assert.Equal(t, 0, f.reactionCount(panel.ID))
	assert.Equal(t, 2, f.removals)
}

func TestTicketChannelOverwrites(t *testing.T) {
	f := newFakePlatform()
	support := f.addRole("Support")
	f.addRole("Moderator")
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "")

	dispatcher.Dispatch(f.react(panel, "U", ticketEmoji))

	require.Len(t, f.creates, 1)
	overwrites := f.creates[0].PermissionOverwrites
	require.Len(t, overwrites, 4)

	everyone := overwriteFor(overwrites, testGuildID)
	require.NotNil(t, everyone)
	assert.Equal(t, discordgo.PermissionOverwriteTypeRole, everyone.Type)
	assert.Equal(t, int64(discordgo.PermissionViewChannel), everyone.Deny)
	assert.Zero(t, everyone.Allow)

	for _, id := range []string{"U", testBotID, support.ID} {
		overwrite := overwriteFor(overwrites, id)
		require.NotNil(t, overwrite, id)
		assert.Equal(t, ticketPermissions, overwrite.Allow, id)
		assert.Zero(t, overwrite.Deny, id)
	}
	assert.Equal(t, discordgo.PermissionOverwriteTypeMember, overwriteFor(overwrites, "U").Type)
	assert.Equal(t, discordgo.PermissionOverwriteTypeRole, overwriteFor(overwrites, support.ID).Type)
}

func TestTicketIntroduction(t *testing.T) {
	f := newFakePlatform()
	support := f.addRole("Support")
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "My printer\nis on fire")

	dispatcher.Dispatch(f.react(panel, "U", ticketEmoji))

	require.Len(t, f.posted, 1)
	intro := f.posted[0]
	assert.NotEqual(t, testChannelID, intro.ChannelID)
	assert.Contains(t, intro.Data.Content, "<@U>")
	assert.Contains(t, intro.Data.Content, support.Mention())
	assert.Contains(t, intro.Data.Content, "> My printer\n> is on fire")
	assert.Equal(t, []string{"U"}, intro.Data.AllowedMentions.Users)
	assert.Equal(t, []string{support.ID}, intro.Data.AllowedMentions.Roles)
}

func TestTicketFallbackRole(t *testing.T) {
	f := newFakePlatform()
	moderator := f.addRole("Moderator")
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "")

	assert.Equal(t, OutcomeResolved, dispatcher.Dispatch(f.react(panel, "U", ticketEmoji)))

	require.Len(t, f.creates, 1)
	assert.NotNil(t, overwriteFor(f.creates[0].PermissionOverwrites, moderator.ID))
}

func TestTicketWithoutSupportRole(t *testing.T) {
	f := newFakePlatform()
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "")

	assert.Equal(t, OutcomeResolved, dispatcher.Dispatch(f.react(panel, "U", ticketEmoji)))

	require.Len(t, f.creates, 1)
	assert.Len(t, f.creates[0].PermissionOverwrites, 3)
	require.Len(t, f.posted, 1)
	assert.Empty(t, f.posted[0].Data.AllowedMentions.Roles)
}

func TestTicketAlreadyOpen(t *testing.T) {
	f := newFakePlatform()
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "")

	dispatcher.Dispatch(f.react(panel, "U", ticketEmoji))
	require.Len(t, f.channels, 1)
	existing := f.channels[0]

	assert.Equal(t, OutcomeResolved, dispatcher.Dispatch(f.react(panel, "U", ticketEmoji)))

	assert.Len(t, f.creates, 1)
	require.Len(t, f.posted, 2)
	pointer := f.posted[1]
	assert.Equal(t, testChannelID, pointer.ChannelID)
	assert.Contains(t, pointer.Data.Content, "<#"+existing.ID+">")
	assert.Equal(t, 0, f.reactionCount(panel.ID))
}

func TestTicketCreateFailureAnnotatesPanel(t *testing.T) {
	f := newFakePlatform()
	f.failCreate = errors.New("discord is down")
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "Billing question")

	assert.Equal(t, OutcomeFailed, dispatcher.Dispatch(f.react(panel, "U", ticketEmoji)))

	assert.Equal(t, 1, f.reactionCount(panel.ID))
	assert.Equal(t, 1, f.edits)
	description := panel.Embeds[0].Description
	assert.True(t, strings.HasSuffix(description, AnnotationPrefix+"ticket for <@U> failed: creating the ticket channel"), description)

	// the annotated panel keeps working
	d, ok := ClassifyMessage(panel)
	require.True(t, ok)
	assert.Equal(t, "Billing question", d.Request)

	f.failCreate = nil
	assert.Equal(t, OutcomeResolved, dispatcher.Dispatch(f.react(panel, "U", ticketEmoji)))
	assert.Len(t, f.channels, 1)
}

func TestTicketCreateDenied(t *testing.T) {
	f := newFakePlatform()
	f.failCreate = errors.Wrap(platform.ErrMissingPermissions, "creating channel")
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "")

	assert.Equal(t, OutcomeDenied, dispatcher.Dispatch(f.react(panel, "U", ticketEmoji)))
	assert.Equal(t, 1, f.reactionCount(panel.ID))
}

func TestTicketIntroFailureKeepsReaction(t *testing.T) {
	f := newFakePlatform()
	f.failOutside = errors.New("cannot post there")
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "")

	assert.Equal(t, OutcomeFailed, dispatcher.Dispatch(f.react(panel, "U", ticketEmoji)))

	assert.Len(t, f.channels, 1)
	assert.Equal(t, 1, f.reactionCount(panel.ID))
	assert.Equal(t, 1, f.edits)
	assert.Contains(t, panel.Embeds[0].Description, "posting the ticket introduction")
}

func TestTicketLookupFailure(t *testing.T) {
	f := newFakePlatform()
	f.failLookup = errors.New("timeout")
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "")

	assert.Equal(t, OutcomeFailed, dispatcher.Dispatch(f.react(panel, "U", ticketEmoji)))
	assert.Empty(t, f.creates)
	assert.Equal(t, 1, f.reactionCount(panel.ID))
}

func TestTicketConcurrentPresses(t *testing.T) {
	f := newFakePlatform()
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dispatcher.Dispatch(f.react(panel, "U", ticketEmoji))
		}()
	}
	wg.Wait()

	assert.Len(t, f.creates, 1)
	assert.Len(t, f.channels, 1)
}

func TestTicketChannelName(t *testing.T) {
	f := newFakePlatform()
	assert.Equal(t, "ticket-42", NewTicketResolver(f, TicketConfig{}).ChannelName("42"))
	assert.Equal(t, "support-42", NewTicketResolver(f, TicketConfig{NamePrefix: "Support-"}).ChannelName("42"))
	assert.Equal(t, "support-ticket-42", NewTicketResolver(f, TicketConfig{NamePrefix: "Support Ticket "}).ChannelName("42"))
	assert.Equal(t, "ticket-42", NewTicketResolver(f, TicketConfig{NamePrefix: "!?"}).ChannelName("42"))
}

func TestChannelNamePrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"ticket-", "ticket-"},
		{"Support Ticket ", "support-ticket-"},
		{"  Help!! Desk -- ", "help-desk-"},
		{"bug_report:", "bug_report"},
		{"Über Hilfe ", "über-hilfe-"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChannelNamePrefix(tt.prefix), tt.prefix)
	}
}

func TestTicketPrefixWithSpacesFindsOpenTicket(t *testing.T) {
	f := newFakePlatform()
	dispatcher := NewDispatcher(f, readyReport(), NewTicketResolver(f, TicketConfig{NamePrefix: "Support Ticket "}))
	panel := ticketPanel(t, f, "")

	dispatcher.Dispatch(f.react(panel, "U", ticketEmoji))
	dispatcher.Dispatch(f.react(panel, "U", ticketEmoji))

	require.Len(t, f.creates, 1)
	assert.Equal(t, "support-ticket-U", f.creates[0].Name)
	require.Len(t, f.posted, 2)
	assert.Equal(t, testChannelID, f.posted[1].ChannelID)
}

func TestTicketRemovalKeepsChannel(t *testing.T) {
	f := newFakePlatform()
	dispatcher := newTestDispatcher(f)
	panel := ticketPanel(t, f, "")

	dispatcher.Dispatch(f.react(panel, "U", ticketEmoji))
	assert.Equal(t, OutcomeResolved, dispatcher.Dispatch(f.unreact(panel, "U", ticketEmoji)))
	assert.Len(t, f.channels, 1)
}
