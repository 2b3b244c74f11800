package panels

import (
	"strings"
	"testing"

	"github.com/Seklfreak/robyul-panels/emojis"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeClassifyRoundTrip(t *testing.T) {
	role, err := NewRoleDescriptor("\U0001F5E1️", "Raider")
	require.NoError(t, err)
	roleWithColon, err := NewRoleDescriptor("<:raid:1234>", "Raid: Tuesday")
	require.NoError(t, err)
	dice, err := NewDiceDescriptor("🎲", "3D6")
	require.NoError(t, err)
	ticket, err := NewTicketDescriptor("🎫", "Please help me with\nmy **account**")
	require.NoError(t, err)
	emptyTicket, err := NewTicketDescriptor("<a:ticket:42>", "")
	require.NoError(t, err)

	for _, d := range []Descriptor{role, roleWithColon, dice, ticket, emptyTicket} {
		t.Run(d.Kind.String()+"/"+d.Payload, func(t *testing.T) {
			embed, err := Embed(d, "x")
			require.NoError(t, err)

			got, ok := Classify(embed.Title, embed.Description, embed.Footer.Text)
			require.True(t, ok, embed.Footer.Text)
			assert.Equal(t, d, got)

			footer, err := Encode(got)
			require.NoError(t, err)
			assert.Equal(t, embed.Footer.Text, footer)
		})
	}
}

func TestEncodeFooterLayout(t *testing.T) {
	d, err := NewDiceDescriptor("🎲", "2d20")
	require.NoError(t, err)

	footer, err := Encode(d)
	require.NoError(t, err)
	assert.Equal(t, "panel:v1|dice:2d20|emoji:"+emojis.Normalize("🎲"), footer)
}

func TestEncodeRejectsInvalid(t *testing.T) {
	_, err := NewRoleDescriptor("🗡", "Raid|Team")
	assert.Error(t, err)
	_, err = NewRoleDescriptor("🗡", "")
	assert.Error(t, err)
	_, err = NewRoleDescriptor("", "Raider")
	assert.Error(t, err)
	_, err = NewTicketDescriptor("🎫", "React with 🎫 to open a private ticket.")
	assert.Error(t, err)
	_, err = NewTicketDescriptor("🎫", "help\n"+AnnotationPrefix+"fake")
	assert.Error(t, err)
	_, err = NewTicketDescriptor("🎫", AnnotationPrefix+"urgent\nmy printer is on fire")
	assert.Error(t, err)

	_, err = Encode(Descriptor{Kind: KindDice, EmojiKey: "🎲", Payload: "2d6", Dice: Dice{Count: 3, Sides: 6}})
	assert.Error(t, err)
	_, err = Encode(Descriptor{Kind: KindNone, EmojiKey: "🎲"})
	assert.Equal(t, ErrInvalidKind, err)
}

func TestDiceRangeRejectedAtCreation(t *testing.T) {
	for _, expression := range []string{"21d6", "1d1001", "0d6", "1d1", "d6", "2x6", "", "99999999d6"} {
		_, err := NewDiceDescriptor("🎲", expression)
		assert.Error(t, err, expression)
	}
}

func TestClassifyRejectsMalformed(t *testing.T) {
	key := emojis.Normalize("🎲")
	tests := []struct {
		name   string
		title  string
		footer string
	}{
		{"unknown title", "Poll", "panel:v1|dice:2d6|emoji:" + key},
		{"no version", TitleDice, "dice:2d6|emoji:" + key},
		{"wrong version", TitleDice, "panel:v2|dice:2d6|emoji:" + key},
		{"missing delimiter", TitleDice, "panel:v1 dice:2d6 emoji:" + key},
		{"no emoji", TitleDice, "panel:v1|dice:2d6|emoji:"},
		{"non numeric dice", TitleDice, "panel:v1|dice:xd6|emoji:" + key},
		{"tampered count", TitleDice, "panel:v1|dice:50d6|emoji:" + key},
		{"tampered sides", TitleDice, "panel:v1|dice:1d5000|emoji:" + key},
		{"kind mismatch", TitleRole, "panel:v1|dice:2d6|emoji:" + key},
		{"empty role", TitleRole, "panel:v1|role:|emoji:" + key},
		{"ticket not open", TitleTicket, "panel:v1|ticket:closed|emoji:" + key},
		{"duplicate key", TitleDice, "panel:v1|emoji:a|emoji:" + key},
		{"extra pair", TitleDice, "panel:v1|dice:2d6|emoji:" + key + "|x:y"},
		{"empty", TitleDice, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Classify(tt.title, "", tt.footer)
			assert.False(t, ok)
		})
	}
}

func TestClassifyMessage(t *testing.T) {
	_, ok := ClassifyMessage(nil)
	assert.False(t, ok)
	_, ok = ClassifyMessage(&discordgo.Message{Content: "hello"})
	assert.False(t, ok)
	_, ok = ClassifyMessage(&discordgo.Message{Embeds: []*discordgo.MessageEmbed{{Title: TitleDice}}})
	assert.False(t, ok)

	d, err := NewDiceDescriptor("🎲", "1d20")
	require.NoError(t, err)
	embed, err := Embed(d, "🎲")
	require.NoError(t, err)
	got, ok := ClassifyMessage(&discordgo.Message{Embeds: []*discordgo.MessageEmbed{embed}})
	require.True(t, ok)
	assert.Equal(t, Dice{Count: 1, Sides: 20}, got.Dice)
}

func TestAnnotateKeepsPanelClassifiable(t *testing.T) {
	d, err := NewTicketDescriptor("🎫", "My printer is on fire")
	require.NoError(t, err)
	embed, err := Embed(d, "🎫")
	require.NoError(t, err)

	annotated := Annotate(embed, "ticket for <@1> failed: creating the ticket channel")
	annotated = Annotate(annotated, "second\nfailure")

	assert.NotEqual(t, embed.Description, annotated.Description)
	assert.True(t, strings.HasSuffix(annotated.Description, AnnotationPrefix+"second failure"))
	got, ok := Classify(annotated.Title, annotated.Description, annotated.Footer.Text)
	require.True(t, ok)
	assert.Equal(t, d, got)
}

func TestAnnotateDropsOldNotes(t *testing.T) {
	embed := &discordgo.MessageEmbed{Title: TitleTicket, Description: "React with 🎫 to open a private ticket."}
	long := strings.Repeat("x", 1500)
	for i := 0; i < 5; i++ {
		embed = Annotate(embed, long)
	}
	assert.LessOrEqual(t, len([]rune(embed.Description)), maxDescriptionLength)
	assert.True(t, strings.HasPrefix(embed.Description, "React with 🎫"))
	assert.Equal(t, 2, strings.Count(embed.Description, AnnotationPrefix))
}

func TestAnnotateOnlyDropsTrailingNotes(t *testing.T) {
	d, err := NewTicketDescriptor("🎫", "my printer is on fire")
	require.NoError(t, err)
	embed, err := Embed(d, "🎫")
	require.NoError(t, err)
	// panels posted before warning lines were rejected inside requests
	embed.Description = strings.Replace(embed.Description, "my printer", AnnotationPrefix+"urgent\nmy printer", 1)
	before, ok := Classify(embed.Title, embed.Description, embed.Footer.Text)
	require.True(t, ok)
	require.Equal(t, AnnotationPrefix+"urgent\nmy printer is on fire", before.Request)

	for i := 0; i < 80; i++ {
		embed = Annotate(embed, "ticket for <@1> failed: creating the ticket channel "+strings.Repeat("x", 100))
	}

	assert.LessOrEqual(t, len([]rune(embed.Description)), maxDescriptionLength)
	after, ok := Classify(embed.Title, embed.Description, embed.Footer.Text)
	require.True(t, ok)
	assert.Equal(t, before, after)
}
