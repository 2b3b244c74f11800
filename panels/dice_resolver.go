package panels

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/Seklfreak/robyul-panels/emojis"
	"github.com/Seklfreak/robyul-panels/helpers"
	"github.com/Seklfreak/robyul-panels/metrics"
	"github.com/bwmarrin/discordgo"
	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// DiceResolver rolls the panel's dice on every press and takes the reaction
// back afterwards, so the panel never runs out of presses.
type DiceResolver struct {
	platform Platform
	intn     func(n int) int
}

func NewDiceResolver(p Platform) *DiceResolver {
	return &DiceResolver{platform: p, intn: rand.Intn}
}

func (r *DiceResolver) Kind() Kind {
	return KindDice
}

func (r *DiceResolver) OnAdd(event Event, panel Panel) error {
	if emojis.KeyFor(event.Emoji) != panel.EmojiKey {
		return nil
	}

	rolls, total := panel.Dice.Roll(r.intn)
	metrics.DiceRolled.Add(float64(len(rolls)))

	rollTexts := make([]string, len(rolls))
	for i, roll := range rolls {
		rollTexts[i] = strconv.Itoa(roll)
	}

	_, err := r.platform.PostMessage(event.ChannelID, &discordgo.MessageSend{
		Content: helpers.GetTextF("panels.dice.result",
			event.UserID, panel.Dice.String(), "["+strings.Join(rollTexts, ", ")+"]", humanize.Comma(int64(total))),
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{event.UserID}},
	})
	if err != nil {
		// the reaction stays so the press is visibly unconsumed
		return errors.Wrap(err, "posting roll result")
	}

	return r.platform.RemoveReaction(event.ChannelID, event.MessageID, event.Emoji.APIName(), event.UserID)
}

func (r *DiceResolver) OnRemove(event Event, panel Panel) error {
	return nil
}
