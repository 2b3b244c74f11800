package panels

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

const (
	MinDiceCount = 1
	MaxDiceCount = 20
	MinDiceSides = 2
	MaxDiceSides = 1000
)

var (
	ErrDiceFormat = errors.New("dice expression must look like 2d6")
	ErrDiceRange  = errors.New("dice expression out of range")

	diceRegex = regexp.MustCompile(`(?i)^(\d{1,6})d(\d{1,6})$`)
)

// Dice is a parsed "<count>d<sides>" expression
type Dice struct {
	Count int
	Sides int
}

// ParseDice parses and range checks a dice expression
func ParseDice(expression string) (Dice, error) {
	parts := diceRegex.FindStringSubmatch(expression)
	if parts == nil {
		return Dice{}, ErrDiceFormat
	}
	count, err := strconv.Atoi(parts[1])
	if err != nil {
		return Dice{}, ErrDiceFormat
	}
	sides, err := strconv.Atoi(parts[2])
	if err != nil {
		return Dice{}, ErrDiceFormat
	}

	dice := Dice{Count: count, Sides: sides}
	if !dice.Valid() {
		return Dice{}, errors.Wrapf(ErrDiceRange, "%s (allowed: %d-%d dice, %d-%d sides)",
			expression, MinDiceCount, MaxDiceCount, MinDiceSides, MaxDiceSides)
	}
	return dice, nil
}

func (d Dice) Valid() bool {
	return d.Count >= MinDiceCount && d.Count <= MaxDiceCount &&
		d.Sides >= MinDiceSides && d.Sides <= MaxDiceSides
}

func (d Dice) String() string {
	return fmt.Sprintf("%dd%d", d.Count, d.Sides)
}

// Roll rolls every die with $intn, which has to behave like rand.Intn
func (d Dice) Roll(intn func(n int) int) (rolls []int, total int) {
	rolls = make([]int, d.Count)
	for i := range rolls {
		rolls[i] = intn(d.Sides) + 1
		total += rolls[i]
	}
	return rolls, total
}
