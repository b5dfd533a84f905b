// Package dice rolls dice and spawns random encounters.
package dice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/whotypes/dndspawner/internal/commands"
	"github.com/whotypes/dndspawner/internal/discord"
)

const (
	maxDice     = 100
	maxSides    = 1000
	maxModifier = 1000
)

var (
	ErrInvalidDice = errors.New("dice must look like NdM, NdM+K or NdM-K")
	ErrTooManyDice = fmt.Errorf("at most %d dice with at most %d sides", maxDice, maxSides)
	ErrModifier    = fmt.Errorf("modifier must be at most %d", maxModifier)
)

var diceExpr = regexp.MustCompile(`^(\d*)d(\d+)(?:([+-])(\d+))?$`)

// Roll is a parsed dice expression.
type Roll struct {
	Count    int
	Sides    int
	Modifier int
}

// ParseRoll parses expressions like d20, 2d6 or 4d8-2.
func ParseRoll(s string) (Roll, error) {
	m := diceExpr.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return Roll{}, ErrInvalidDice
	}
	r := Roll{Count: 1}
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Roll{}, ErrInvalidDice
		}
		r.Count = n
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return Roll{}, ErrInvalidDice
	}
	r.Sides = sides
	if m[3] != "" {
		mod, err := strconv.Atoi(m[4])
		if err != nil || mod > maxModifier {
			return Roll{}, ErrModifier
		}
		if m[3] == "-" {
			mod = -mod
		}
		r.Modifier = mod
	}
	if r.Count < 1 || r.Sides < 2 {
		return Roll{}, ErrInvalidDice
	}
	if r.Count > maxDice || r.Sides > maxSides {
		return Roll{}, ErrTooManyDice
	}
	return r, nil
}

func (r Roll) String() string {
	s := fmt.Sprintf("%dd%d", r.Count, r.Sides)
	switch {
	case r.Modifier > 0:
		s += fmt.Sprintf("+%d", r.Modifier)
	case r.Modifier < 0:
		s += fmt.Sprintf("%d", r.Modifier)
	}
	return s
}

// Dice is the dice extension. Its random source is guarded because commands
// run concurrently.
type Dice struct {
	log zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand

	rollCooldown  *commands.Cooldown
	spawnCooldown *commands.Cooldown
}

func New(deps discord.ExtensionDeps) (commands.Extension, error) {
	return NewWithRand(deps.Log, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))), nil
}

// NewWithRand builds the extension around a fixed random source.
func NewWithRand(log zerolog.Logger, rng *rand.Rand) *Dice {
	return &Dice{
		log:           log,
		rng:           rng,
		rollCooldown:  commands.NewCooldown(1, 5*time.Second, commands.BucketUser),
		spawnCooldown: commands.NewCooldown(1, time.Minute, commands.BucketUser),
	}
}

func (d *Dice) Commands() []*commands.Command {
	return []*commands.Command{
		{
			Name:        "roll",
			Aliases:     []string{"r"},
			Description: "Roll dice, e.g. 2d6+3.",
			Params: []commands.Param{
				{Name: "dice", Description: "Dice expression such as 1d20 or 2d6+3"},
			},
			Cooldown: d.rollCooldown,
			Hybrid:   true,
			Run:      d.roll,
		},
		{
			Name:        "spawn",
			Description: "Spawn a random encounter of the given challenge rating.",
			Params: []commands.Param{
				{Name: "cr", Description: "Challenge rating: 0, 1/8, 1/4, 1/2 or 1-30"},
			},
			Cooldown: d.spawnCooldown,
			Hybrid:   true,
			Run:      d.spawn,
		},
	}
}

// Throw rolls r and returns the individual dice and the total.
func (d *Dice) Throw(r Roll) ([]int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rolls := make([]int, r.Count)
	total := r.Modifier
	for i := range rolls {
		rolls[i] = d.rng.IntN(r.Sides) + 1
		total += rolls[i]
	}
	return rolls, total
}

func (d *Dice) intN(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.IntN(n)
}

func (d *Dice) roll(ctx *commands.Context) error {
	r, err := ParseRoll(ctx.Arg("dice"))
	if err != nil {
		return ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title:       "Error!",
			Description: fmt.Sprintf("Cannot roll `%s`: %v.", ctx.Arg("dice"), err),
			Color:       discord.ErrorColor,
		})
	}

	rolls, total := d.Throw(r)
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "🎲 " + r.String(),
		Description: fmt.Sprintf("%s = **%d**", formatRolls(rolls, r.Modifier), total),
		Color:       discord.EmbedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Rolled by " + ctx.Author.Username},
	})
}

func formatRolls(rolls []int, modifier int) string {
	parts := make([]string, len(rolls))
	for i, v := range rolls {
		parts[i] = strconv.Itoa(v)
	}
	s := "[" + strings.Join(parts, ", ") + "]"
	switch {
	case modifier > 0:
		s += fmt.Sprintf(" + %d", modifier)
	case modifier < 0:
		s += fmt.Sprintf(" - %d", -modifier)
	}
	return s
}
