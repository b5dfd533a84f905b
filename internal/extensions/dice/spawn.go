package dice

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/whotypes/dndspawner/internal/commands"
	"github.com/whotypes/dndspawner/internal/discord"
)

var ErrInvalidChallengeRating = errors.New("challenge rating must be 0, 1/8, 1/4, 1/2 or a whole number from 1 to 30")

// Monster is one entry of the encounter table.
type Monster struct {
	Name string
	// Group is the dice rolled for how many show up.
	Group Roll
}

// ChallengeRating is stored in eighths so fractional ratings stay exact.
type ChallengeRating int

func (cr ChallengeRating) String() string {
	switch cr {
	case 1:
		return "1/8"
	case 2:
		return "1/4"
	case 4:
		return "1/2"
	}
	return strconv.Itoa(int(cr) / 8)
}

// ParseChallengeRating accepts 0, 1/8, 1/4, 1/2, their decimal forms and
// whole numbers up to 30.
func ParseChallengeRating(s string) (ChallengeRating, error) {
	switch strings.TrimSpace(s) {
	case "1/8", "0.125", ".125":
		return 1, nil
	case "1/4", "0.25", ".25":
		return 2, nil
	case "1/2", "0.5", ".5":
		return 4, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 30 {
		return 0, ErrInvalidChallengeRating
	}
	return ChallengeRating(n * 8), nil
}

func single() Roll           { return Roll{Count: 1, Sides: 1} }
func group(n, sides int) Roll { return Roll{Count: n, Sides: sides} }

var encounters = map[ChallengeRating][]Monster{
	0:       {{"Rat", group(2, 4)}, {"Frog", group(1, 6)}, {"Crab", group(1, 4)}, {"Bat", group(2, 6)}},
	1:       {{"Kobold", group(2, 4)}, {"Bandit", group(1, 6)}, {"Giant Rat", group(2, 4)}, {"Cultist", group(1, 4)}},
	2:       {{"Goblin", group(2, 4)}, {"Skeleton", group(1, 6)}, {"Zombie", group(1, 4)}, {"Wolf", group(1, 4)}},
	4:       {{"Orc", group(1, 4)}, {"Hobgoblin", group(1, 4)}, {"Gnoll", group(1, 4)}, {"Shadow", single()}},
	1 * 8:   {{"Bugbear", single()}, {"Dire Wolf", group(1, 2)}, {"Ghoul", group(1, 3)}, {"Giant Spider", single()}},
	2 * 8:   {{"Ogre", single()}, {"Gargoyle", single()}, {"Gelatinous Cube", single()}, {"Ghast", group(1, 2)}},
	3 * 8:   {{"Owlbear", single()}, {"Basilisk", single()}, {"Manticore", single()}, {"Mummy", single()}},
	4 * 8:   {{"Ettin", single()}, {"Ghost", single()}, {"Black Pudding", single()}},
	5 * 8:   {{"Troll", single()}, {"Hill Giant", single()}, {"Air Elemental", single()}, {"Vampire Spawn", single()}},
	6 * 8:   {{"Chimera", single()}, {"Medusa", single()}, {"Wyvern", single()}},
	7 * 8:   {{"Stone Giant", single()}, {"Young Black Dragon", single()}},
	8 * 8:   {{"Frost Giant", single()}, {"Hydra", single()}, {"Young Green Dragon", single()}},
	9 * 8:   {{"Fire Giant", single()}, {"Young Blue Dragon", single()}, {"Treant", single()}},
	10 * 8:  {{"Stone Golem", single()}, {"Young Red Dragon", single()}, {"Aboleth", single()}},
	11 * 8:  {{"Behir", single()}, {"Djinni", single()}, {"Remorhaz", single()}},
	13 * 8:  {{"Beholder", single()}, {"Storm Giant", single()}, {"Vampire", single()}},
	15 * 8:  {{"Adult Green Dragon", single()}, {"Mummy Lord", single()}},
	17 * 8:  {{"Adult Red Dragon", single()}, {"Death Knight", single()}},
	21 * 8:  {{"Lich", single()}, {"Ancient Black Dragon", single()}},
	24 * 8:  {{"Ancient Red Dragon", single()}},
	30 * 8:  {{"Tarrasque", single()}},
}

// ratings lists the table keys in ascending order.
var ratings = func() []ChallengeRating {
	out := make([]ChallengeRating, 0, len(encounters))
	for cr := range encounters {
		out = append(out, cr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}()

// tableFor returns the highest table rating not above cr.
func tableFor(cr ChallengeRating) ChallengeRating {
	best := ratings[0]
	for _, r := range ratings {
		if r > cr {
			break
		}
		best = r
	}
	return best
}

// Encounter picks a monster for cr and how many of them appear.
func (d *Dice) Encounter(cr ChallengeRating) (Monster, ChallengeRating, int) {
	table := tableFor(cr)
	monsters := encounters[table]
	m := monsters[d.intN(len(monsters))]
	_, n := d.Throw(m.Group)
	return m, table, n
}

func (d *Dice) spawn(ctx *commands.Context) error {
	cr, err := ParseChallengeRating(ctx.Arg("cr"))
	if err != nil {
		return ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title:       "Error!",
			Description: fmt.Sprintf("Cannot spawn `%s`: %v.", ctx.Arg("cr"), err),
			Color:       discord.ErrorColor,
		})
	}

	m, table, n := d.Encounter(cr)
	d.log.Debug().Str("monster", m.Name).Int("count", n).Stringer("cr", table).Msg("spawned encounter")

	desc := fmt.Sprintf("A wild **%s** appears!", m.Name)
	if n > 1 {
		desc = fmt.Sprintf("**%d × %s** appear!", n, m.Name)
	}
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "⚔️ Encounter",
		Description: desc,
		Color:       discord.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Challenge Rating", Value: table.String(), Inline: true},
			{Name: "Requested", Value: cr.String(), Inline: true},
		},
	})
}
