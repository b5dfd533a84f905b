// Package extensions lists the command extensions shipped with the bot.
package extensions

import (
	"github.com/whotypes/dndspawner/internal/discord"
	"github.com/whotypes/dndspawner/internal/extensions/dice"
	"github.com/whotypes/dndspawner/internal/extensions/general"
	"github.com/whotypes/dndspawner/internal/extensions/moderation"
	"github.com/whotypes/dndspawner/internal/extensions/owner"
)

// Registry returns every extension in load order.
func Registry() []discord.Entry {
	return []discord.Entry{
		{Name: "general", New: general.New},
		{Name: "dice", New: dice.New},
		{Name: "moderation", New: moderation.New},
		{Name: "owner", New: owner.New},
	}
}
