package commands

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cooldown := &CooldownError{RetryAfter: time.Second}
	notOwner := &NotOwnerError{}
	missing := &MissingPermissionsError{Missing: []string{"ban_members"}}
	botMissing := &BotMissingPermissionsError{Missing: []string{"kick_members"}}
	missingArg := &MissingRequiredArgumentError{Param: "dice"}

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"cooldown", cooldown, cooldown},
		{"not owner", notOwner, notOwner},
		{"missing permissions", missing, missing},
		{"bot missing permissions", botMissing, botMissing},
		{"missing argument", missingArg, missingArg},
		{"wrapped missing argument", &CommandInvokeError{Command: "roll", Err: missingArg}, missingArg},
		{"fmt wrapped cooldown", fmt.Errorf("check: %w", cooldown), cooldown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassify_UnhandledKeepsCause(t *testing.T) {
	cause := errors.New("the owlbear ate the dice")

	kind := Classify(cause)

	unhandled, ok := kind.(*UnhandledError)
	if assert.True(t, ok) {
		assert.Same(t, cause, unhandled.Cause)
		assert.ErrorIs(t, unhandled, cause)
		assert.Equal(t, cause.Error(), unhandled.Error())
	}

	notFound := &CommandNotFoundError{Name: "fireball"}
	assert.IsType(t, &UnhandledError{}, Classify(notFound))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "dice is a required argument that is missing.",
		(&MissingRequiredArgumentError{Param: "dice"}).Error())
	assert.Equal(t, "You are missing Ban Members and Manage Server permission(s) to run this command.",
		(&MissingPermissionsError{Missing: []string{"ban_members", "manage_guild"}}).Error())
	assert.Equal(t, "Bot requires Kick Members, Ban Members, and Embed Links permission(s) to run this command.",
		(&BotMissingPermissionsError{Missing: []string{"kick_members", "ban_members", "embed_links"}}).Error())
	assert.Equal(t, "The alias for command p is already an existing command or alias.",
		(&CommandRegistrationError{Name: "p", IsAlias: true}).Error())
}
