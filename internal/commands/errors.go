package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the closed set of command failures the client knows how to answer.
// Classify always returns one of the types below.
type Kind interface {
	error
	kind()
}

// CooldownError is returned when a command is invoked again before its
// cooldown bucket has refilled.
type CooldownError struct {
	RetryAfter time.Duration
	Cooldown   *Cooldown
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("You are on cooldown. Try again in %.2fs", e.RetryAfter.Seconds())
}

// NotOwnerError is returned when a non-owner invokes an owner only command.
type NotOwnerError struct{}

func (e *NotOwnerError) Error() string { return "You do not own this bot." }

// MissingPermissionsError lists permissions the invoking user lacks.
type MissingPermissionsError struct {
	Missing []string
}

func (e *MissingPermissionsError) Error() string {
	return fmt.Sprintf("You are missing %s permission(s) to run this command.", humanPermissions(e.Missing))
}

// BotMissingPermissionsError lists permissions the bot itself lacks.
type BotMissingPermissionsError struct {
	Missing []string
}

func (e *BotMissingPermissionsError) Error() string {
	return fmt.Sprintf("Bot requires %s permission(s) to run this command.", humanPermissions(e.Missing))
}

// MissingRequiredArgumentError names the first required parameter that was
// not supplied.
type MissingRequiredArgumentError struct {
	Param string
}

func (e *MissingRequiredArgumentError) Error() string {
	return fmt.Sprintf("%s is a required argument that is missing.", e.Param)
}

// UnhandledError carries any other failure. Cause is the original error value.
type UnhandledError struct {
	Cause error
}

func (e *UnhandledError) Error() string { return e.Cause.Error() }
func (e *UnhandledError) Unwrap() error { return e.Cause }

func (*CooldownError) kind()                {}
func (*NotOwnerError) kind()                {}
func (*MissingPermissionsError) kind()      {}
func (*BotMissingPermissionsError) kind()   {}
func (*MissingRequiredArgumentError) kind() {}
func (*UnhandledError) kind()               {}

// Classify maps err onto one of the recognised kinds, falling back to
// UnhandledError with err as its cause.
func Classify(err error) Kind {
	var (
		cooldown   *CooldownError
		notOwner   *NotOwnerError
		missing    *MissingPermissionsError
		botMissing *BotMissingPermissionsError
		missingArg *MissingRequiredArgumentError
	)
	switch {
	case errors.As(err, &cooldown):
		return cooldown
	case errors.As(err, &notOwner):
		return notOwner
	case errors.As(err, &missing):
		return missing
	case errors.As(err, &botMissing):
		return botMissing
	case errors.As(err, &missingArg):
		return missingArg
	}
	return &UnhandledError{Cause: err}
}

// CommandNotFoundError is returned when the invoked name matches no command.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("Command %q is not found", e.Name)
}

// NoPrivateMessageError is returned when a guild only command is used in DMs.
type NoPrivateMessageError struct{}

func (e *NoPrivateMessageError) Error() string {
	return "This command cannot be used in private messages."
}

// CommandInvokeError wraps an error returned or a panic raised by a command body.
type CommandInvokeError struct {
	Command string
	Err     error
}

func (e *CommandInvokeError) Error() string {
	return fmt.Sprintf("Command raised an exception: %v", e.Err)
}

func (e *CommandInvokeError) Unwrap() error { return e.Err }

// CommandRegistrationError is returned when an extension adds a command whose
// name or alias is already taken.
type CommandRegistrationError struct {
	Name    string
	IsAlias bool
}

func (e *CommandRegistrationError) Error() string {
	kind := "command"
	if e.IsAlias {
		kind = "alias for command"
	}
	return fmt.Sprintf("The %s %s is already an existing command or alias.", kind, e.Name)
}

// humanPermissions renders ban_members, manage_guild as
// "Ban Members and Manage Server".
func humanPermissions(names []string) string {
	caser := cases.Title(language.English)
	pretty := make([]string, len(names))
	for i, n := range names {
		n = strings.ReplaceAll(n, "_", " ")
		n = strings.ReplaceAll(n, "guild", "server")
		pretty[i] = caser.String(n)
	}
	if len(pretty) > 2 {
		return strings.Join(pretty[:len(pretty)-1], ", ") + ", and " + pretty[len(pretty)-1]
	}
	return strings.Join(pretty, " and ")
}
