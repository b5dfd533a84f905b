// Package audit persists a record of every successfully executed command.
package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func initValidator() {
	validate = validator.New()
	if err := validate.RegisterValidation("snowflake", validateSnowflake); err != nil {
		panic(fmt.Sprintf("Failed to register validation: %v", err))
	}
	validate.RegisterStructValidation(validateRecordScope, Record{})
}

// Validator returns the shared validator with the audit rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(initValidator)
	return validate
}

// validateSnowflake accepts Discord IDs: decimal digits only.
func validateSnowflake(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// a guild invocation carries a guild ID, a DM invocation does not
func validateRecordScope(sl validator.StructLevel) {
	r := sl.Current().Interface().(Record)
	if r.DM && r.GuildID != "" {
		sl.ReportError(r.GuildID, "GuildID", "GuildID", "excluded_in_dm", "")
	}
	if !r.DM && r.GuildID == "" {
		sl.ReportError(r.GuildID, "GuildID", "GuildID", "required_in_guild", "")
	}
}

// Record is one executed command.
type Record struct {
	ID            string    `firestore:"id" json:"id" validate:"required,uuid4"`
	Command       string    `firestore:"command" json:"command" validate:"required"`
	QualifiedName string    `firestore:"qualified_name" json:"qualified_name" validate:"required"`
	AuthorID      string    `firestore:"author_id" json:"author_id" validate:"required,snowflake"`
	AuthorName    string    `firestore:"author_name" json:"author_name"`
	GuildID       string    `firestore:"guild_id" json:"guild_id,omitempty" validate:"omitempty,snowflake"`
	GuildName     string    `firestore:"guild_name" json:"guild_name,omitempty"`
	ChannelID     string    `firestore:"channel_id" json:"channel_id" validate:"required,snowflake"`
	DM            bool      `firestore:"dm" json:"dm"`
	ExecutedAt    time.Time `firestore:"executed_at" json:"executed_at" validate:"required"`
}

// Validate checks r against the audit rules.
func (r Record) Validate() error {
	if err := Validator().Struct(r); err != nil {
		return fmt.Errorf("invalid audit record: %w", err)
	}
	return nil
}
