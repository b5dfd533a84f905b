package config

import "errors"

var (
	ErrMissingDiscordToken      = errors.New("DISCORD_TOKEN environment variable is required")
	ErrMissingFirestoreDatabase = errors.New("FIRESTORE_DATABASE_ID is required when FIRESTORE_PROJECT_ID is set")
	ErrInvalidLogLevel          = errors.New("LOG_LEVEL must be one of debug, info, warning, error, critical")
)
