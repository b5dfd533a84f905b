package audit

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Store persists audit records.
type Store interface {
	Add(ctx context.Context, r Record) (string, error)
	ListByCommand(ctx context.Context, command string) ([]Record, error)
	ListByGuild(ctx context.Context, guildID string) ([]Record, error)
	Close() error
}

// prepare fills the generated fields of r and validates it.
func prepare(r Record, now func() time.Time) (Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.ExecutedAt.IsZero() {
		r.ExecutedAt = now().UTC()
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

func sortByExecution(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ExecutedAt.Before(records[j].ExecutedAt)
	})
}
