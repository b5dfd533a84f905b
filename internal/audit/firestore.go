package audit

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
)

const collection = "command_audit"

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, projectID string, databaseID string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required")
	}
	if databaseID == "" {
		return nil, fmt.Errorf("databaseID is required - we do not allow connections to the default database")
	}

	// Application Default Credentials
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, err
	}
	return &FirestoreStore{client: client}, nil
}

func (fs *FirestoreStore) Close() error {
	return fs.client.Close()
}

// Add writes r under its ID and returns the ID.
func (fs *FirestoreStore) Add(ctx context.Context, r Record) (string, error) {
	r, err := prepare(r, time.Now)
	if err != nil {
		return "", err
	}
	if _, err := fs.client.Collection(collection).Doc(r.ID).Set(ctx, r); err != nil {
		return "", fmt.Errorf("failed to write audit record: %w", err)
	}
	return r.ID, nil
}

func (fs *FirestoreStore) ListByCommand(ctx context.Context, command string) ([]Record, error) {
	return fs.query(ctx, fs.client.Collection(collection).Where("command", "==", command))
}

func (fs *FirestoreStore) ListByGuild(ctx context.Context, guildID string) ([]Record, error) {
	return fs.query(ctx, fs.client.Collection(collection).Where("guild_id", "==", guildID))
}

func (fs *FirestoreStore) query(ctx context.Context, q firestore.Query) ([]Record, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		var r Record
		if err := doc.DataTo(&r); err != nil {
			return nil, fmt.Errorf("failed to convert document to audit record: %w", err)
		}
		records = append(records, r)
	}
	sortByExecution(records)
	return records, nil
}
