package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dan9191/wellness-service/internal/models"
	"github.com/Dan9191/wellness-service/internal/utils"
)

// ErrChecksumMismatch is returned when a stored snapshot fails verification
var ErrChecksumMismatch = errors.New("snapshot checksum mismatch")

// ScenarioStore persists a user's scenario set as a single key-value entry
type ScenarioStore interface {
	SaveScenarios(ctx context.Context, userID int64, set models.ScenarioSet) error
	LoadScenarios(ctx context.Context, userID int64) (models.ScenarioSet, error)
}

func encodeSnapshot(set models.ScenarioSet, secret string) ([]byte, string, error) {
	if err := set.Validate(); err != nil {
		return nil, "", fmt.Errorf("refusing to save snapshot: %w", err)
	}
	payload, err := json.Marshal(set)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return payload, utils.SignPayload(payload, secret), nil
}

func decodeSnapshot(payload []byte, checksum, secret string) (models.ScenarioSet, error) {
	if err := utils.VerifyPayload(payload, checksum, secret); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChecksumMismatch, err)
	}
	var set models.ScenarioSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return set, nil
}

// PostgresStore keeps snapshots in wellness.scenario_snapshots, one row per user
type PostgresStore struct {
	db     *sql.DB
	secret string
}

// NewPostgresStore initializes a snapshot store over db
func NewPostgresStore(db *sql.DB, secret string) *PostgresStore {
	return &PostgresStore{db: db, secret: secret}
}

// SaveScenarios upserts the user's snapshot
func (s *PostgresStore) SaveScenarios(ctx context.Context, userID int64, set models.ScenarioSet) error {
	payload, checksum, err := encodeSnapshot(set, s.secret)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO wellness.scenario_snapshots (user_id, payload, checksum, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET payload = EXCLUDED.payload, checksum = EXCLUDED.checksum, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, query, userID, string(payload), checksum); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadScenarios retrieves and verifies the user's snapshot
func (s *PostgresStore) LoadScenarios(ctx context.Context, userID int64) (models.ScenarioSet, error) {
	var (
		payload  []byte
		checksum string
	)
	query := `
		SELECT payload, checksum
		FROM wellness.scenario_snapshots
		WHERE user_id = $1`
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&payload, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return decodeSnapshot(payload, checksum, s.secret)
}
