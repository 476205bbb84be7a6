package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"direktmap/internal/station"
	"direktmap/internal/upstream"
)

const schema = `
CREATE TABLE IF NOT EXISTS direct_connections (
  origin_id   text        NOT NULL,
  train_types text        NOT NULL,
  payload     jsonb       NOT NULL,
  fetched_at  timestamptz NOT NULL DEFAULT now(),
  PRIMARY KEY (origin_id, train_types)
)`

// Connections is a Postgres backed upstream.ConnectionStore. Rows are keyed by
// the short station id and the train type filter; stale rows are ignored on read
// and overwritten on the next fetch.
type Connections struct {
	db *sql.DB
}

func NewConnections(db *sql.DB) *Connections { return &Connections{db: db} }

// EnsureSchema creates the direct_connections table if it does not exist.
func (s *Connections) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create direct_connections: %w", err)
	}
	return nil
}

func (s *Connections) GetConnections(ctx context.Context, originID string, tt upstream.TrainTypes, maxAge time.Duration) ([]upstream.Connection, bool, error) {
	q := `SELECT payload FROM direct_connections
          WHERE origin_id = $1 AND train_types = $2 AND fetched_at > $3`
	var payload []byte
	err := s.db.QueryRowContext(ctx, q, station.Canonicalize(originID), string(tt), time.Now().Add(-maxAge)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query direct_connections: %w", err)
	}
	conns, err := decodePayload(payload)
	if err != nil {
		return nil, false, err
	}
	return conns, true, nil
}

func (s *Connections) PutConnections(ctx context.Context, originID string, tt upstream.TrainTypes, conns []upstream.Connection) error {
	payload, err := json.Marshal(conns)
	if err != nil {
		return err
	}
	q := `INSERT INTO direct_connections (origin_id, train_types, payload, fetched_at)
          VALUES ($1, $2, $3, now())
          ON CONFLICT (origin_id, train_types)
          DO UPDATE SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at`
	if _, err := s.db.ExecContext(ctx, q, station.Canonicalize(originID), string(tt), payload); err != nil {
		return fmt.Errorf("upsert direct_connections: %w", err)
	}
	return nil
}

// Prune deletes rows older than maxAge and returns how many were removed.
func (s *Connections) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM direct_connections WHERE fetched_at <= $1`, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("prune direct_connections: %w", err)
	}
	return res.RowsAffected()
}

func decodePayload(b []byte) ([]upstream.Connection, error) {
	var conns []upstream.Connection
	if err := json.Unmarshal(b, &conns); err != nil {
		return nil, fmt.Errorf("decode direct_connections payload: %w", err)
	}
	return conns, nil
}
