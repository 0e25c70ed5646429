package ch

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/firebase/genkit/go/ai"

	"bookbot/internal/checkpoint"
)

// ClickHouseStore persists conversation checkpoints in ClickHouse.
// Messages are append-only rows ordered by (thread_id, seq).
type ClickHouseStore struct {
	conn clickhouse.Conn
}

// NewClickHouseStore creates a new ClickHouse checkpoint store connection
func NewClickHouseStore(host string, port int, database, user, password string, useTLS bool) (*ClickHouseStore, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseStore{conn: conn}, nil
}

// Initialize is a no-op - the checkpoint table is managed via migrations
func (s *ClickHouseStore) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/ directory)
	// This method is kept for interface compatibility
	return nil
}

// History returns the full message sequence for a thread, oldest first.
func (s *ClickHouseStore) History(ctx context.Context, threadID string) ([]*ai.Message, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT role, content FROM checkpoints WHERE thread_id = ? ORDER BY seq`, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint history: %w", err)
	}
	defer rows.Close()

	var msgs []*ai.Message
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint row: %w", err)
		}
		msgs = append(msgs, checkpoint.Rebuild(role, content))
	}
	return msgs, nil
}

// AppendMessages appends messages to a thread in order.
func (s *ClickHouseStore) AppendMessages(ctx context.Context, threadID string, msgs []*ai.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	var next uint32
	row := s.conn.QueryRow(ctx,
		`SELECT toUInt32(count()) FROM checkpoints WHERE thread_id = ?`, threadID)
	if err := row.Scan(&next); err != nil {
		return fmt.Errorf("failed to count checkpoint rows: %w", err)
	}

	batch, err := s.conn.PrepareBatch(ctx,
		`INSERT INTO checkpoints (thread_id, seq, role, content)`)
	if err != nil {
		return fmt.Errorf("failed to prepare checkpoint batch: %w", err)
	}
	for i, msg := range msgs {
		if err := batch.Append(threadID, next+uint32(i), string(msg.Role), checkpoint.TextOf(msg)); err != nil {
			return fmt.Errorf("failed to append checkpoint row: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to write checkpoint batch: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *ClickHouseStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
