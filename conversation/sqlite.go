package conversation

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/commercemesh/commercemesh/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	conversation_id TEXT NOT NULL,
	seq             INTEGER NOT NULL,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	image           TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (conversation_id, seq)
);
`

// SQLiteStore is a Store backed by a sqlite database file. Ordering within a
// conversation is maintained by a per-conversation sequence number.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) a sqlite-backed store at path. Use
// ":memory:" for an ephemeral database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// modernc sqlite allows one writer; serialize access through one conn.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// History implements Store.
func (s *SQLiteStore) History(ctx context.Context, conversationID string) ([]core.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, image FROM messages WHERE conversation_id = ? ORDER BY seq`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var msgs []core.Message
	for rows.Next() {
		var m core.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Image); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, conversationID string, msgs ...core.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), -1) + 1 FROM messages WHERE conversation_id = ?`,
		conversationID).Scan(&next)
	if err != nil {
		return fmt.Errorf("next seq: %w", err)
	}

	for i, m := range msgs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO messages (conversation_id, seq, role, content, image) VALUES (?, ?, ?, ?, ?)`,
			conversationID, next+i, m.Role, m.Content, m.Image)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}
	return tx.Commit()
}

// Clear implements Store.
func (s *SQLiteStore) Clear(ctx context.Context, conversationID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE conversation_id = ?`, conversationID)
	if err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
