// Package history stores chat messages in SQLite and keeps the window of them
// that is loaded into the timeline.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrEmptyBody is returned when appending a message without text.
var ErrEmptyBody = errors.New("history: empty message body")

// Message is a stored chat message. ID doubles as the timeline scroll token.
type Message struct {
	ID     string
	Seq    int64
	Author string
	Body   string
	SentAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS messages (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    author TEXT NOT NULL,
    body TEXT NOT NULL,
    sent_at INTEGER NOT NULL -- UnixNano
);
`

// Store is a SQLite backed message history. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path. The special path
// ":memory:" keeps the history in memory.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores a new message and returns it with its ID and sequence number.
func (s *Store) Append(ctx context.Context, author, body string, sentAt time.Time) (Message, error) {
	if body == "" {
		return Message{}, ErrEmptyBody
	}
	m := Message{
		ID:     uuid.NewString(),
		Author: author,
		Body:   body,
		SentAt: sentAt,
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, author, body, sent_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Author, m.Body, m.SentAt.UnixNano())
	if err != nil {
		return Message{}, fmt.Errorf("failed to insert message: %w", err)
	}
	if m.Seq, err = res.LastInsertId(); err != nil {
		return Message{}, fmt.Errorf("failed to read message sequence: %w", err)
	}
	return m, nil
}

// Count returns the number of stored messages.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}

// Seed fills an empty history with n generated messages, one minute apart and
// ending at now. A history that already has messages is left alone.
func (s *Store) Seed(ctx context.Context, n int, now time.Time) error {
	count, err := s.Count(ctx)
	if err != nil || count > 0 {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO messages (id, author, body, sent_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare seed: %w", err)
	}
	defer stmt.Close()

	for i := range n {
		sentAt := now.Add(-time.Duration(n-1-i) * time.Minute)
		author := seedAuthors[i%len(seedAuthors)]
		body := seedBodies[i%len(seedBodies)]
		if i%7 == 3 {
			// Long messages wrap over several rows.
			body = body + " " + seedBodies[(i+1)%len(seedBodies)] + " " + seedBodies[(i+2)%len(seedBodies)]
		}
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), author, fmt.Sprintf("#%d %s", i+1, body), sentAt.UnixNano()); err != nil {
			return fmt.Errorf("failed to insert seed message %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

var seedAuthors = []string{"alice", "bob", "carol", "dave"}

var seedBodies = []string{
	"morning!",
	"did anyone look at the deploy logs from last night?",
	"yes, the migration took longer than expected but it finished",
	"ok good",
	"I'll write up a short summary for the channel later today",
	"lunch?",
	"the flaky test is back, it only fails when the runner is under load",
	"can you paste the stack trace",
	"on it",
	"thanks",
}

// Latest returns the newest limit messages, oldest first.
func (s *Store) Latest(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, author, body, sent_at FROM messages ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest messages: %w", err)
	}
	msgs, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

// Before returns up to limit messages older than seq, oldest first.
func (s *Store) Before(ctx context.Context, seq int64, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, author, body, sent_at FROM messages WHERE seq < ? ORDER BY seq DESC LIMIT ?`, seq, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages before %d: %w", seq, err)
	}
	msgs, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

// After returns up to limit messages newer than seq, oldest first.
func (s *Store) After(ctx context.Context, seq int64, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, author, body, sent_at FROM messages WHERE seq > ? ORDER BY seq ASC LIMIT ?`, seq, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages after %d: %w", seq, err)
	}
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]Message, error) {
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var (
			m      Message
			sentAt int64
		)
		if err := rows.Scan(&m.Seq, &m.ID, &m.Author, &m.Body, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.SentAt = time.Unix(0, sentAt)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return msgs, nil
}
