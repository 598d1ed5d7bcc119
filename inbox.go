package autocar

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/autocaravecchauffeur/autocar/content"
)

// createdLayout is fixed width so created_at sorts as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ContactMessage is a quote request sent through the contact form.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	IP        string
	CreatedAt time.Time
}

// Inbox stores contact messages in SQLite.
type Inbox struct {
	db *sql.DB
}

// NewInbox opens (or creates) the inbox database at path and runs the
// schema migration.
func NewInbox(path string) (*Inbox, error) {
	db, err := content.OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	i := &Inbox{db: db}
	if err := i.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return i, nil
}

// Close closes the underlying database connection.
func (i *Inbox) Close() error {
	return i.db.Close()
}

func (i *Inbox) ensureSchema() error {
	_, err := i.db.Exec(`
CREATE TABLE IF NOT EXISTS contact_messages (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    subject TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL,
    ip TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contact_messages_created ON contact_messages(created_at);
`)
	return err
}

// Save stores m under a new id and returns it with ID and CreatedAt set.
func (i *Inbox) Save(ctx context.Context, m ContactMessage) (ContactMessage, error) {
	m.ID = uuid.NewString()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.CreatedAt = m.CreatedAt.UTC()
	_, err := i.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, subject, message, ip, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.IP, m.CreatedAt.Format(createdLayout))
	if err != nil {
		return ContactMessage{}, err
	}
	return m, nil
}

// List returns the latest messages, newest first. A limit <= 0 returns all.
func (i *Inbox) List(ctx context.Context, limit int) ([]ContactMessage, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := i.db.QueryContext(ctx,
		`SELECT id, name, email, subject, message, ip, created_at FROM contact_messages ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContactMessage
	for rows.Next() {
		var m ContactMessage
		var created string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IP, &created); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(createdLayout, created)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count returns the number of stored messages.
func (i *Inbox) Count(ctx context.Context) (int, error) {
	var n int
	err := i.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&n)
	return n, err
}
