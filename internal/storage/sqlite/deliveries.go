package sqlite

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Delivery is one recorded notification attempt.
type Delivery struct {
	ID         int64
	WeekNumber int
	Channel    string
	Recipient  string
	OK         bool
	Error      string
	SentAt     time.Time
}

// InitDB opens the delivery-log database and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS deliveries (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		week_number INTEGER NOT NULL,
		channel     TEXT NOT NULL,
		recipient   TEXT NOT NULL DEFAULT '',
		ok          INTEGER NOT NULL DEFAULT 0,
		error       TEXT DEFAULT '',
		sent_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_deliveries_sent_at ON deliveries(sent_at);
	CREATE INDEX IF NOT EXISTS idx_deliveries_channel ON deliveries(channel);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return db, nil
}

// InsertDeliveries records a batch of notification outcomes in one
// transaction.
func InsertDeliveries(db *sql.DB, deliveries []Delivery) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO deliveries (week_number, channel, recipient, ok, error) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, d := range deliveries {
		if _, err := stmt.Exec(d.WeekNumber, d.Channel, d.Recipient, d.OK, d.Error); err != nil {
			tx.Rollback()
			return 0, err
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// maxRecentDeliveries caps one page of delivery-log reads.
const maxRecentDeliveries = 500

// RecentDeliveries returns the newest outcomes, most recent first. The
// limit is clamped to [1, maxRecentDeliveries].
func RecentDeliveries(db *sql.DB, limit int) ([]Delivery, error) {
	if limit < 1 {
		limit = 50
	}
	if limit > maxRecentDeliveries {
		limit = maxRecentDeliveries
	}
	rows, err := db.Query(
		`SELECT id, week_number, channel, recipient, ok, error, sent_at
		 FROM deliveries ORDER BY sent_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.ID, &d.WeekNumber, &d.Channel, &d.Recipient, &d.OK, &d.Error, &d.SentAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
