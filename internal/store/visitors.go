package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// Visit is one tracked page view. IPs are stored hashed with a per-process
// salt, never raw.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// VisitorStats is the summary shown on the admin dashboard.
type VisitorStats struct {
	TotalVisitors    int64   `json:"total_visitors"`
	UniqueVisitors   int64   `json:"unique_visitors"`
	VisitorsToday    int64   `json:"visitors_today"`
	VisitorsThisWeek int64   `json:"visitors_this_week"`
	TopPaths         []Count `json:"top_paths"`
	RecentVisitors   []Visit `json:"recent_visitors"`
}

type Count struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// VisitorLog records visits in sqlite.
type VisitorLog struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

const visitorSchema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_timestamp ON visitors (timestamp);
`

// OpenVisitorLog opens (or creates) the sqlite database at path. Use
// ":memory:" for an ephemeral log.
func OpenVisitorLog(path string) (*VisitorLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open visitor db: %w", err)
	}
	// sqlite allows a single writer; one connection also keeps :memory: alive.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(visitorSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create visitors table: %w", err)
	}

	salt, err := randomHex(16)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Println("Privacy: visitor tracking enabled with hashed IP addresses")
	return &VisitorLog{db: db, salt: salt, now: time.Now}, nil
}

// Close closes the database.
func (v *VisitorLog) Close() error {
	return v.db.Close()
}

// HashIP returns the salted, truncated hash stored in place of an IP.
func (v *VisitorLog) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + v.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Record stores one visit.
func (v *VisitorLog) Record(ctx context.Context, ip, userAgent, path string) error {
	_, err := v.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, timestamp) VALUES (?, ?, ?, ?)`,
		v.HashIP(ip), userAgent, path, v.now().UTC())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// Cleanup deletes visits older than retention and returns how many were removed.
func (v *VisitorLog) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	res, err := v.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, v.now().UTC().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("cleanup visitors: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Printf("Privacy cleanup: removed %d visitor records older than %s", n, retention)
	}
	return n, nil
}

// Stats aggregates visits for the admin dashboard.
func (v *VisitorLog) Stats(ctx context.Context) (*VisitorStats, error) {
	now := v.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	stats := &VisitorStats{}

	counts := []struct {
		query string
		args  []any
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM visitors`, nil, &stats.TotalVisitors},
		{`SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil, &stats.UniqueVisitors},
		{`SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{startOfDay}, &stats.VisitorsToday},
		{`SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{now.Add(-7 * 24 * time.Hour)}, &stats.VisitorsThisWeek},
	}
	for _, c := range counts {
		if err := v.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("count visitors: %w", err)
		}
	}

	rows, err := v.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS hits
		FROM visitors
		GROUP BY path
		ORDER BY hits DESC, path ASC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("top paths: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Path, &c.Count); err != nil {
			return nil, fmt.Errorf("scan top path: %w", err)
		}
		stats.TopPaths = append(stats.TopPaths, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.RecentVisitors, err = v.Recent(ctx, 50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Recent returns the latest visits, newest first.
func (v *VisitorLog) Recent(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := v.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var vis Visit
		if err := rows.Scan(&vis.ID, &vis.HashedIP, &vis.UserAgent, &vis.Path, &vis.Timestamp); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		out = append(out, vis)
	}
	return out, rows.Err()
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}
