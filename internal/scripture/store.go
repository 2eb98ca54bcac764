/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scripture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	// PostgreSQL via database/sql
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"

	"versecast/internal/domain"
	applog "versecast/internal/log"
)

// Dialect selects placeholder style and driver name.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) driver() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// DialectFor picks Postgres for postgres:// URLs and key/value DSNs, SQLite otherwise.
func DialectFor(dsn string) Dialect {
	l := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(l, "postgres://") || strings.HasPrefix(l, "postgresql://") || strings.Contains(l, "host=") {
		return Postgres
	}
	return SQLite
}

var rePassword = regexp.MustCompile(`(?i)(password\s*=\s*)('[^']*'|\S+)`)

// RedactDSN hides the password of a postgres DSN so it can be logged.
func RedactDSN(dsn string) string {
	if DialectFor(dsn) != Postgres {
		return dsn
	}
	if u, err := url.Parse(strings.TrimSpace(dsn)); err == nil && u.Scheme != "" {
		q := u.Query()
		if q.Has("password") {
			q.Set("password", "xxxxx")
			u.RawQuery = q.Encode()
		}
		return u.Redacted()
	}
	return rePassword.ReplaceAllString(dsn, "${1}xxxxx")
}

// Store is a SQL-backed Source.
type Store struct {
	db      *sql.DB
	dialect Dialect
	log     *slog.Logger
}

// Open connects to dsn and ensures the verses table exists. A bare path is treated as a
// SQLite file and its directory is created.
func Open(ctx context.Context, dsn string) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("scripture"), "store_open")
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("scripture: database DSN is required")
	}
	d := DialectFor(dsn)
	src := dsn
	if d == SQLite && !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		src = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(dsn))
	}
	db, err := sql.Open(d.driver(), src)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open %s: %w", d.driver(), err)
	}
	if d == SQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	s := &Store{db: db, dialect: d, log: applog.WithComponent("scripture")}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("verse store ready", slog.String("driver", d.driver()))
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) ensureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS verses (
			book    INTEGER NOT NULL,
			chapter INTEGER NOT NULL,
			verse   INTEGER NOT NULL,
			text    TEXT NOT NULL,
			PRIMARY KEY (book, chapter, verse)
		)`,
	}
	for _, q := range ddl {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *Store) rebind(q string) string {
	if s.dialect != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Verses returns the stored verses of ref in order.
func (s *Store) Verses(ctx context.Context, ref domain.ScriptureReference) ([]domain.Verse, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT verse, text FROM verses WHERE book = ? AND chapter = ? AND verse BETWEEN ? AND ? ORDER BY verse`),
		ref.Book, ref.Chapter, ref.StartVerse, ref.EndVerse)
	if err != nil {
		return nil, fmt.Errorf("query verses: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.Verse
	for rows.Next() {
		var v domain.Verse
		if err := rows.Scan(&v.Number, &v.Text); err != nil {
			return nil, fmt.Errorf("scan verse: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		s.log.Debug("no verses", slog.String("ref", FormatReference(ref)))
	}
	return out, nil
}

// Record is one verse row.
type Record struct {
	Book    int
	Chapter int
	Verse   int
	Text    string
}

// Put upserts records in a single transaction.
func (s *Store) Put(ctx context.Context, recs []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	stmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO verses (book, chapter, verse, text) VALUES (?, ?, ?, ?)
		ON CONFLICT (book, chapter, verse) DO UPDATE SET text = excluded.text`))
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, r.Book, r.Chapter, r.Verse, r.Text); err != nil {
			return fmt.Errorf("upsert %d:%d:%d: %w", r.Book, r.Chapter, r.Verse, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of stored verses.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM verses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count verses: %w", err)
	}
	return n, nil
}
