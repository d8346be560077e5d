// Package store keeps a sqlite index of the documentation tree for search.
// Every reindex writes the pages under a fresh snapshot id and drops the
// previous snapshot afterwards.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/foomo/docsite-mcp/service/vo"
	"github.com/foomo/docsite-mcp/site"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
    snapshot    TEXT NOT NULL,
    path        TEXT NOT NULL,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    keywords    TEXT NOT NULL DEFAULT '',
    body        TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (snapshot, path)
);
CREATE INDEX IF NOT EXISTS idx_pages_title ON pages (title);

CREATE TABLE IF NOT EXISTS snapshots (
    id         TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL,
    pages      INTEGER NOT NULL
);
`

// Store is the sqlite-backed page index.
type Store struct {
	logger *zap.Logger
	db     *sql.DB
}

// Open opens (and creates, if needed) the index database at path.
func Open(logger *zap.Logger, path string) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate index: %w", err)
	}

	return &Store{logger: logger, db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Reindex writes every page of the tree under a new snapshot and removes
// older snapshots. It returns the new snapshot id.
func (s *Store) Reindex(ctx context.Context, tree *site.Tree) (string, error) {
	snapshot := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin reindex: %w", err)
	}
	defer tx.Rollback()

	for _, path := range tree.Paths() {
		page, err := tree.Page(path)
		if err != nil {
			return "", err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO pages (snapshot, path, title, description, keywords, body) VALUES (?, ?, ?, ?, ?, ?)`,
			snapshot,
			page.Path,
			page.Title,
			page.Meta.Description,
			strings.Join(page.Meta.Keywords, ","),
			string(page.Source),
		)
		if err != nil {
			return "", fmt.Errorf("failed to index %s: %w", page.Path, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, created_at, pages) VALUES (?, unixepoch(), ?)`,
		snapshot, tree.Len(),
	); err != nil {
		return "", fmt.Errorf("failed to record snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE snapshot != ?`, snapshot); err != nil {
		return "", fmt.Errorf("failed to prune old snapshots: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id != ?`, snapshot); err != nil {
		return "", fmt.Errorf("failed to prune old snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit reindex: %w", err)
	}

	s.logger.Info("reindexed tree",
		zap.String("snapshot", snapshot),
		zap.Int("pages", tree.Len()),
	)
	return snapshot, nil
}

// Search matches the query against titles, keywords and page bodies. Title
// matches rank before keyword matches, keyword matches before body matches.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]vo.DocumentSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	rows, err := s.db.QueryContext(ctx, `
SELECT path, title, description, keywords
FROM pages
WHERE lower(title) LIKE ?1 OR lower(keywords) LIKE ?1 OR lower(body) LIKE ?1
ORDER BY
    CASE
        WHEN lower(title) LIKE ?1 THEN 0
        WHEN lower(keywords) LIKE ?1 THEN 1
        ELSE 2
    END,
    path
LIMIT ?2`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	defer rows.Close()

	var hits []vo.DocumentSummary
	for rows.Next() {
		var hit vo.DocumentSummary
		var keywords string
		if err := rows.Scan(&hit.Path, &hit.Title, &hit.Description, &keywords); err != nil {
			return nil, fmt.Errorf("failed to scan search hit: %w", err)
		}
		if keywords != "" {
			hit.Keywords = strings.Split(keywords, ",")
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// Snapshot returns the current snapshot id and its page count.
func (s *Store) Snapshot(ctx context.Context) (string, int, error) {
	var id string
	var pages int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, pages FROM snapshots ORDER BY created_at DESC LIMIT 1`,
	).Scan(&id, &pages)
	if err == sql.ErrNoRows {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return id, pages, nil
}
