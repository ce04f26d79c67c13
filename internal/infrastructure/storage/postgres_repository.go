package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"LawExporter/internal/domain"
	"LawExporter/internal/ports"
)

// PostgresRepository records exported artifacts into Postgres.
type PostgresRepository struct {
	db    *sql.DB
	table string
}

var _ ports.ArtifactRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation; table defaults to exported_articles.
func NewPostgresRepository(db *sql.DB, table string) *PostgresRepository {
	if table == "" {
		table = "exported_articles"
	}
	return &PostgresRepository{db: db, table: pq.QuoteIdentifier(table)}
}

// EnsureSchema creates the index table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
              code_name   TEXT NOT NULL,
              article_id  TEXT NOT NULL,
              number      TEXT NOT NULL DEFAULT '',
              path        TEXT NOT NULL,
              digest      TEXT NOT NULL,
              size        INTEGER NOT NULL,
              translated  BOOLEAN NOT NULL DEFAULT FALSE,
              exported_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
              PRIMARY KEY (code_name, article_id))`, r.table)

	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create index table: %w", err)
	}
	return nil
}

// SaveArtifact upserts the artifact snapshot.
func (r *PostgresRepository) SaveArtifact(ctx context.Context, record domain.ArtifactRecord) error {
	if r.db == nil {
		return nil
	}

	if _, err := r.upsert(record).RunWith(r.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("upsert artifact %s: %w", record.ArticleID, err)
	}
	return nil
}

func (r *PostgresRepository) upsert(record domain.ArtifactRecord) sq.InsertBuilder {
	return sq.Insert(r.table).
		Columns("code_name", "article_id", "number", "path", "digest", "size", "translated").
		Values(record.Code, record.ArticleID, record.Number, record.Path, record.Digest, record.Size, record.Translated).
		Suffix(`ON CONFLICT (code_name, article_id) DO UPDATE
              SET number = EXCLUDED.number,
                  path = EXCLUDED.path,
                  digest = EXCLUDED.digest,
                  size = EXCLUDED.size,
                  translated = EXCLUDED.translated,
                  exported_at = NOW()`).
		PlaceholderFormat(sq.Dollar)
}
