// Package sqlite stores generation history in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"pipelineai/internal/domain/entity"
	"pipelineai/internal/domain/repository"
	"pipelineai/internal/infrastructure/metrics"
)

type GenerationRepo struct {
	db *sql.DB
}

var _ repository.GenerationRepository = (*GenerationRepo)(nil)

// NewGenerationRepo opens (or creates) the database at path.
func NewGenerationRepo(path string) (*GenerationRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &GenerationRepo{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS generations (
			id                TEXT PRIMARY KEY,
			description       TEXT NOT NULL,
			language          TEXT NOT NULL,
			platform          TEXT NOT NULL,
			deployment_target TEXT NOT NULL DEFAULT '',
			source            TEXT NOT NULL,
			content           TEXT NOT NULL DEFAULT '',
			file_path         TEXT NOT NULL DEFAULT '',
			created_at        DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_generations_platform
			ON generations(platform);
	`)
	return err
}

func (r *GenerationRepo) Close() error {
	return r.db.Close()
}

func (r *GenerationRepo) Create(ctx context.Context, g *entity.Generation) error {
	metrics.IncDBOp("put")

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO generations (id, description, language, platform, deployment_target, source, content, file_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Description, g.Language, g.Platform, g.DeploymentTarget,
		g.Source, g.Content, g.FilePath, g.CreatedAt,
	)
	if err != nil {
		metrics.IncError("sqlite_generation_repo", "create_error")
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, description, language, platform, deployment_target, source, content, file_path, created_at FROM generations`

func (r *GenerationRepo) GetByID(ctx context.Context, id string) (*entity.Generation, error) {
	metrics.IncDBOp("get")

	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	g, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrGenerationNotFound
	}
	if err != nil {
		metrics.IncError("sqlite_generation_repo", "get_error")
		return nil, err
	}
	return g, nil
}

func (r *GenerationRepo) List(ctx context.Context) ([]*entity.Generation, error) {
	metrics.IncDBOp("list")
	return r.query(ctx, selectColumns+` ORDER BY created_at DESC`)
}

func (r *GenerationRepo) ListByPlatform(ctx context.Context, platform entity.Platform) ([]*entity.Generation, error) {
	metrics.IncDBOp("list")
	return r.query(ctx, selectColumns+` WHERE platform = ? ORDER BY created_at DESC`, platform)
}

func (r *GenerationRepo) Delete(ctx context.Context, id string) error {
	metrics.IncDBOp("delete")

	res, err := r.db.ExecContext(ctx, `DELETE FROM generations WHERE id = ?`, id)
	if err != nil {
		metrics.IncError("sqlite_generation_repo", "delete_error")
		return fmt.Errorf("delete generation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrGenerationNotFound
	}
	return nil
}

func (r *GenerationRepo) CountBySource(ctx context.Context, source entity.ResultSource) (int, error) {
	metrics.IncDBOp("count")

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generations WHERE source = ?`, source).Scan(&n); err != nil {
		metrics.IncError("sqlite_generation_repo", "count_by_source_error")
		return 0, err
	}
	return n, nil
}

func (r *GenerationRepo) query(ctx context.Context, q string, args ...any) ([]*entity.Generation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		metrics.IncError("sqlite_generation_repo", "list_error")
		return nil, err
	}
	defer rows.Close()

	var gens []*entity.Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	return gens, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGeneration(s scanner) (*entity.Generation, error) {
	var (
		g         entity.Generation
		createdAt time.Time
	)
	err := s.Scan(&g.ID, &g.Description, &g.Language, &g.Platform, &g.DeploymentTarget,
		&g.Source, &g.Content, &g.FilePath, &createdAt)
	if err != nil {
		return nil, err
	}
	g.CreatedAt = createdAt.UTC()
	return &g, nil
}
