package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/metrics"
)

const storeName = "postgres"

// Column lists must match the db tags of the entity they are scanned into.
const (
	projectColumns = "id, name, user_id, created_at"
	pageColumns    = "id, project_id, title, html, created_at"
	paymentColumns = "event_id, session_id, customer_email, amount_total, currency, status, created_at"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	user_id    INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS projects_user_id_idx ON projects (user_id);
CREATE INDEX IF NOT EXISTS projects_created_at_idx ON projects (created_at DESC);

CREATE TABLE IF NOT EXISTS pages (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
	title      VARCHAR(255) NOT NULL,
	html       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS pages_project_id_idx ON pages (project_id);

CREATE TABLE IF NOT EXISTS payments (
	event_id       TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL,
	customer_email TEXT NOT NULL DEFAULT '',
	amount_total   BIGINT NOT NULL DEFAULT 0,
	currency       TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store keeps projects, pages and payments in the relational tables.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(ctx context.Context, connStr string) (*Store, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Store{DB: db}, nil
}

// CreateSchema creates the tables when they do not exist yet.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.DB.Close()
}

func (s *Store) Projects() repository.ProjectRepository { return &projectRepo{db: s.DB} }

func (s *Store) Pages() repository.PageRepository { return &pageRepo{db: s.DB} }

func (s *Store) Payments() repository.PaymentRepository { return &paymentRepo{db: s.DB} }

type projectRepo struct {
	db *pgxpool.Pool
}

func (r *projectRepo) Create(ctx context.Context, p *entity.Project) error {
	metrics.IncDBOp(storeName, "put")
	_, err := r.db.Exec(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.UserID, p.CreatedAt)
	if err != nil {
		metrics.IncError("postgres_project_repo", "create_error")
		return err
	}
	return nil
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	metrics.IncDBOp(storeName, "get")
	rows, err := r.db.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	if err != nil {
		metrics.IncError("postgres_project_repo", "get_error")
		return nil, err
	}
	p, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[entity.Project])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		metrics.IncError("postgres_project_repo", "get_error")
		return nil, err
	}
	return p, nil
}

func (r *projectRepo) List(ctx context.Context) ([]*entity.Project, error) {
	metrics.IncDBOp(storeName, "list")
	rows, err := r.db.Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		metrics.IncError("postgres_project_repo", "list_error")
		return nil, err
	}
	projects, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[entity.Project])
	if err != nil {
		metrics.IncError("postgres_project_repo", "list_error")
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	metrics.IncDBOp(storeName, "delete")
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		metrics.IncError("postgres_project_repo", "delete_error")
		return err
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

type pageRepo struct {
	db *pgxpool.Pool
}

func (r *pageRepo) Create(ctx context.Context, p *entity.Page) error {
	metrics.IncDBOp(storeName, "put")
	_, err := r.db.Exec(ctx,
		`INSERT INTO pages (`+pageColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.ProjectID, p.Title, p.HTML, p.CreatedAt)
	if err != nil {
		metrics.IncError("postgres_page_repo", "create_error")
		return err
	}
	return nil
}

func (r *pageRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Page, error) {
	metrics.IncDBOp(storeName, "list")
	rows, err := r.db.Query(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE project_id = $1 ORDER BY created_at`,
		projectID)
	if err != nil {
		metrics.IncError("postgres_page_repo", "list_error")
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[entity.Page])
}

func (r *pageRepo) DeleteByProject(ctx context.Context, projectID string) error {
	metrics.IncDBOp(storeName, "delete")
	if _, err := r.db.Exec(ctx, `DELETE FROM pages WHERE project_id = $1`, projectID); err != nil {
		metrics.IncError("postgres_page_repo", "delete_error")
		return err
	}
	return nil
}

type paymentRepo struct {
	db *pgxpool.Pool
}

func (r *paymentRepo) Save(ctx context.Context, p *entity.Payment) error {
	metrics.IncDBOp(storeName, "put")
	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING`,
		p.EventID, p.SessionID, p.CustomerEmail, p.AmountTotal, p.Currency, p.Status, p.CreatedAt)
	if err != nil {
		metrics.IncError("postgres_payment_repo", "save_error")
		return err
	}
	return nil
}
