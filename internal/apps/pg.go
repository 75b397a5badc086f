package apps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements Store on top of a pgxpool connection pool.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a Store backed by PostgreSQL.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// appColumns is the projection shared by every read path. Company fields come
// from a LEFT JOIN so company-less applications still scan cleanly.
const appColumns = `
	a.id, a.user_id, a.company_id, a.position, a.job_url, a.job_description,
	a.notes, a.salary_currency, a.min_salary, a.max_salary, a.location,
	a.remote, a.status, a.status_history, a.archived_at, a.created_at, a.updated_at,
	c.id, c.name, c.slug, c.logo_url`

type scannable interface {
	Scan(dest ...any) error
}

func scanApplication(row scannable) (*Application, error) {
	var (
		a         Application
		companyID *int64
		name      *string
		slug      *string
		logoURL   *string
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.CompanyID, &a.Position, &a.JobURL, &a.JobDescription,
		&a.Notes, &a.SalaryCurrency, &a.MinSalary, &a.MaxSalary, &a.Location,
		&a.Remote, &a.Status, &a.StatusHistory, &a.ArchivedAt, &a.CreatedAt, &a.UpdatedAt,
		&companyID, &name, &slug, &logoURL,
	)
	if err != nil {
		return nil, err
	}
	if companyID != nil {
		a.Company = &CompanyRef{ID: *companyID, Name: name, Slug: slug, LogoURL: logoURL}
	}
	return &a, nil
}

// List returns non-archived, non-deleted applications for the user, ascending
// by id so cursor pagination is deterministic.
func (s *PgStore) List(ctx context.Context, userID string, f Filter) ([]Application, error) {
	args := []any{userID}
	conds := []string{
		"a.user_id = $1",
		"a.archived_at IS NULL",
		"a.deleted_at IS NULL",
	}
	conds, args = f.conditions(conds, args)

	args = append(args, f.EffectiveLimit())
	query := fmt.Sprintf(`
		SELECT %s
		FROM applications a
		LEFT JOIN companies c ON c.id = a.company_id
		WHERE %s
		ORDER BY a.id ASC
		LIMIT $%d`,
		appColumns, strings.Join(conds, " AND "), len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications query: %w", err)
	}
	defer rows.Close()

	apps := make([]Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("list applications scan: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// Get returns one application by id, validating ownership. Archived rows are
// still visible here — only the default list view hides them.
func (s *PgStore) Get(ctx context.Context, userID string, id int64) (*Application, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s
		FROM applications a
		LEFT JOIN companies c ON c.id = a.company_id
		WHERE a.id = $1 AND a.user_id = $2 AND a.deleted_at IS NULL`,
		appColumns),
		id, userID,
	)
	a, err := scanApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

// Insert persists a new application row.
func (s *PgStore) Insert(ctx context.Context, userID string, p CreateParams) (*Application, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		WITH ins AS (
		  INSERT INTO applications
		    (user_id, company_id, position, job_url, job_description, notes,
		     salary_currency, min_salary, max_salary, location, remote, status)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		          $11::work_location_type, $12::job_application_status)
		  RETURNING *
		)
		SELECT %s
		FROM ins a
		LEFT JOIN companies c ON c.id = a.company_id`,
		appColumns),
		userID, p.CompanyID, p.Position, p.JobURL, p.JobDescription, p.Notes,
		p.SalaryCurrency, p.MinSalary, p.MaxSalary, p.Location,
		string(p.Remote), string(p.Status),
	)
	a, err := scanApplication(row)
	if err != nil {
		return nil, mapPgError("insert application", err)
	}
	return a, nil
}

// Update applies only the non-nil fields of p. The SET clause is built
// dynamically so an omitted field never touches its column.
func (s *PgStore) Update(ctx context.Context, userID string, id int64, p UpdateParams, history []byte) (*Application, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}

	add := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}

	if p.Position != nil {
		add("position = $%d", *p.Position)
	}
	if p.Remote != nil {
		add("remote = $%d::work_location_type", string(*p.Remote))
	}
	if p.Status != nil {
		add("status = $%d::job_application_status", string(*p.Status))
	}
	if p.CompanyID != nil {
		add("company_id = $%d", *p.CompanyID)
	}
	if p.Location != nil {
		add("location = $%d", *p.Location)
	}
	if p.Notes != nil {
		add("notes = $%d", *p.Notes)
	}
	if p.SalaryCurrency != nil {
		add("salary_currency = $%d", *p.SalaryCurrency)
	}
	if p.MinSalary != nil {
		add("min_salary = $%d", *p.MinSalary)
	}
	if p.MaxSalary != nil {
		add("max_salary = $%d", *p.MaxSalary)
	}
	if p.JobURL != nil {
		add("job_url = $%d", *p.JobURL)
	}
	if p.JobDescription != nil {
		add("job_description = $%d", *p.JobDescription)
	}
	if history != nil {
		add("status_history = status_history || $%d::jsonb", history)
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(`
		WITH upd AS (
		  UPDATE applications
		  SET %s
		  WHERE id = $%d AND user_id = $%d AND deleted_at IS NULL
		  RETURNING *
		)
		SELECT %s
		FROM upd a
		LEFT JOIN companies c ON c.id = a.company_id`,
		strings.Join(sets, ", "), len(args)-1, len(args), appColumns)

	row := s.pool.QueryRow(ctx, query, args...)
	a, err := scanApplication(row)
	if err != nil {
		return nil, mapPgError("update application", err)
	}
	return a, nil
}

// Archive stamps archived_at. Unconditional on the previous value, so a
// repeat call just re-stamps.
func (s *PgStore) Archive(ctx context.Context, userID string, id int64) (*Application, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		WITH upd AS (
		  UPDATE applications
		  SET archived_at = NOW(), updated_at = NOW()
		  WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		  RETURNING *
		)
		SELECT %s
		FROM upd a
		LEFT JOIN companies c ON c.id = a.company_id`,
		appColumns),
		id, userID,
	)
	a, err := scanApplication(row)
	if err != nil {
		return nil, mapPgError("archive application", err)
	}
	return a, nil
}

// mapPgError translates driver errors into the domain taxonomy: missing rows
// become ErrNotFound, foreign-key violations (a bogus companyId) become
// validation failures, everything else is wrapped as-is.
func mapPgError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return &ValidationError{Msg: "referenced company does not exist"}
	}
	return fmt.Errorf("%s: %w", op, err)
}
