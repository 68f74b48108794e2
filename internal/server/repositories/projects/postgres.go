package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/dbx"
	"github.com/dmitrijs2005/trophy/internal/server/models"
)

// PostgresRepository implements Repository. The statements are also valid
// SQLite.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const projectColumns = `p.id, p.owner_id, p.title, p.description, p.tech_stack, p.github_link, p.demo_link, p.image_urls, p.created_at, p.updated_at`

// projectWithStarCount selects a project, its star count and owner summary.
const projectWithStarCount = `SELECT ` + projectColumns + `,
       (SELECT COUNT(*) FROM stars s WHERE s.project_id = p.id) AS star_count,
       u.name, u.branch, u.year
  FROM projects p
  JOIN users u ON u.id = p.owner_id`

type scanner interface{ Scan(...any) error }

func scanProject(row scanner) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.TechStack,
		&p.GithubLink, &p.DemoLink, &p.ImageURLs, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanView(row scanner) (*models.ProjectView, error) {
	v := &models.ProjectView{}
	p := &v.Project
	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.TechStack,
		&p.GithubLink, &p.DemoLink, &p.ImageURLs, &p.CreatedAt, &p.UpdatedAt,
		&v.StarCount, &v.Owner.Name, &v.Owner.Branch, &v.Owner.Year)
	if err != nil {
		return nil, err
	}
	v.Owner.ID = p.OwnerID
	return v, nil
}

func (r *PostgresRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	query :=
		`INSERT INTO projects (owner_id, title, description, tech_stack, github_link, demo_link, image_urls, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		project.OwnerID, project.Title, project.Description, project.TechStack,
		project.GithubLink, project.DemoLink, project.ImageURLs,
		project.CreatedAt, project.UpdatedAt).Scan(&project.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return project, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = $1`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetWithStarCount(ctx context.Context, id int64) (*models.ProjectView, error) {
	query := projectWithStarCount + ` WHERE p.id = $1`

	v, err := scanView(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) ListWithStarCounts(ctx context.Context, sort models.ProjectSort) ([]models.ProjectView, error) {
	order := ` ORDER BY p.created_at DESC, p.id DESC`
	if sort == models.SortMostStarred {
		order = ` ORDER BY star_count DESC, p.created_at DESC, p.id DESC`
	}
	return r.listViews(ctx, projectWithStarCount+order)
}

func (r *PostgresRepository) ListByOwnerWithStarCounts(ctx context.Context, ownerID int64) ([]models.ProjectView, error) {
	query := projectWithStarCount + ` WHERE p.owner_id = $1 ORDER BY p.created_at DESC, p.id DESC`
	return r.listViews(ctx, query, ownerID)
}

func (r *PostgresRepository) listViews(ctx context.Context, query string, args ...any) ([]models.ProjectView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.ProjectView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE owner_id = $1`, ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Update(ctx context.Context, project *models.Project) error {
	query :=
		`UPDATE projects
		    SET title = $1, description = $2, tech_stack = $3, github_link = $4,
		        demo_link = $5, image_urls = $6, updated_at = $7
		  WHERE id = $8`

	res, err := r.db.ExecContext(ctx, query,
		project.Title, project.Description, project.TechStack, project.GithubLink,
		project.DemoLink, project.ImageURLs, project.UpdatedAt, project.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
