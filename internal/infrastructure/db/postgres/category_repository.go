package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

var categoryColumns = map[domain.SortField]string{
	domain.SortByID:   "id",
	domain.SortByName: "name",
}

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id, name`, c.Name)
	created, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return created, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `UPDATE categories SET name = $2 WHERE id = $1 RETURNING id, name`, c.ID, c.Name)
	updated, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateCategory
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the category. Remaining products go with it through the
// foreign key cascade.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanCategory(r.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id))
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanCategory(r.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE name = $1`, name))
}

func (r *CategoryRepository) List(ctx context.Context, q ports.ListQuery) ([]*domain.Category, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	query := `SELECT id, name FROM categories ` + orderBy(q.Sort, categoryColumns) + ` LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Category, 0, q.Limit)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	return out, total, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}
