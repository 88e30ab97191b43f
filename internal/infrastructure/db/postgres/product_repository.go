package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

const productSelect = `SELECT id, name, description, image, quantity, price, discount, special_price,
	category_id, COALESCE(seller_id, 0), created_at, updated_at FROM products`

var productColumns = map[domain.SortField]string{
	domain.SortByID:           "id",
	domain.SortByName:         "name",
	domain.SortByPrice:        "price",
	domain.SortByDiscount:     "discount",
	domain.SortBySpecialPrice: "special_price",
	domain.SortByQuantity:     "quantity",
	domain.SortByCreatedAt:    "created_at",
	domain.SortByUpdatedAt:    "updated_at",
}

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const query = `
	INSERT INTO products (name, description, image, quantity, price, discount, special_price, category_id, seller_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, 0), $10, $11)
	RETURNING id, name, description, image, quantity, price, discount, special_price,
		category_id, COALESCE(seller_id, 0), created_at, updated_at;
	`
	row := r.pool.QueryRow(ctx, query,
		p.Name, p.Description, p.Image, p.Quantity, p.Price, p.Discount, p.SpecialPrice,
		p.CategoryID, p.SellerID, p.CreatedAt, p.UpdatedAt,
	)
	created, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateProduct
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return created, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const query = `
	UPDATE products SET name = $2, description = $3, image = $4, quantity = $5,
		price = $6, discount = $7, special_price = $8, updated_at = $9
	WHERE id = $1
	RETURNING id, name, description, image, quantity, price, discount, special_price,
		category_id, COALESCE(seller_id, 0), created_at, updated_at;
	`
	row := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Image, p.Quantity, p.Price, p.Discount, p.SpecialPrice, p.UpdatedAt,
	)
	updated, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateProduct
		}
		return nil, err
	}
	return updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteByCategory(ctx context.Context, categoryID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("delete products by category: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE id = $1`, id))
}

func (r *ProductRepository) ExistsInCategory(ctx context.Context, categoryID int64, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE category_id = $1 AND name = $2)`, categoryID, name,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("product exists: %w", err)
	}
	return ok, nil
}

func (r *ProductRepository) List(ctx context.Context, f ports.ProductFilter, q ports.ListQuery) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where, args := productWhere(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	n := len(args)
	query := productSelect + where + " " + orderBy(q.Sort, productColumns) +
		" LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	rows, err := r.pool.Query(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Product, 0, q.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return out, total, nil
}

func productWhere(f ports.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		conds = append(conds, "category_id = $"+strconv.Itoa(len(args)))
	}
	if f.Keyword != "" {
		args = append(args, containsPattern(f.Keyword))
		conds = append(conds, "name ILIKE $"+strconv.Itoa(len(args))+` ESCAPE '\'`)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Image, &p.Quantity, &p.Price, &p.Discount, &p.SpecialPrice,
		&p.CategoryID, &p.SellerID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}
