package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

const collectionProducts = "products"

var _ ports.ProductRepository = (*ProductRepository)(nil)

type ProductRepository struct {
	col *mongo.Collection
	ids counters
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts), ids: newCounters(db)}
}

// Create inserts a new product document with a sequential id.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx, collectionProducts)
	if err != nil {
		return nil, err
	}
	doc := *p
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateProduct
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return &doc, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateProduct
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrProductNotFound
	}
	out := *p
	return &out, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteByCategory(ctx context.Context, categoryID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return 0, fmt.Errorf("delete products by category: %w", err)
	}
	return res.DeletedCount, nil
}

// FindByID retrieves a product by id.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) ExistsInCategory(ctx context.Context, categoryID int64, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"category_id": categoryID, "name": name}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count products: %w", err)
	}
	return n > 0, nil
}

func (r *ProductRepository) List(ctx context.Context, f ports.ProductFilter, q ports.ListQuery) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := productFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(sortDoc(string(q.Sort.Field), string(q.Sort.Direction))).
		SetSkip(int64(q.Offset)).
		SetLimit(int64(q.Limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	out := make([]*domain.Product, 0, q.Limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return out, total, nil
}

func productFilter(f ports.ProductFilter) bson.M {
	filter := bson.M{}
	if f.CategoryID != 0 {
		filter["category_id"] = f.CategoryID
	}
	if f.Keyword != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Keyword), Options: "i"}
	}
	return filter
}
