package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storefront/catalog-service/internal/core/domain"
	"github.com/storefront/catalog-service/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	clone := cloneUser(user)
	clone.ID = r.nextID
	r.users[clone.Username] = clone
	return cloneUser(clone), nil
}

// ---------------------------------------------------------------------------
// Sign-in limiter
// ---------------------------------------------------------------------------

type stubLimiter struct {
	max      int
	failures map[string]int
	allowErr error
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{max: max, failures: make(map[string]int)}
}

func (l *stubLimiter) Allow(_ context.Context, username string) (bool, error) {
	if l.allowErr != nil {
		return false, l.allowErr
	}
	return l.failures[username] < l.max, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, username string) error {
	l.failures[username]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, username string) error {
	delete(l.failures, username)
	return nil
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

type stubCategoryRepo struct {
	byID      map[int64]*domain.Category
	nextID    int64
	listCalls int
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{byID: make(map[int64]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	for _, existing := range r.byID {
		if existing.Name == c.Name {
			return nil, domain.ErrDuplicateCategory
		}
	}
	r.nextID++
	clone := *c
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *domain.Category) (*domain.Category, error) {
	if _, ok := r.byID[c.ID]; !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range r.byID {
		if c.Name == name {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *stubCategoryRepo) List(_ context.Context, q ports.ListQuery) ([]*domain.Category, int64, error) {
	r.listCalls++
	all := make([]*domain.Category, 0, len(r.byID))
	for _, c := range r.byID {
		clone := *c
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if q.Sort.Field == domain.SortByName && a.Name != b.Name {
			return (a.Name < b.Name) == (q.Sort.Direction == domain.SortAsc)
		}
		if q.Sort.Field == domain.SortByID {
			return (a.ID < b.ID) == (q.Sort.Direction == domain.SortAsc)
		}
		return a.ID < b.ID
	})
	return window(all, q), int64(len(all)), nil
}

type stubProductRepo struct {
	byID   map[int64]*domain.Product
	nextID int64
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[int64]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.nextID++
	clone := *p
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if _, ok := r.byID[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	r.byID[p.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubProductRepo) DeleteByCategory(_ context.Context, categoryID int64) (int64, error) {
	var n int64
	for id, p := range r.byID {
		if p.CategoryID == categoryID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) ExistsInCategory(_ context.Context, categoryID int64, name string) (bool, error) {
	for _, p := range r.byID {
		if p.CategoryID == categoryID && p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// List applies the same filters and ordering the real repositories use.
func (r *stubProductRepo) List(_ context.Context, f ports.ProductFilter, q ports.ListQuery) ([]*domain.Product, int64, error) {
	var matched []*domain.Product
	for _, p := range r.byID {
		if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Keyword != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Keyword)) {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}

	asc := q.Sort.Direction == domain.SortAsc
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less, equal bool
		switch q.Sort.Field {
		case domain.SortByName:
			less, equal = a.Name < b.Name, a.Name == b.Name
		case domain.SortByPrice:
			less, equal = a.Price < b.Price, a.Price == b.Price
		case domain.SortBySpecialPrice:
			less, equal = a.SpecialPrice < b.SpecialPrice, a.SpecialPrice == b.SpecialPrice
		case domain.SortByQuantity:
			less, equal = a.Quantity < b.Quantity, a.Quantity == b.Quantity
		default:
			less, equal = a.ID < b.ID, a.ID == b.ID
		}
		if equal {
			return a.ID < b.ID
		}
		return less == asc
	})
	return window(matched, q), int64(len(matched)), nil
}

func window[T any](all []T, q ports.ListQuery) []T {
	if q.Offset >= len(all) {
		return []T{}
	}
	end := q.Offset + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[q.Offset:end]
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

type stubImageStore struct {
	saved map[string][]byte
	err   error
}

func newStubImageStore() *stubImageStore {
	return &stubImageStore{saved: make(map[string][]byte)}
}

func (s *stubImageStore) Save(_ context.Context, originalName string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	name := "stored-" + originalName
	s.saved[name] = data
	return name, nil
}

var errDiskFull = errors.New("disk full")

// ---------------------------------------------------------------------------
// Principals
// ---------------------------------------------------------------------------

func adminCtx() context.Context {
	return domain.WithPrincipal(context.Background(), &domain.Principal{
		ID:       7,
		Username: "admin",
		Roles:    []domain.Role{domain.RoleAdmin},
	})
}

func userCtx() context.Context {
	return domain.WithPrincipal(context.Background(), &domain.Principal{
		ID:       8,
		Username: "shopper",
		Roles:    []domain.Role{domain.RoleUser},
	})
}
