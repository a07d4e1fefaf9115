package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/linkstash/linkstash/internal/cache"
	"github.com/linkstash/linkstash/internal/model"
	"github.com/linkstash/linkstash/internal/repository"
)

// fakeCache is an in-memory cache.Store. TTLs are accepted but not
// enforced; expiry behavior belongs to Redis.
type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deleted := 0
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			delete(f.data, k)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeCache) put(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

func (f *fakeCache) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data)
}

// fakeStore is an in-memory record store implementing LinkStore,
// CategoryStore, and UserStore, including the FK actions the schema
// declares: user deletion cascades, category deletion clears link
// references.
type fakeStore struct {
	mu         sync.Mutex
	users      map[int64]model.User
	categories map[int64]model.Category
	links      map[int64]model.Link
	nextUser   int64
	nextCat    int64
	nextLink   int64

	// reads counts record-store read operations, to assert that cache
	// hits never touch the store.
	reads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[int64]model.User),
		categories: make(map[int64]model.Category),
		links:      make(map[int64]model.Link),
	}
}

func (f *fakeStore) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *fakeStore) addUser(username, email, hash string) model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUser++
	u := model.User{ID: f.nextUser, Username: username, Email: email, HashedPassword: hash}
	f.users[u.ID] = u
	return u
}

// --- UserStore ---

func (f *fakeStore) CreateUser(ctx context.Context, username, email, hashedPassword string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return nil, repository.ErrUsernameTaken
		}
		if u.Email == email {
			return nil, repository.ErrEmailTaken
		}
	}
	f.nextUser++
	u := model.User{ID: f.nextUser, Username: username, Email: email, HashedPassword: hashedPassword}
	f.users[u.ID] = u
	return &u, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	for _, u := range f.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	out := u
	return &out, nil
}

func (f *fakeStore) DeleteUser(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	for cid, c := range f.categories {
		if c.UserID == id {
			delete(f.categories, cid)
		}
	}
	for lid, l := range f.links {
		if l.UserID == id {
			delete(f.links, lid)
		}
	}
	return nil
}

// --- CategoryStore ---

func (f *fakeStore) ListCategories(ctx context.Context, ownerID int64) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	out := make([]model.Category, 0)
	for _, c := range f.categories {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetCategory(ctx context.Context, ownerID, id int64) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	c, ok := f.categories[id]
	if !ok || c.UserID != ownerID {
		return nil, repository.ErrCategoryNotFound
	}
	out := c
	return &out, nil
}

func (f *fakeStore) ListCategoryLinks(ctx context.Context, ownerID, categoryID int64) ([]model.CategoryLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	out := make([]model.CategoryLink, 0)
	for _, l := range f.links {
		if l.UserID == ownerID && l.CategoryID != nil && *l.CategoryID == categoryID {
			out = append(out, model.CategoryLink{ID: l.ID, Title: l.Title, URL: l.URL, Description: l.Description})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, ownerID int64, name string) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.UserID == ownerID && c.Name == name {
			return nil, repository.ErrCategoryNameTaken
		}
	}
	f.nextCat++
	c := model.Category{ID: f.nextCat, Name: name, UserID: ownerID}
	f.categories[c.ID] = c
	return &c, nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, ownerID, id int64, name string) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok || c.UserID != ownerID {
		return nil, repository.ErrCategoryNotFound
	}
	for _, other := range f.categories {
		if other.UserID == ownerID && other.Name == name && other.ID != id {
			return nil, repository.ErrCategoryNameTaken
		}
	}
	c.Name = name
	f.categories[id] = c
	out := c
	return &out, nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, ownerID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok || c.UserID != ownerID {
		return repository.ErrCategoryNotFound
	}
	delete(f.categories, id)
	// Emulate ON DELETE SET NULL
	for lid, l := range f.links {
		if l.CategoryID != nil && *l.CategoryID == id {
			l.CategoryID = nil
			f.links[lid] = l
		}
	}
	return nil
}

// --- LinkStore ---

func (f *fakeStore) matches(l model.Link, filter repository.LinkFilter) bool {
	if l.UserID != filter.OwnerID {
		return false
	}
	if filter.CategoryID != nil {
		if l.CategoryID == nil || *l.CategoryID != *filter.CategoryID {
			return false
		}
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		title := strings.ToLower(l.Title)
		desc := ""
		if l.Description != nil {
			desc = strings.ToLower(*l.Description)
		}
		if !strings.Contains(title, needle) && !strings.Contains(desc, needle) {
			return false
		}
	}
	return true
}

func (f *fakeStore) GetLink(ctx context.Context, ownerID, id int64) (*model.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	l, ok := f.links[id]
	if !ok || l.UserID != ownerID {
		return nil, repository.ErrLinkNotFound
	}
	out := l
	return &out, nil
}

func (f *fakeStore) ListLinks(ctx context.Context, filter repository.LinkFilter, limit, offset int) ([]model.LinkWithCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++

	rows := make([]model.LinkWithCategory, 0)
	for _, l := range f.links {
		if !f.matches(l, filter) {
			continue
		}
		row := model.LinkWithCategory{Link: l}
		if l.CategoryID != nil {
			if c, ok := f.categories[*l.CategoryID]; ok {
				name := c.Name
				row.CategoryName = &name
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })

	if limit > 0 {
		if offset >= len(rows) {
			return []model.LinkWithCategory{}, nil
		}
		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		rows = rows[offset:end]
	}

	return rows, nil
}

func (f *fakeStore) CountLinks(ctx context.Context, filter repository.LinkFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	total := 0
	for _, l := range f.links {
		if f.matches(l, filter) {
			total++
		}
	}
	return total, nil
}

func (f *fakeStore) CreateLink(ctx context.Context, link *model.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextLink++
	link.ID = f.nextLink
	f.links[link.ID] = *link
	return nil
}

func (f *fakeStore) UpdateLink(ctx context.Context, link *model.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.links[link.ID]
	if !ok || existing.UserID != link.UserID {
		return repository.ErrLinkNotFound
	}
	f.links[link.ID] = *link
	return nil
}

func (f *fakeStore) DeleteLink(ctx context.Context, ownerID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.links[id]
	if !ok || l.UserID != ownerID {
		return repository.ErrLinkNotFound
	}
	delete(f.links, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newLinkService wires a LinkService over the fakes with a real
// invalidator, matching the production wiring.
func newLinkService(store *fakeStore, fc *fakeCache) *LinkService {
	inv := cache.NewInvalidator(fc, testLogger(), nil)
	return NewLinkService(store, fc, inv, nil, testLogger(), 0)
}

func newCategoryService(store *fakeStore, fc *fakeCache) *CategoryService {
	inv := cache.NewInvalidator(fc, testLogger(), nil)
	return NewCategoryService(store, fc, inv, nil, testLogger(), 0)
}
