package places

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory Repository useful for tests. Not intended
// for production use.
type MemoryRepo struct {
	mu         sync.Mutex
	nextPlace  int
	nextCat    int
	nextNews   int
	places     map[int]Place
	categories map[int]Category
	news       map[int]News
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextPlace:  1,
		nextCat:    1,
		nextNews:   1,
		places:     make(map[int]Place),
		categories: make(map[int]Category),
		news:       make(map[int]News),
	}
}

func (r *MemoryRepo) CreatePlace(ctx context.Context, p Place) (Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.places {
		if existing.GooglePlaceID == p.GooglePlaceID {
			return Place{}, ErrConflict
		}
	}
	p.ID = r.nextPlace
	r.nextPlace++
	p.CreatedAt = time.Now().UTC()
	r.places[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, id int) (Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.places[id]
	if !ok {
		return Place{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) FindByGooglePlaceID(ctx context.Context, googlePlaceID string) (Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.places {
		if p.GooglePlaceID == googlePlaceID {
			return p, nil
		}
	}
	return Place{}, ErrNotFound
}

func (r *MemoryRepo) PlaceIDByGoogleID(ctx context.Context, googlePlaceID string) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.places {
		if p.GooglePlaceID == googlePlaceID {
			return p.ID, true, nil
		}
	}
	return 0, false, nil
}

func (r *MemoryRepo) AllPlaces(ctx context.Context) ([]Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Place, 0, len(r.places))
	for _, p := range r.places {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) DeletePlace(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.places[id]; !ok {
		return ErrNotFound
	}
	delete(r.places, id)
	return nil
}

func (r *MemoryRepo) AddCategory(ctx context.Context, placeID int, category string) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.PlaceID == placeID && existing.Category == category {
			return Category{}, ErrConflict
		}
	}
	cat := Category{ID: r.nextCat, Category: category, PlaceID: placeID}
	r.nextCat++
	r.categories[cat.ID] = cat
	return cat, nil
}

func (r *MemoryRepo) CreateNews(ctx context.Context, n News) (News, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = r.nextNews
	r.nextNews++
	n.Approved = false
	r.news[n.ID] = n
	return n, nil
}

func (r *MemoryRepo) FindNewsByID(ctx context.Context, id int) (News, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.news[id]
	if !ok {
		return News{}, ErrNotFound
	}
	return n, nil
}

func (r *MemoryRepo) UpdateNewsText(ctx context.Context, id int, text string) (News, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.news[id]
	if !ok {
		return News{}, ErrNotFound
	}
	n.Text = text
	r.news[id] = n
	return n, nil
}

func (r *MemoryRepo) ApproveNews(ctx context.Context, id int) (News, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.news[id]
	if !ok {
		return News{}, ErrNotFound
	}
	n.Approved = true
	r.news[id] = n
	return n, nil
}

func (r *MemoryRepo) AllNews(ctx context.Context) ([]News, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]News, 0, len(r.news))
	for _, n := range r.news {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) ApprovedNewsByPlace(ctx context.Context, placeID int) ([]News, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []News
	for _, n := range r.news {
		if n.PlaceID == placeID && n.Approved {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
