package photos

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory Repository useful for tests. Not intended
// for production use.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int
	photos map[int]Photo

	// name lookups feed the view joins.
	userNames  map[int]string
	placeNames map[int]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID:     1,
		photos:     make(map[int]Photo),
		userNames:  make(map[int]string),
		placeNames: make(map[int]string),
	}
}

func (r *MemoryRepo) SetUserName(userID int, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userNames[userID] = name
}

func (r *MemoryRepo) SetPlaceName(placeID int, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placeNames[placeID] = name
}

func (r *MemoryRepo) Create(ctx context.Context, p Photo) (Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	p.Approved = false
	p.CreatedAt = time.Now().UTC()
	r.photos[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, id int) (Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok {
		return Photo{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) FindViewByID(ctx context.Context, id int) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok {
		return View{}, ErrNotFound
	}
	return r.view(p), nil
}

func (r *MemoryRepo) All(ctx context.Context) ([]Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Photo, 0, len(r.photos))
	for _, p := range r.photos {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) ApprovedByUser(ctx context.Context, userID int) ([]View, error) {
	return r.collectViews(func(p Photo) bool { return p.UserID == userID && p.Approved }), nil
}

func (r *MemoryRepo) ApprovedByPlace(ctx context.Context, placeID int) ([]View, error) {
	return r.collectViews(func(p Photo) bool { return p.PlaceID == placeID && p.Approved }), nil
}

func (r *MemoryRepo) Approve(ctx context.Context, id int) (Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok {
		return Photo{}, ErrNotFound
	}
	p.Approved = true
	r.photos[id] = p
	return p, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.photos[id]; !ok {
		return ErrNotFound
	}
	delete(r.photos, id)
	return nil
}

func (r *MemoryRepo) PlaceExists(ctx context.Context, placeID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.placeNames[placeID]
	return ok, nil
}

func (r *MemoryRepo) view(p Photo) View {
	return View{
		ID:          p.ID,
		Location:    p.Location,
		ContentType: p.ContentType,
		UserName:    r.userNames[p.UserID],
		PlaceName:   r.placeNames[p.PlaceID],
	}
}

func (r *MemoryRepo) collectViews(keep func(Photo) bool) []View {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []View
	for _, p := range r.photos {
		if keep(p) {
			out = append(out, r.view(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
