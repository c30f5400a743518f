package comments

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory Repository useful for tests. Not intended
// for production use.
type MemoryRepo struct {
	mu       sync.Mutex
	nextID   int
	comments map[int]Comment

	// userNames feeds the author join in FindAllByPlaceWithAuthor.
	userNames map[int]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID:    1,
		comments:  make(map[int]Comment),
		userNames: make(map[int]string),
	}
}

// SetUserName registers an author name for the with-author listing.
func (r *MemoryRepo) SetUserName(userID int, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userNames[userID] = name
}

func (r *MemoryRepo) Create(ctx context.Context, c Comment) (Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now().UTC()
	r.comments[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, id int) (Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) FindAll(ctx context.Context) ([]Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(Comment) bool { return true }), nil
}

func (r *MemoryRepo) FindAllByUser(ctx context.Context, userID int) ([]Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(c Comment) bool { return c.UserID == userID }), nil
}

func (r *MemoryRepo) FindAllByPlace(ctx context.Context, placeID int) ([]Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(c Comment) bool { return c.PlaceID == placeID }), nil
}

func (r *MemoryRepo) FindAllByPlaceWithAuthor(ctx context.Context, placeID int) ([]WithAuthor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []WithAuthor
	for _, c := range r.collect(func(c Comment) bool { return c.PlaceID == placeID }) {
		out = append(out, WithAuthor{Comment: c, UserName: r.userNames[c.UserID]})
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id int, text string, rating int) (Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	c.Text = text
	c.Rating = rating
	r.comments[id] = c
	return c, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *MemoryRepo) collect(keep func(Comment) bool) []Comment {
	var out []Comment
	for _, c := range r.comments {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
