package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory Repository useful for tests and local
// development. Not intended for production use.
type MemoryRepo struct {
	mu        sync.Mutex
	nextID    int
	users     map[int]User
	interests map[int][]string
	friends   map[[2]int]bool
	requests  map[[2]int]bool
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID:    1,
		users:     make(map[int]User),
		interests: make(map[int][]string),
		friends:   make(map[[2]int]bool),
		requests:  make(map[[2]int]bool),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return User{}, ErrConflict
		}
	}
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now().UTC()
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, id int) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return User{}, false, nil
}

func (r *MemoryRepo) SearchByUserName(ctx context.Context, userName string) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []User
	for _, u := range r.users {
		if u.UserName == userName {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.ID]
	if !ok {
		return User{}, ErrNotFound
	}
	existing.UserName = u.UserName
	existing.Age = u.Age
	r.users[u.ID] = existing
	return existing, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	delete(r.interests, id)
	return nil
}

func (r *MemoryRepo) AddInterest(ctx context.Context, userID int, interest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.interests[userID] {
		if existing == interest {
			return ErrConflict
		}
	}
	r.interests[userID] = append(r.interests[userID], interest)
	return nil
}

func (r *MemoryRepo) InterestsOf(ctx context.Context, userID int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.interests[userID]))
	copy(out, r.interests[userID])
	return out, nil
}

func (r *MemoryRepo) AreFriends(ctx context.Context, a, b int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.friends[[2]int{a, b}], nil
}

func (r *MemoryRepo) RequestExists(ctx context.Context, from, to int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[[2]int{from, to}], nil
}

func (r *MemoryRepo) CreateRequest(ctx context.Context, from, to int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int{from, to}
	if r.requests[key] {
		return ErrConflict
	}
	r.requests[key] = true
	return nil
}

func (r *MemoryRepo) DeleteRequest(ctx context.Context, from, to int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.requests, [2]int{from, to})
	return nil
}

func (r *MemoryRepo) CreateFriendship(ctx context.Context, a, b int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.friends[[2]int{a, b}] = true
	r.friends[[2]int{b, a}] = true
	return nil
}

func (r *MemoryRepo) FriendsOf(ctx context.Context, userID int) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []User
	for key := range r.friends {
		if key[0] == userID {
			if u, ok := r.users[key[1]]; ok {
				out = append(out, u)
			}
		}
	}
	return out, nil
}
