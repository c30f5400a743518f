package users

import (
	"context"
	"errors"
	"sort"
	"strings"

	"place-review-platform/internal/auth"
	"place-review-platform/internal/rbac"
)

var (
	ErrNotFound  = errors.New("users: not found")
	ErrForbidden = errors.New("users: forbidden")
	ErrConflict  = errors.New("users: conflict")
	ErrInvalid   = errors.New("users: invalid input")
)

// Repository is the persistence contract for accounts, interests and the
// friend graph. Implementations return ErrNotFound / ErrConflict from this
// package so the service can pass them through unchanged.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	FindByID(ctx context.Context, id int) (User, error)
	FindByEmail(ctx context.Context, email string) (User, bool, error)
	SearchByUserName(ctx context.Context, userName string) ([]User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id int) error

	AddInterest(ctx context.Context, userID int, interest string) error
	InterestsOf(ctx context.Context, userID int) ([]string, error)

	AreFriends(ctx context.Context, a, b int) (bool, error)
	RequestExists(ctx context.Context, from, to int) (bool, error)
	CreateRequest(ctx context.Context, from, to int) error
	DeleteRequest(ctx context.Context, from, to int) error
	CreateFriendship(ctx context.Context, a, b int) error
	FriendsOf(ctx context.Context, userID int) ([]User, error)
}

// PlaceDirectory is the read-only slice of place data the recommendation
// queries need. Implemented by the places package.
type PlaceDirectory interface {
	PlacesByCategories(ctx context.Context, categories []string) ([]PlaceRef, error)
	PlacesWithCommenterAges(ctx context.Context, excludeUserID int) ([]PlaceAges, error)
}

type Service struct {
	repo   Repository
	places PlaceDirectory
}

func NewService(repo Repository, places PlaceDirectory) *Service {
	return &Service{repo: repo, places: places}
}

type RegisterParams struct {
	UserName string
	Email    string
	Password string
	Age      *int
}

func (s *Service) Register(ctx context.Context, p RegisterParams) (Profile, error) {
	p.UserName = strings.TrimSpace(p.UserName)
	p.Email = strings.TrimSpace(p.Email)
	if p.UserName == "" || p.Email == "" || p.Password == "" {
		return Profile{}, ErrInvalid
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return Profile{}, err
	}

	u, err := s.repo.Create(ctx, User{
		UserName:     p.UserName,
		Email:        p.Email,
		PasswordHash: hash,
		Age:          p.Age,
		Role:         rbac.RoleUser,
	})
	if err != nil {
		return Profile{}, err
	}
	return u.Profile(), nil
}

type UpdateParams struct {
	UserName *string
	Age      *int
}

// Update modifies an account. Only the owner may edit it; any other caller
// gets ErrForbidden even when the target exists.
func (s *Service) Update(ctx context.Context, id, actorID int, p UpdateParams) (Profile, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if u.ID != actorID {
		return Profile{}, ErrForbidden
	}

	if p.UserName != nil {
		name := strings.TrimSpace(*p.UserName)
		if name == "" {
			return Profile{}, ErrInvalid
		}
		u.UserName = name
	}
	if p.Age != nil {
		u.Age = p.Age
	}

	u, err = s.repo.Update(ctx, u)
	if err != nil {
		return Profile{}, err
	}
	return u.Profile(), nil
}

// Remove deletes an account, owner only.
func (s *Service) Remove(ctx context.Context, id, actorID int) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u.ID != actorID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Profile(ctx context.Context, userID int) (Profile, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return u.Profile(), nil
}

// AddInterest records an interest category for the user. A duplicate is a
// forbidden action rather than a conflict, mirroring the client contract.
func (s *Service) AddInterest(ctx context.Context, userID int, interest string) error {
	interest = strings.TrimSpace(interest)
	if interest == "" {
		return ErrInvalid
	}
	if err := s.repo.AddInterest(ctx, userID, interest); err != nil {
		if errors.Is(err, ErrConflict) {
			return ErrForbidden
		}
		return err
	}
	return nil
}

// Recommendations returns places whose categories overlap the user's
// interests. No interests is a not-found condition; interests with no
// matching place is forbidden, both per the existing client contract.
func (s *Service) Recommendations(ctx context.Context, userID int) ([]PlaceRef, error) {
	interests, err := s.repo.InterestsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(interests) == 0 {
		return nil, ErrNotFound
	}

	places, err := s.places.PlacesByCategories(ctx, interests)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, ErrForbidden
	}
	return places, nil
}

const maxAgeRecommendations = 5

// RecommendByAge ranks places by how close their commenters' ages are to the
// caller's, closest first, capped at five results.
func (s *Service) RecommendByAge(ctx context.Context, userID int) ([]PlaceRef, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Age == nil {
		return nil, ErrConflict
	}

	candidates, err := s.places.PlacesWithCommenterAges(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrForbidden
	}

	myAge := *u.Age
	diff := func(pa PlaceAges) int {
		best := -1
		for _, age := range pa.Ages {
			d := age - myAge
			if d < 0 {
				d = -d
			}
			if best < 0 || d < best {
				best = d
			}
		}
		return best
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return diff(candidates[i]) < diff(candidates[j])
	})

	if len(candidates) > maxAgeRecommendations {
		candidates = candidates[:maxAgeRecommendations]
	}
	out := make([]PlaceRef, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Place)
	}
	return out, nil
}

// SendFriendRequest creates a pending request from actor to target.
func (s *Service) SendFriendRequest(ctx context.Context, actorID, targetID int) error {
	if actorID == targetID {
		return ErrInvalid
	}
	if _, err := s.repo.FindByID(ctx, targetID); err != nil {
		return err
	}

	friends, err := s.repo.AreFriends(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if friends {
		return ErrForbidden
	}

	exists, err := s.repo.RequestExists(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return ErrConflict
	}
	return s.repo.CreateRequest(ctx, actorID, targetID)
}

// ResolveFriendRequest accepts or rejects a pending request sent by fromID
// to the actor. Either way the pending row is consumed.
func (s *Service) ResolveFriendRequest(ctx context.Context, actorID, fromID int, accepted bool) error {
	exists, err := s.repo.RequestExists(ctx, fromID, actorID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if accepted {
		if err := s.repo.CreateFriendship(ctx, fromID, actorID); err != nil {
			return err
		}
	}
	return s.repo.DeleteRequest(ctx, fromID, actorID)
}

// FriendList returns the user's friends. An empty list is reported as not
// found, matching the existing client contract.
func (s *Service) FriendList(ctx context.Context, userID int) ([]Summary, error) {
	friends, err := s.repo.FriendsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(friends) == 0 {
		return nil, ErrNotFound
	}
	out := make([]Summary, 0, len(friends))
	for _, f := range friends {
		out = append(out, f.Summary())
	}
	return out, nil
}

// SearchByUserName returns public summaries for exact username matches.
func (s *Service) SearchByUserName(ctx context.Context, userName string) ([]Summary, error) {
	matches, err := s.repo.SearchByUserName(ctx, userName)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Summary())
	}
	return out, nil
}
