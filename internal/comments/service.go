package comments

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound  = errors.New("comments: not found")
	ErrForbidden = errors.New("comments: forbidden")
	ErrInvalid   = errors.New("comments: invalid input")
)

const (
	minRating = 1
	maxRating = 5
)

type Repository interface {
	Create(ctx context.Context, c Comment) (Comment, error)
	FindByID(ctx context.Context, id int) (Comment, error)
	FindAll(ctx context.Context) ([]Comment, error)
	FindAllByUser(ctx context.Context, userID int) ([]Comment, error)
	FindAllByPlace(ctx context.Context, placeID int) ([]Comment, error)
	FindAllByPlaceWithAuthor(ctx context.Context, placeID int) ([]WithAuthor, error)
	Update(ctx context.Context, id int, text string, rating int) (Comment, error)
	Delete(ctx context.Context, id int) error
}

// PlaceResolver resolves a google place id to the internal place id.
// Implemented by the places package.
type PlaceResolver interface {
	PlaceIDByGoogleID(ctx context.Context, googlePlaceID string) (int, bool, error)
}

type Service struct {
	repo     Repository
	resolver PlaceResolver
}

func NewService(repo Repository, resolver PlaceResolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

type CreateParams struct {
	Text    string
	Rating  int
	PlaceID int
}

func (s *Service) Add(ctx context.Context, userID int, p CreateParams) (Comment, error) {
	p.Text = strings.TrimSpace(p.Text)
	if p.Text == "" || p.Rating < minRating || p.Rating > maxRating {
		return Comment{}, ErrInvalid
	}
	return s.repo.Create(ctx, Comment{
		Text:    p.Text,
		Rating:  p.Rating,
		UserID:  userID,
		PlaceID: p.PlaceID,
	})
}

func (s *Service) FindOne(ctx context.Context, id int) (Comment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) FindAll(ctx context.Context) ([]Comment, error) {
	return s.repo.FindAll(ctx)
}

// FindAllByUser lists a user's comments; none is a not-found condition per
// the existing client contract.
func (s *Service) FindAllByUser(ctx context.Context, userID int) ([]Comment, error) {
	list, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list, nil
}

func (s *Service) FindAllByPlace(ctx context.Context, placeID int) ([]Comment, error) {
	list, err := s.repo.FindAllByPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list, nil
}

// FindAllByGooglePlace resolves the google place id first; an unknown id is
// not found, a known place with no comments is an empty list.
func (s *Service) FindAllByGooglePlace(ctx context.Context, googlePlaceID string) ([]WithAuthor, error) {
	placeID, found, err := s.resolver.PlaceIDByGoogleID(ctx, googlePlaceID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	list, err := s.repo.FindAllByPlaceWithAuthor(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []WithAuthor{}
	}
	return list, nil
}

func (s *Service) Update(ctx context.Context, id int, text string, rating int) (Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" || rating < minRating || rating > maxRating {
		return Comment{}, ErrInvalid
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return Comment{}, err
	}
	return s.repo.Update(ctx, id, text, rating)
}

// Remove deletes a comment, author only.
func (s *Service) Remove(ctx context.Context, id, actorID int) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != actorID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
