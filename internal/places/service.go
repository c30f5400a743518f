package places

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound  = errors.New("places: not found")
	ErrForbidden = errors.New("places: forbidden")
	ErrConflict  = errors.New("places: conflict")
	ErrInvalid   = errors.New("places: invalid input")
)

type Repository interface {
	CreatePlace(ctx context.Context, p Place) (Place, error)
	FindByID(ctx context.Context, id int) (Place, error)
	FindByGooglePlaceID(ctx context.Context, googlePlaceID string) (Place, error)
	AllPlaces(ctx context.Context) ([]Place, error)
	DeletePlace(ctx context.Context, id int) error

	AddCategory(ctx context.Context, placeID int, category string) (Category, error)

	CreateNews(ctx context.Context, n News) (News, error)
	FindNewsByID(ctx context.Context, id int) (News, error)
	UpdateNewsText(ctx context.Context, id int, text string) (News, error)
	ApproveNews(ctx context.Context, id int) (News, error)
	AllNews(ctx context.Context) ([]News, error)
	ApprovedNewsByPlace(ctx context.Context, placeID int) ([]News, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetOne(ctx context.Context, id int) (Place, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByGooglePlaceID(ctx context.Context, googlePlaceID string) (Place, error) {
	return s.repo.FindByGooglePlaceID(ctx, googlePlaceID)
}

// All lists every place; an empty database reads as not found per the
// existing client contract.
func (s *Service) All(ctx context.Context) ([]Place, error) {
	places, err := s.repo.AllPlaces(ctx)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, ErrNotFound
	}
	return places, nil
}

type CreateParams struct {
	GooglePlaceID string
	Name          string
	Address       string
}

func (s *Service) Add(ctx context.Context, p CreateParams) (Place, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || strings.TrimSpace(p.GooglePlaceID) == "" {
		return Place{}, ErrInvalid
	}
	return s.repo.CreatePlace(ctx, Place{
		GooglePlaceID: p.GooglePlaceID,
		Name:          p.Name,
		Address:       p.Address,
	})
}

func (s *Service) Remove(ctx context.Context, id int) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeletePlace(ctx, id)
}

// AddCategory tags a place. A duplicate tag is a forbidden action rather
// than a conflict, mirroring the client contract.
func (s *Service) AddCategory(ctx context.Context, placeID int, category string) (Category, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Category{}, ErrInvalid
	}
	if _, err := s.repo.FindByID(ctx, placeID); err != nil {
		return Category{}, err
	}
	cat, err := s.repo.AddCategory(ctx, placeID, category)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return Category{}, ErrForbidden
		}
		return Category{}, err
	}
	return cat, nil
}

// AddNews submits news for a place. It starts unapproved and stays out of
// public listings until an admin approves it.
func (s *Service) AddNews(ctx context.Context, placeID, userID int, text string) (News, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return News{}, ErrInvalid
	}
	if _, err := s.repo.FindByID(ctx, placeID); err != nil {
		return News{}, err
	}
	return s.repo.CreateNews(ctx, News{Text: text, PlaceID: placeID, UserID: userID})
}

// UpdateNews edits the text, author only.
func (s *Service) UpdateNews(ctx context.Context, id, actorID int, text string) (News, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return News{}, ErrInvalid
	}
	n, err := s.repo.FindNewsByID(ctx, id)
	if err != nil {
		return News{}, err
	}
	if n.UserID != actorID {
		return News{}, ErrForbidden
	}
	return s.repo.UpdateNewsText(ctx, id, text)
}

func (s *Service) ApproveNews(ctx context.Context, id int) (News, error) {
	if _, err := s.repo.FindNewsByID(ctx, id); err != nil {
		return News{}, err
	}
	return s.repo.ApproveNews(ctx, id)
}

func (s *Service) AllNews(ctx context.Context) ([]News, error) {
	return s.repo.AllNews(ctx)
}

// NewsByPlace lists approved news only. Empty reads as not found per the
// existing client contract.
func (s *Service) NewsByPlace(ctx context.Context, placeID int) ([]News, error) {
	if _, err := s.repo.FindByID(ctx, placeID); err != nil {
		return nil, err
	}
	news, err := s.repo.ApprovedNewsByPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if len(news) == 0 {
		return nil, ErrNotFound
	}
	return news, nil
}
