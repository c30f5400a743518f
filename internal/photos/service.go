package photos

import (
	"context"
	"errors"
	"io"
	"path"
)

var (
	ErrNotFound    = errors.New("photos: not found")
	ErrForbidden   = errors.New("photos: forbidden")
	ErrUnapproved  = errors.New("photos: waiting for approval")
	ErrInvalidFile = errors.New("photos: invalid file")
)

type Repository interface {
	Create(ctx context.Context, p Photo) (Photo, error)
	FindByID(ctx context.Context, id int) (Photo, error)
	FindViewByID(ctx context.Context, id int) (View, error)
	All(ctx context.Context) ([]Photo, error)
	ApprovedByUser(ctx context.Context, userID int) ([]View, error)
	ApprovedByPlace(ctx context.Context, placeID int) ([]View, error)
	Approve(ctx context.Context, id int) (Photo, error)
	Delete(ctx context.Context, id int) error
	PlaceExists(ctx context.Context, placeID int) (bool, error)
}

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type Service struct {
	repo  Repository
	files FileStore
}

func NewService(repo Repository, files FileStore) *Service {
	return &Service{repo: repo, files: files}
}

// GetOne returns the public view. Photos pending approval are hidden behind
// an explicit "waiting" error rather than a generic not found.
func (s *Service) GetOne(ctx context.Context, id int) (View, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	if !p.Approved {
		return View{}, ErrUnapproved
	}
	return s.repo.FindViewByID(ctx, id)
}

func (s *Service) All(ctx context.Context) ([]Photo, error) {
	return s.repo.All(ctx)
}

func (s *Service) AllByUser(ctx context.Context, userID int) ([]View, error) {
	return s.repo.ApprovedByUser(ctx, userID)
}

func (s *Service) AllByPlace(ctx context.Context, placeID int) ([]View, error) {
	return s.repo.ApprovedByPlace(ctx, placeID)
}

// Upload stores one image and its record. The record starts unapproved.
// Unsupported content types are rejected before any bytes hit disk.
func (s *Service) Upload(ctx context.Context, actorID, placeID int, contentType, fileName string, r io.Reader) (Photo, error) {
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return Photo{}, ErrInvalidFile
	}
	if e := path.Ext(fileName); e != "" {
		ext = e
	}

	exists, err := s.repo.PlaceExists(ctx, placeID)
	if err != nil {
		return Photo{}, err
	}
	if !exists {
		return Photo{}, ErrNotFound
	}

	location, err := s.files.Save(ext, r)
	if err != nil {
		return Photo{}, err
	}
	p, err := s.repo.Create(ctx, Photo{
		Location:    location,
		ContentType: contentType,
		UserID:      actorID,
		PlaceID:     placeID,
	})
	if err != nil {
		// Orphaned bytes are worse than a failed upload.
		_ = s.files.Remove(location)
		return Photo{}, err
	}
	return p, nil
}

// Remove deletes a photo record and its file, owner only.
func (s *Service) Remove(ctx context.Context, id, actorID int) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != actorID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.files.Remove(p.Location)
}

func (s *Service) Approve(ctx context.Context, id int) (Photo, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return Photo{}, err
	}
	return s.repo.Approve(ctx, id)
}
