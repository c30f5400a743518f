package places

import (
	"context"
	"errors"
	"testing"
)

func addedPlace(t *testing.T, svc *Service, gid, name string) Place {
	t.Helper()
	p, err := svc.Add(context.Background(), CreateParams{GooglePlaceID: gid, Name: name, Address: "Main St 1"})
	if err != nil {
		t.Fatalf("add place: %v", err)
	}
	return p
}

func TestGetOne(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	p := addedPlace(t, svc, "G123", "Corner Bar")

	got, err := svc.GetOne(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get one: %v", err)
	}
	if got.Name != "Corner Bar" {
		t.Fatalf("unexpected place: %+v", got)
	}

	if _, err := svc.GetOne(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByGooglePlaceID(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	addedPlace(t, svc, "G123", "Corner Bar")

	got, err := svc.GetByGooglePlaceID(context.Background(), "G123")
	if err != nil {
		t.Fatalf("get by google place id: %v", err)
	}
	if got.Name != "Corner Bar" {
		t.Fatalf("unexpected place: %+v", got)
	}

	if _, err := svc.GetByGooglePlaceID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAll_EmptyIsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.All(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	addedPlace(t, svc, "G1", "One")
	addedPlace(t, svc, "G2", "Two")
	all, err := svc.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 places, got %d", len(all))
	}
}

func TestRemove(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	p := addedPlace(t, svc, "G1", "One")

	if err := svc.Remove(context.Background(), p.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Remove(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestAddCategory_DuplicateIsForbidden(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	p := addedPlace(t, svc, "G1", "One")

	if _, err := svc.AddCategory(context.Background(), p.ID, "bar"); err != nil {
		t.Fatalf("first category: %v", err)
	}
	if _, err := svc.AddCategory(context.Background(), p.ID, "bar"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on duplicate, got %v", err)
	}
	if _, err := svc.AddCategory(context.Background(), 999, "bar"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing place, got %v", err)
	}
}

func TestNewsLifecycle(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	p := addedPlace(t, svc, "G1", "One")

	n, err := svc.AddNews(context.Background(), p.ID, 42, "grand opening")
	if err != nil {
		t.Fatalf("add news: %v", err)
	}
	if n.Approved {
		t.Fatal("news must start unapproved")
	}

	// Unapproved news stays out of the public listing.
	if _, err := svc.NewsByPlace(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before approval, got %v", err)
	}

	if _, err := svc.ApproveNews(context.Background(), n.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	listed, err := svc.NewsByPlace(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("news by place: %v", err)
	}
	if len(listed) != 1 || !listed[0].Approved {
		t.Fatalf("unexpected listing: %+v", listed)
	}
}

func TestUpdateNews_AuthorOnly(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	p := addedPlace(t, svc, "G1", "One")

	n, err := svc.AddNews(context.Background(), p.ID, 42, "original text")
	if err != nil {
		t.Fatalf("add news: %v", err)
	}

	if _, err := svc.UpdateNews(context.Background(), n.ID, 43, "sneaky edit"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign edit, got %v", err)
	}

	updated, err := svc.UpdateNews(context.Background(), n.ID, 42, "fixed text")
	if err != nil {
		t.Fatalf("author edit: %v", err)
	}
	if updated.Text != "fixed text" {
		t.Fatalf("unexpected text: %q", updated.Text)
	}

	if _, err := svc.UpdateNews(context.Background(), 999, 42, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddNews_MissingPlace(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.AddNews(context.Background(), 999, 1, "text"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
