package users

import (
	"context"
	"errors"
	"testing"
)

type stubDirectory struct {
	byCategory []PlaceRef
	byAges     []PlaceAges
	err        error
}

func (s stubDirectory) PlacesByCategories(ctx context.Context, categories []string) ([]PlaceRef, error) {
	return s.byCategory, s.err
}

func (s stubDirectory) PlacesWithCommenterAges(ctx context.Context, excludeUserID int) ([]PlaceAges, error) {
	return s.byAges, s.err
}

func intPtr(v int) *int { return &v }

func registered(t *testing.T, svc *Service, name, email string) Profile {
	t.Helper()
	p, err := svc.Register(context.Background(), RegisterParams{
		UserName: name,
		Email:    email,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return p
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubDirectory{})

	registered(t, svc, "anna", "anna@example.com")
	_, err := svc.Register(context.Background(), RegisterParams{
		UserName: "other",
		Email:    "anna@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRegister_RejectsMissingFields(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubDirectory{})

	_, err := svc.Register(context.Background(), RegisterParams{Email: "x@y.com", Password: "p"})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestUpdate_SelfOnly(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubDirectory{})
	anna := registered(t, svc, "anna", "anna@example.com")
	bela := registered(t, svc, "bela", "bela@example.com")

	name := "annabella"
	if _, err := svc.Update(context.Background(), anna.ID, bela.ID, UpdateParams{UserName: &name}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign edit, got %v", err)
	}

	p, err := svc.Update(context.Background(), anna.ID, anna.ID, UpdateParams{UserName: &name, Age: intPtr(30)})
	if err != nil {
		t.Fatalf("self edit: %v", err)
	}
	if p.UserName != "annabella" || p.Age == nil || *p.Age != 30 {
		t.Fatalf("unexpected profile after update: %+v", p)
	}
}

func TestRemove_SelfOnly(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubDirectory{})
	anna := registered(t, svc, "anna", "anna@example.com")
	bela := registered(t, svc, "bela", "bela@example.com")

	if err := svc.Remove(context.Background(), anna.ID, bela.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Remove(context.Background(), anna.ID, anna.ID); err != nil {
		t.Fatalf("self delete: %v", err)
	}
	if _, err := svc.Profile(context.Background(), anna.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted account should be gone, got %v", err)
	}
}

func TestAddInterest_DuplicateIsForbidden(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubDirectory{})
	anna := registered(t, svc, "anna", "anna@example.com")

	if err := svc.AddInterest(context.Background(), anna.ID, "bar"); err != nil {
		t.Fatalf("first interest: %v", err)
	}
	if err := svc.AddInterest(context.Background(), anna.ID, "bar"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on duplicate, got %v", err)
	}
}

func TestRecommendations(t *testing.T) {
	repo := NewMemoryRepo()
	match := PlaceRef{ID: 7, Name: "Corner Bar"}

	svc := NewService(repo, stubDirectory{byCategory: []PlaceRef{match}})
	anna := registered(t, svc, "anna", "anna@example.com")

	if _, err := svc.Recommendations(context.Background(), anna.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no interests should be not found, got %v", err)
	}

	if err := svc.AddInterest(context.Background(), anna.ID, "bar"); err != nil {
		t.Fatalf("interest: %v", err)
	}
	got, err := svc.Recommendations(context.Background(), anna.ID)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("unexpected recommendations: %+v", got)
	}

	empty := NewService(repo, stubDirectory{})
	if _, err := empty.Recommendations(context.Background(), anna.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("no matching places should be forbidden, got %v", err)
	}
}

func TestRecommendByAge(t *testing.T) {
	repo := NewMemoryRepo()
	candidates := []PlaceAges{
		{Place: PlaceRef{ID: 1, Name: "far"}, Ages: []int{60, 70}},
		{Place: PlaceRef{ID: 2, Name: "close"}, Ages: []int{31}},
		{Place: PlaceRef{ID: 3, Name: "closest"}, Ages: []int{55, 30}},
	}
	svc := NewService(repo, stubDirectory{byAges: candidates})

	noAge := registered(t, svc, "anna", "anna@example.com")
	if _, err := svc.RecommendByAge(context.Background(), noAge.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("unset age should conflict, got %v", err)
	}

	aged, err := svc.Register(context.Background(), RegisterParams{
		UserName: "bela", Email: "bela@example.com", Password: "secret123", Age: intPtr(30),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.RecommendByAge(context.Background(), aged.ID)
	if err != nil {
		t.Fatalf("recommend by age: %v", err)
	}
	if len(got) != 3 || got[0].ID != 3 || got[1].ID != 2 || got[2].ID != 1 {
		t.Fatalf("expected closest-first order [3 2 1], got %+v", got)
	}
}

func TestRecommendByAge_CapsAtFive(t *testing.T) {
	var candidates []PlaceAges
	for i := 1; i <= 8; i++ {
		candidates = append(candidates, PlaceAges{Place: PlaceRef{ID: i}, Ages: []int{20 + i}})
	}
	svc := NewService(NewMemoryRepo(), stubDirectory{byAges: candidates})
	aged, err := svc.Register(context.Background(), RegisterParams{
		UserName: "anna", Email: "anna@example.com", Password: "secret123", Age: intPtr(21),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.RecommendByAge(context.Background(), aged.ID)
	if err != nil {
		t.Fatalf("recommend by age: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 results, got %d", len(got))
	}
}

func TestFriendRequestFlow(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubDirectory{})
	anna := registered(t, svc, "anna", "anna@example.com")
	bela := registered(t, svc, "bela", "bela@example.com")

	if err := svc.SendFriendRequest(context.Background(), anna.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing target should be not found, got %v", err)
	}
	if err := svc.SendFriendRequest(context.Background(), anna.ID, anna.ID); !errors.Is(err, ErrInvalid) {
		t.Fatalf("self-request should be invalid, got %v", err)
	}

	if err := svc.SendFriendRequest(context.Background(), anna.ID, bela.ID); err != nil {
		t.Fatalf("send request: %v", err)
	}
	if err := svc.SendFriendRequest(context.Background(), anna.ID, bela.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate request should conflict, got %v", err)
	}

	// Bela accepts; friendship becomes visible from both sides.
	if err := svc.ResolveFriendRequest(context.Background(), bela.ID, anna.ID, true); err != nil {
		t.Fatalf("accept: %v", err)
	}
	for _, id := range []int{anna.ID, bela.ID} {
		friends, err := svc.FriendList(context.Background(), id)
		if err != nil {
			t.Fatalf("friend list for %d: %v", id, err)
		}
		if len(friends) != 1 {
			t.Fatalf("expected one friend for %d, got %+v", id, friends)
		}
	}

	// The request was consumed and a repeat attempt is blocked by friendship.
	if err := svc.ResolveFriendRequest(context.Background(), bela.ID, anna.ID, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("consumed request should be not found, got %v", err)
	}
	if err := svc.SendFriendRequest(context.Background(), anna.ID, bela.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("request to existing friend should be forbidden, got %v", err)
	}
}

func TestResolveFriendRequest_Reject(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubDirectory{})
	anna := registered(t, svc, "anna", "anna@example.com")
	bela := registered(t, svc, "bela", "bela@example.com")

	if err := svc.SendFriendRequest(context.Background(), anna.ID, bela.ID); err != nil {
		t.Fatalf("send request: %v", err)
	}
	if err := svc.ResolveFriendRequest(context.Background(), bela.ID, anna.ID, false); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if _, err := svc.FriendList(context.Background(), bela.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("rejected request must not create friendship, got %v", err)
	}
	// Anna may try again after a rejection.
	if err := svc.SendFriendRequest(context.Background(), anna.ID, bela.ID); err != nil {
		t.Fatalf("re-request after rejection: %v", err)
	}
}

func TestSearchByUserName_ExactMatchOnly(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubDirectory{})
	registered(t, svc, "anna", "anna@example.com")
	registered(t, svc, "annamaria", "annamaria@example.com")

	got, err := svc.SearchByUserName(context.Background(), "anna")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].UserName != "anna" {
		t.Fatalf("expected exact match only, got %+v", got)
	}
}
