package saved_search

import (
	"context"
	"errors"
	"testing"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	searches []SavedSearch
	evicted  int
}

func (f *fakeRepo) Insert(ctx context.Context, s *SavedSearch) error {
	f.searches = append(f.searches, *s)
	return nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]SavedSearch, error) {
	out := []SavedSearch{}
	for _, s := range f.searches {
		if s.UserID == userID && int64(len(out)) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	var n int64
	for _, s := range f.searches {
		if s.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) DeleteOldest(ctx context.Context, userID primitive.ObjectID) error {
	for i, s := range f.searches {
		if s.UserID == userID {
			f.searches = append(f.searches[:i], f.searches[i+1:]...)
			f.evicted++
			return nil
		}
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	for i, s := range f.searches {
		if s.ID == id && s.UserID == userID {
			f.searches = append(f.searches[:i], f.searches[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func TestSaveRejectsEmpty(t *testing.T) {
	service := NewSavedSearchService(&fakeRepo{})

	_, err := service.Save(context.Background(), primitive.NewObjectID(), "", nil)
	if !errors.Is(err, apperr.ErrInvalidFilter) {
		t.Errorf("err = %v, want ErrInvalidFilter", err)
	}
}

func TestSaveEvictsOldestAtCap(t *testing.T) {
	repo := &fakeRepo{}
	service := NewSavedSearchService(repo)
	owner := primitive.NewObjectID()

	for i := 0; i < maxSavedSearches; i++ {
		if _, err := service.Save(context.Background(), owner, "query", nil); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}
	if repo.evicted != 0 {
		t.Fatalf("evicted = %d before reaching the cap", repo.evicted)
	}

	if _, err := service.Save(context.Background(), owner, "one more", nil); err != nil {
		t.Fatalf("Save over cap: %v", err)
	}
	if repo.evicted != 1 {
		t.Errorf("evicted = %d, want 1", repo.evicted)
	}
	if n, _ := repo.CountByUser(context.Background(), owner); n != maxSavedSearches {
		t.Errorf("count = %d, want %d", n, maxSavedSearches)
	}
}

func TestSaveCapIsPerUser(t *testing.T) {
	repo := &fakeRepo{}
	service := NewSavedSearchService(repo)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	for i := 0; i < maxSavedSearches; i++ {
		if _, err := service.Save(context.Background(), alice, "q", nil); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	if _, err := service.Save(context.Background(), bob, "q", nil); err != nil {
		t.Fatalf("Save for second user: %v", err)
	}
	if repo.evicted != 0 {
		t.Errorf("second user's save evicted %d entries", repo.evicted)
	}
}

func TestDeleteMissing(t *testing.T) {
	service := NewSavedSearchService(&fakeRepo{})

	err := service.Delete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
