package saved_search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// A user keeps at most this many saved searches; saving an eleventh
// evicts the oldest.
const maxSavedSearches = 10

type SavedSearchService interface {
	Save(ctx context.Context, userID primitive.ObjectID, query string, filters map[string]interface{}) (*SavedSearch, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]SavedSearch, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

type SavedSearchServiceImpl struct {
	Repo SavedSearchRepository
}

func NewSavedSearchService(repo SavedSearchRepository) SavedSearchService {
	return &SavedSearchServiceImpl{Repo: repo}
}

func (s *SavedSearchServiceImpl) Save(ctx context.Context, userID primitive.ObjectID, query string, filters map[string]interface{}) (*SavedSearch, error) {
	if query == "" && len(filters) == 0 {
		return nil, fmt.Errorf("%w: nothing to save", apperr.ErrInvalidFilter)
	}

	count, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= maxSavedSearches {
		if err := s.Repo.DeleteOldest(ctx, userID); err != nil {
			return nil, err
		}
	}

	saved := &SavedSearch{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		SearchQuery: query,
		Filters:     filters,
		CreatedAt:   time.Now(),
	}
	if err := s.Repo.Insert(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SavedSearchServiceImpl) List(ctx context.Context, userID primitive.ObjectID) ([]SavedSearch, error) {
	return s.Repo.ListByUser(ctx, userID, maxSavedSearches)
}

func (s *SavedSearchServiceImpl) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	err := s.Repo.Delete(ctx, id, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: saved search %s", apperr.ErrNotFound, id.Hex())
	}
	return err
}
