package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"
)

const (
	defaultPageSize = 50

	suggestFileCap       = 5
	suggestTagCap        = 5
	suggestCategoryCap   = 3
	suggestDepartmentCap = 3
	suggestTotalCap      = 10
)

type Page struct {
	Results []Result `json:"results"`
	Total   int64    `json:"total"`
	Limit   int64    `json:"limit"`
	Skip    int64    `json:"skip"`
}

type Analytics struct {
	PopularTags []TagCount  `json:"popularTags"`
	FileTypes   []TypeCount `json:"fileTypes"`
	TotalFiles  int64       `json:"totalFiles"`
	TotalSize   int64       `json:"totalSize"`
}

type SearchService interface {
	Search(ctx context.Context, claims *utils.UserClaims, filters Filters, sortBy, sortOrder string, limit, skip int64) (*Page, error)
	Suggestions(ctx context.Context, claims *utils.UserClaims, prefix string) ([]Suggestion, error)
	Analytics(ctx context.Context, claims *utils.UserClaims) (*Analytics, error)
}

type SearchServiceImpl struct {
	repo SearchRepository
}

func NewSearchService(repo SearchRepository) SearchService {
	return &SearchServiceImpl{repo: repo}
}

func (s *SearchServiceImpl) Search(ctx context.Context, claims *utils.UserClaims, filters Filters, sortBy, sortOrder string, limit, skip int64) (*Page, error) {
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be positive", apperr.ErrInvalidPageSize)
	}
	if skip < 0 {
		skip = 0
	}

	match, err := filters.BuildMatch(claims)
	if err != nil {
		return nil, err
	}

	sort := SortStage(sortBy, sortOrder, filters.Query != "")
	results, total, err := s.repo.Search(ctx, match, filters.Query, sort, limit, skip)
	if err != nil {
		return nil, err
	}

	return &Page{Results: results, Total: total, Limit: limit, Skip: skip}, nil
}

// Suggestions returns typeahead completions drawn from file names,
// tags, categories and departments. Prefixes under two characters
// return nothing rather than the whole catalog.
func (s *SearchServiceImpl) Suggestions(ctx context.Context, claims *utils.UserClaims, prefix string) ([]Suggestion, error) {
	if len(prefix) < 2 {
		return []Suggestion{}, nil
	}

	match, err := Filters{Status: string(models.FileStatusActive)}.BuildMatch(claims)
	if err != nil {
		return nil, err
	}

	suggestions := []Suggestion{}
	appendAll := func(kind string, values []string) {
		for _, v := range values {
			suggestions = append(suggestions, Suggestion{Type: kind, Value: v})
		}
	}

	files, err := s.repo.SuggestFiles(ctx, match, prefix, suggestFileCap)
	if err != nil {
		return nil, err
	}
	appendAll("file", files)

	tags, err := s.repo.SuggestDistinct(ctx, match, "tags", prefix, suggestTagCap)
	if err != nil {
		return nil, err
	}
	appendAll("tag", tags)

	categories, err := s.repo.SuggestDistinct(ctx, match, "category", prefix, suggestCategoryCap)
	if err != nil {
		return nil, err
	}
	appendAll("category", categories)

	departments, err := s.repo.SuggestDistinct(ctx, match, "department", prefix, suggestDepartmentCap)
	if err != nil {
		return nil, err
	}
	appendAll("department", departments)

	if len(suggestions) > suggestTotalCap {
		suggestions = suggestions[:suggestTotalCap]
	}
	return suggestions, nil
}

func (s *SearchServiceImpl) Analytics(ctx context.Context, claims *utils.UserClaims) (*Analytics, error) {
	match, err := Filters{Status: string(models.FileStatusActive)}.BuildMatch(claims)
	if err != nil {
		return nil, err
	}

	tags, err := s.repo.PopularTags(ctx, match, 10)
	if err != nil {
		return nil, err
	}
	types, err := s.repo.TypeBreakdown(ctx, match)
	if err != nil {
		return nil, err
	}

	out := &Analytics{PopularTags: tags, FileTypes: bucketTypes(types)}
	for _, t := range types {
		out.TotalFiles += t.Count
		out.TotalSize += t.TotalSize
	}
	return out, nil
}

var bucketOrder = []string{"Images", "Videos", "PDFs", "Documents", "Other"}

func bucketFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "Images"
	case strings.HasPrefix(mimeType, "video/"):
		return "Videos"
	case mimeType == "application/pdf":
		return "PDFs"
	case strings.HasPrefix(mimeType, "text/"),
		strings.Contains(mimeType, "word"),
		strings.Contains(mimeType, "spreadsheet"),
		strings.Contains(mimeType, "presentation"),
		strings.Contains(mimeType, "excel"):
		return "Documents"
	default:
		return "Other"
	}
}

// bucketTypes folds raw MIME types into the dashboard's fixed buckets.
func bucketTypes(types []TypeCount) []TypeCount {
	byBucket := make(map[string]*TypeCount, len(bucketOrder))
	for _, t := range types {
		name := bucketFor(t.FileType)
		b, ok := byBucket[name]
		if !ok {
			b = &TypeCount{FileType: name}
			byBucket[name] = b
		}
		b.Count += t.Count
		b.TotalSize += t.TotalSize
	}

	out := make([]TypeCount, 0, len(byBucket))
	for _, name := range bucketOrder {
		if b, ok := byBucket[name]; ok {
			out = append(out, *b)
		}
	}
	return out
}
