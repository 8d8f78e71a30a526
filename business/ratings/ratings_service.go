package ratings

import (
	"context"
	"fmt"
	"sort"

	"myBookShelf/domain"
)

// ---- Repository interfaces ----

// LiveRatingRepository is the durable overlay of ratings submitted
// after the snapshot was frozen.
type LiveRatingRepository interface {
	Upsert(ctx context.Context, rating *domain.Rating) error
	GetByUser(ctx context.Context, userID uint) ([]domain.Rating, error)
	GetByUserAndBook(ctx context.Context, userID uint, bookTitle string) (*domain.Rating, error)
	CountByUser(ctx context.Context, userID uint) (int, error)
}

// BookResolver looks up catalog metadata for a title.
type BookResolver interface {
	GetByTitle(title string) (domain.Book, bool)
}

// ---- Usecase / Service ----

// Service merges the frozen historical ratings with the live overlay
// into one effective view per user. The overlay always wins when both
// sources have a rating for the same (user, title) pair. This is the
// only component that reads both sources.
type Service struct {
	static   *StaticSet
	liveRepo LiveRatingRepository
	books    BookResolver
}

func NewService(static *StaticSet, liveRepo LiveRatingRepository, books BookResolver) *Service {
	return &Service{
		static:   static,
		liveRepo: liveRepo,
		books:    books,
	}
}

// RatedTitles returns every title the user has rated under either
// source. Used as the exclusion set when building recommendation
// candidates.
func (s *Service) RatedTitles(ctx context.Context, userID uint) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	live, err := s.liveRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load live ratings: %w", err)
	}

	staticRatings := s.static.ByUser(userID)
	titles := make(map[string]struct{}, len(staticRatings)+len(live))
	for title := range staticRatings {
		titles[title] = struct{}{}
	}
	for _, r := range live {
		titles[r.BookTitle] = struct{}{}
	}

	return titles, nil
}

// RatingCount is the number of distinct titles in the user's effective
// view. A title rated in the snapshot and re-rated live counts once.
func (s *Service) RatingCount(ctx context.Context, userID uint) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	// no static history means the live rows are already distinct
	if s.static.CountByUser(userID) == 0 {
		count, err := s.liveRepo.CountByUser(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("count live ratings: %w", err)
		}
		return count, nil
	}

	titles, err := s.RatedTitles(ctx, userID)
	if err != nil {
		return 0, err
	}

	return len(titles), nil
}

// EffectiveRating resolves the user's rating for one title: the live
// value if present, else the static value, else absent.
func (s *Service) EffectiveRating(ctx context.Context, userID uint, title string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, fmt.Errorf("context error: %w", err)
	}

	live, err := s.liveRepo.GetByUserAndBook(ctx, userID, title)
	if err != nil {
		return 0, false, fmt.Errorf("load live rating: %w", err)
	}
	if live != nil {
		return live.Value, true, nil
	}

	if v, ok := s.static.Get(userID, title); ok {
		return v, true, nil
	}

	return 0, false, nil
}

// Record validates and upserts a live rating. Idempotent per
// (user, title); resubmitting overwrites, never duplicates.
func (s *Service) Record(ctx context.Context, userID uint, title string, value int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if value < domain.RatingScaleMin || value > domain.RatingScaleMax {
		return domain.ErrInvalidRating
	}
	if _, ok := s.books.GetByTitle(title); !ok {
		return domain.ErrBookNotFound
	}

	rating := &domain.Rating{
		UserID:    userID,
		BookTitle: title,
		Value:     value,
	}
	if err := s.liveRepo.Upsert(ctx, rating); err != nil {
		return fmt.Errorf("record rating: %w", err)
	}

	return nil
}

// ListEffective returns the user's merged rating list joined to
// catalog metadata, sorted by title. Titles missing from the catalog
// are skipped rather than failing the whole request.
func (s *Service) ListEffective(ctx context.Context, userID uint) ([]domain.RatedBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	live, err := s.liveRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load live ratings: %w", err)
	}

	merged := make(map[string]int)
	for title, v := range s.static.ByUser(userID) {
		merged[title] = v
	}
	// overlay wins on collision
	for _, r := range live {
		merged[r.BookTitle] = r.Value
	}

	out := make([]domain.RatedBook, 0, len(merged))
	for title, v := range merged {
		book, ok := s.books.GetByTitle(title)
		if !ok {
			continue
		}
		out = append(out, domain.RatedBook{Book: book, Rating: v})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Title < out[j].Title
	})

	return out, nil
}
