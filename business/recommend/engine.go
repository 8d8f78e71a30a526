package recommend

import (
	"context"
	"fmt"
	"sort"

	"myBookShelf/domain"
	"myBookShelf/pkg/logger"
	"myBookShelf/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

// ---- Collaborator interfaces ----

// RatingHistory is the effective rating view the gate and the
// exclusion set are computed from.
type RatingHistory interface {
	RatedTitles(ctx context.Context, userID uint) (map[string]struct{}, error)
	RatingCount(ctx context.Context, userID uint) (int, error)
}

// Catalog enumerates the frozen book table.
type Catalog interface {
	Titles() []string
	GetByTitle(title string) (domain.Book, bool)
}

// PopularCache is an optional cache for rendered popular lists.
type PopularCache interface {
	Get(ctx context.Context, n, minSupport int) ([]domain.RecommendedBook, error)
	Set(ctx context.Context, n, minSupport int, books []domain.RecommendedBook) error
}

// ---- Usecase / Service ----

// Service is the recommendation engine. It decides per user between
// the cold-start path (global popularity) and the personalized path
// (model predictions over unrated catalog books), and serves the
// similar-books lookup independently of that gate.
type Service struct {
	history    RatingHistory
	catalog    Catalog
	predictor  Predictor
	popularity *PopularityRanker
	similarity *SimilarityIndex
	cache      PopularCache // may be nil
	cfg        Config
}

func NewService(
	history RatingHistory,
	catalog Catalog,
	predictor Predictor,
	popularity *PopularityRanker,
	similarity *SimilarityIndex,
	cache PopularCache,
	cfg Config,
) *Service {
	return &Service{
		history:    history,
		catalog:    catalog,
		predictor:  predictor,
		popularity: popularity,
		similarity: similarity,
		cache:      cache,
		cfg:        cfg.withDefaults(),
	}
}

// Recommend answers "what should this user read". Users below the
// rating threshold get the popularity ranking plus progress toward
// unlocking personalized recommendations; everyone else gets ranked
// model predictions.
func (s *Service) Recommend(ctx context.Context, userID uint) (*domain.Recommendations, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	count, err := s.history.RatingCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rating count: %w", err)
	}

	if count < s.cfg.ColdStartThreshold {
		books, err := s.Popular(ctx, s.cfg.TopN)
		if err != nil {
			return nil, err
		}
		return &domain.Recommendations{
			Mode:  domain.ModeColdStart,
			Books: books,
			Progress: &domain.RatingProgress{
				Rated:    count,
				Required: s.cfg.ColdStartThreshold,
			},
		}, nil
	}

	books, err := s.personalized(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.Recommendations{
		Mode:  domain.ModePersonalized,
		Books: books,
	}, nil
}

// personalized scores every unrated catalog title and returns the top
// n with metadata attached.
func (s *Service) personalized(ctx context.Context, userID uint) ([]domain.RecommendedBook, error) {
	rated, err := s.history.RatedTitles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rated titles: %w", err)
	}

	allTitles := s.catalog.Titles()
	candidates := make([]string, 0, len(allTitles))
	for _, title := range allTitles {
		if _, ok := rated[title]; ok {
			continue
		}
		candidates = append(candidates, title)
	}

	scores := s.scoreCandidates(userID, candidates)

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if scores[i] != scores[j] {
			return scores[i] > scores[j]
		}
		return candidates[i] < candidates[j]
	})

	out := make([]domain.RecommendedBook, 0, s.cfg.TopN)
	for _, i := range order {
		book, ok := s.catalog.GetByTitle(candidates[i])
		if !ok {
			// catalog inconsistency; drop the entry, not the request
			continue
		}
		out = append(out, domain.RecommendedBook{Book: book, Score: scores[i]})
		if len(out) == s.cfg.TopN {
			break
		}
	}

	return out, nil
}

// scoreCandidates runs the predictor over the candidate set in
// parallel. The predictor and the exclusion set are immutable for the
// duration of the request, so workers share them without locking.
func (s *Service) scoreCandidates(userID uint, candidates []string) []float64 {
	scores := make([]float64, len(candidates))

	workers := s.cfg.ScoreWorkers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers <= 1 {
		for i, title := range candidates {
			scores[i] = s.predictor.Predict(userID, title)
		}
		return scores
	}

	chunk := (len(candidates) + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(candidates) {
			hi = len(candidates)
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				scores[i] = s.predictor.Predict(userID, candidates[i])
			}
			return nil
		})
	}
	// workers never return an error; Wait only joins them
	_ = g.Wait()

	return scores
}

// Popular returns the top n books by mean static rating, consulting
// the cache when one is configured. Cache failures are logged and
// ignored; the ranking is always recomputable.
func (s *Service) Popular(ctx context.Context, n int) ([]domain.RecommendedBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if n <= 0 {
		n = s.cfg.TopN
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, n, s.cfg.MinSupport)
		if err != nil {
			logger.Warn("popular cache read failed", "error", err)
		} else if cached != nil {
			metrics.PopularCacheHits.Inc()
			return cached, nil
		}
	}

	books := s.popularity.TopPopular(n, s.cfg.MinSupport)

	if s.cache != nil {
		if err := s.cache.Set(ctx, n, s.cfg.MinSupport, books); err != nil {
			logger.Warn("popular cache write failed", "error", err)
		}
	}

	return books, nil
}

// Similar returns up to k books similar to the given title. Books
// outside the similarity matrix yield an empty list; that is expected
// for low-interaction titles, not a failure.
func (s *Service) Similar(title string, k int) []domain.RecommendedBook {
	if k <= 0 {
		k = s.cfg.SimilarK
	}

	if !s.similarity.Contains(title) {
		metrics.SimilarMisses.Inc()
		return []domain.RecommendedBook{}
	}

	return s.similarity.SimilarBooks(title, k)
}

// Progress reports how many books the user has rated against the
// cold-start threshold.
func (s *Service) Progress(ctx context.Context, userID uint) (*domain.RatingProgress, error) {
	count, err := s.history.RatingCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rating count: %w", err)
	}
	return &domain.RatingProgress{
		Rated:    count,
		Required: s.cfg.ColdStartThreshold,
	}, nil
}
