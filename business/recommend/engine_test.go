package recommend

import (
	"context"
	"errors"
	"testing"

	"myBookShelf/domain"
)

type fakeHistory struct {
	rated map[string]struct{}
	err   error
}

func (f *fakeHistory) RatedTitles(_ context.Context, _ uint) (map[string]struct{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rated, nil
}

func (f *fakeHistory) RatingCount(_ context.Context, _ uint) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.rated), nil
}

func historyOf(titles ...string) *fakeHistory {
	rated := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		rated[t] = struct{}{}
	}
	return &fakeHistory{rated: rated}
}

type fakeCatalog struct {
	titles []string
	known  map[string]domain.Book
}

func catalogOf(titles ...string) *fakeCatalog {
	known := make(map[string]domain.Book, len(titles))
	for _, t := range titles {
		known[t] = domain.Book{Title: t}
	}
	return &fakeCatalog{titles: titles, known: known}
}

func (f *fakeCatalog) Titles() []string { return f.titles }

func (f *fakeCatalog) GetByTitle(title string) (domain.Book, bool) {
	b, ok := f.known[title]
	return b, ok
}

// scorePredictor returns fixed scores per title, with a default for
// everything else.
type scorePredictor struct {
	scores       map[string]float64
	defaultScore float64
}

func (p *scorePredictor) Predict(_ uint, title string) float64 {
	if s, ok := p.scores[title]; ok {
		return s
	}
	return p.defaultScore
}

type fakeCache struct {
	stored map[string][]domain.RecommendedBook
	gets   int
	sets   int
}

func (f *fakeCache) key(n, minSupport int) string {
	return string(rune('0'+n)) + ":" + string(rune('0'+minSupport))
}

func (f *fakeCache) Get(_ context.Context, n, minSupport int) ([]domain.RecommendedBook, error) {
	f.gets++
	return f.stored[f.key(n, minSupport)], nil
}

func (f *fakeCache) Set(_ context.Context, n, minSupport int, books []domain.RecommendedBook) error {
	f.sets++
	if f.stored == nil {
		f.stored = make(map[string][]domain.RecommendedBook)
	}
	f.stored[f.key(n, minSupport)] = books
	return nil
}

func newTestEngine(history RatingHistory, cat Catalog, pred Predictor, rows []domain.StaticRating, cache PopularCache, cfg Config) *Service {
	books := cat.(*fakeCatalog)
	popularity := NewPopularityRanker(rows, books)
	similarity := NewSimilarityIndex(
		[]string{"Alpha", "Beta"},
		[][]float64{{1.0, 0.7}, {0.7, 1.0}},
		[]domain.Book{{Title: "Alpha"}, {Title: "Beta"}},
	)
	return NewService(history, cat, pred, popularity, similarity, cache, cfg)
}

func popularRows(title string, value, n int) []domain.StaticRating {
	return repeat(title, value, n)
}

func TestRecommend_ColdStartBelowThreshold(t *testing.T) {
	history := historyOf("A", "B", "C", "D", "E", "F") // 6 of 7
	cat := catalogOf("A", "B", "C", "D", "E", "F", "Hit", "Other")
	rows := popularRows("Hit", 9, 3)
	cfg := Config{ColdStartThreshold: 7, MinSupport: 2, TopN: 5, SimilarK: 5, ScoreWorkers: 1}

	engine := newTestEngine(history, cat, &scorePredictor{defaultScore: 5}, rows, nil, cfg)

	recs, err := engine.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs.Mode != domain.ModeColdStart {
		t.Fatalf("expected cold start, got %s", recs.Mode)
	}
	if recs.Progress == nil || recs.Progress.Rated != 6 || recs.Progress.Required != 7 {
		t.Fatalf("unexpected progress: %+v", recs.Progress)
	}
	if len(recs.Books) != 1 || recs.Books[0].Title != "Hit" {
		t.Fatalf("expected popularity ranking, got %v", recs.Books)
	}
}

func TestRecommend_PersonalizedAtThreshold(t *testing.T) {
	history := historyOf("A", "B", "C", "D", "E", "F", "G") // exactly 7
	cat := catalogOf("A", "B", "C", "D", "E", "F", "G", "X", "Y", "Z")
	pred := &scorePredictor{
		scores:       map[string]float64{"X": 6.0, "Y": 9.0, "Z": 7.5},
		defaultScore: 1,
	}
	cfg := Config{ColdStartThreshold: 7, MinSupport: 2, TopN: 10, SimilarK: 5, ScoreWorkers: 1}

	engine := newTestEngine(history, cat, pred, nil, nil, cfg)

	recs, err := engine.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs.Mode != domain.ModePersonalized {
		t.Fatalf("expected personalized at threshold, got %s", recs.Mode)
	}
	if recs.Progress != nil {
		t.Fatal("personalized responses must not carry progress")
	}

	// only the unrated titles, best score first
	want := []string{"Y", "Z", "X"}
	if len(recs.Books) != len(want) {
		t.Fatalf("expected %d books, got %d", len(want), len(recs.Books))
	}
	for i, title := range want {
		if recs.Books[i].Title != title {
			t.Errorf("books[%d] = %q, want %q", i, recs.Books[i].Title, title)
		}
	}
	for _, b := range recs.Books {
		if _, rated := history.rated[b.Title]; rated {
			t.Errorf("recommended already-rated book %q", b.Title)
		}
	}
}

func TestRecommend_PersonalizedTieBreaksOnTitle(t *testing.T) {
	history := historyOf("A", "B", "C", "D", "E", "F", "G")
	cat := catalogOf("A", "B", "C", "D", "E", "F", "G", "Zeta", "Eta", "Theta")
	pred := &scorePredictor{defaultScore: 5} // all candidates tie
	cfg := Config{ColdStartThreshold: 7, MinSupport: 2, TopN: 3, SimilarK: 5, ScoreWorkers: 2}

	engine := newTestEngine(history, cat, pred, nil, nil, cfg)

	recs, err := engine.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Eta", "Theta", "Zeta"}
	for i, title := range want {
		if recs.Books[i].Title != title {
			t.Errorf("books[%d] = %q, want %q", i, recs.Books[i].Title, title)
		}
	}
}

func TestRecommend_CapsAtTopN(t *testing.T) {
	history := historyOf("A", "B", "C", "D", "E", "F", "G")
	cat := catalogOf("A", "B", "C", "D", "E", "F", "G", "P", "Q", "R", "S", "T")
	cfg := Config{ColdStartThreshold: 7, MinSupport: 2, TopN: 2, SimilarK: 5, ScoreWorkers: 4}

	engine := newTestEngine(history, cat, &scorePredictor{defaultScore: 5}, nil, nil, cfg)

	recs, err := engine.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs.Books) != 2 {
		t.Fatalf("expected TopN cap of 2, got %d", len(recs.Books))
	}
}

func TestRecommend_EmptyCandidateSetIsEmptyResult(t *testing.T) {
	// user has rated the entire catalog
	history := historyOf("A", "B", "C", "D", "E", "F", "G")
	cat := catalogOf("A", "B", "C", "D", "E", "F", "G")
	cfg := Config{ColdStartThreshold: 7, MinSupport: 2, TopN: 5, SimilarK: 5, ScoreWorkers: 4}

	engine := newTestEngine(history, cat, &scorePredictor{defaultScore: 5}, nil, nil, cfg)

	recs, err := engine.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("ranking must be total over empty candidates: %v", err)
	}
	if len(recs.Books) != 0 {
		t.Fatalf("expected empty result, got %d", len(recs.Books))
	}
}

func TestRecommend_PropagatesHistoryError(t *testing.T) {
	broken := &fakeHistory{err: domain.ErrStorageUnavailable}
	cat := catalogOf("A")
	cfg := Config{ColdStartThreshold: 7, MinSupport: 2, TopN: 5, SimilarK: 5, ScoreWorkers: 1}

	engine := newTestEngine(broken, cat, &scorePredictor{}, nil, nil, cfg)

	_, err := engine.Recommend(context.Background(), 1)
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}

func TestPopular_UsesCache(t *testing.T) {
	cat := catalogOf("Hit")
	rows := popularRows("Hit", 9, 3)
	cache := &fakeCache{}
	cfg := Config{ColdStartThreshold: 7, MinSupport: 2, TopN: 5, SimilarK: 5, ScoreWorkers: 1}

	engine := newTestEngine(historyOf(), cat, &scorePredictor{}, rows, cache, cfg)

	ctx := context.Background()

	first, err := engine.Popular(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected miss to populate the cache, sets=%d", cache.sets)
	}

	second, err := engine.Popular(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected second call to hit the cache, sets=%d", cache.sets)
	}
	if len(first) != len(second) {
		t.Fatalf("cache changed the answer: %d vs %d", len(first), len(second))
	}
}

func TestSimilar_UnknownTitleDegradesToEmpty(t *testing.T) {
	cat := catalogOf("Alpha", "Beta")
	cfg := Config{ColdStartThreshold: 7, MinSupport: 2, TopN: 5, SimilarK: 5, ScoreWorkers: 1}

	engine := newTestEngine(historyOf(), cat, &scorePredictor{}, nil, nil, cfg)

	if got := engine.Similar("Nobody Read This", 5); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}

	got := engine.Similar("Alpha", 5)
	if len(got) != 1 || got[0].Title != "Beta" {
		t.Fatalf("expected [Beta], got %v", got)
	}
}
