package recommend

import (
	"sort"

	"myBookShelf/domain"
)

// BookResolver looks up catalog metadata for a title.
type BookResolver interface {
	GetByTitle(title string) (domain.Book, bool)
}

type bookStat struct {
	title string
	count int
	mean  float64
}

// PopularityRanker ranks books by their mean rating in the frozen
// historical dataset. Live overlay ratings are deliberately ignored:
// this is the stable global signal served to cold-start users.
type PopularityRanker struct {
	// stats sorted by mean descending, title ascending
	stats []bookStat
	books BookResolver
}

// NewPopularityRanker aggregates the static ratings into per-title
// (count, mean) once; queries only filter and slice.
func NewPopularityRanker(rows []domain.StaticRating, books BookResolver) *PopularityRanker {
	type agg struct {
		count int
		sum   int
	}
	byTitle := make(map[string]*agg)
	for _, r := range rows {
		a, ok := byTitle[r.BookTitle]
		if !ok {
			a = &agg{}
			byTitle[r.BookTitle] = a
		}
		a.count++
		a.sum += r.Value
	}

	stats := make([]bookStat, 0, len(byTitle))
	for title, a := range byTitle {
		stats = append(stats, bookStat{
			title: title,
			count: a.count,
			mean:  float64(a.sum) / float64(a.count),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].mean != stats[j].mean {
			return stats[i].mean > stats[j].mean
		}
		return stats[i].title < stats[j].title
	})

	return &PopularityRanker{stats: stats, books: books}
}

// TopPopular returns up to n books rated by at least minSupport users,
// best mean first. Ties break on title ascending. Titles without
// catalog metadata are skipped.
func (r *PopularityRanker) TopPopular(n, minSupport int) []domain.RecommendedBook {
	if n <= 0 {
		return []domain.RecommendedBook{}
	}

	out := make([]domain.RecommendedBook, 0, n)
	for _, s := range r.stats {
		if s.count < minSupport {
			continue
		}
		book, ok := r.books.GetByTitle(s.title)
		if !ok {
			continue
		}
		out = append(out, domain.RecommendedBook{Book: book, Score: s.mean})
		if len(out) == n {
			break
		}
	}

	return out
}
