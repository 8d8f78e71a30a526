package recommend

import (
	"sort"

	"myBookShelf/domain"
)

// SimilarityIndex answers "which books are most similar to this one"
// from a precomputed item-item similarity matrix. Books with too little
// interaction data at index-build time have no row and degrade to an
// empty answer, never an error.
type SimilarityIndex struct {
	rowIndex  map[string]int
	rowTitles []string
	matrix    [][]float64
	// metadata from the bundle's own book table, first match per title
	meta map[string]domain.Book
}

// NewSimilarityIndex wires the bundle together. rowTitles[i] names the
// book whose similarity vector is matrix[i]; books is the bundle's book
// table, which may repeat titles (first row becomes the representative).
func NewSimilarityIndex(rowTitles []string, matrix [][]float64, books []domain.Book) *SimilarityIndex {
	rowIndex := make(map[string]int, len(rowTitles))
	for i, title := range rowTitles {
		if _, ok := rowIndex[title]; ok {
			continue
		}
		rowIndex[title] = i
	}

	meta := make(map[string]domain.Book, len(books))
	for _, b := range books {
		if _, ok := meta[b.Title]; ok {
			continue
		}
		meta[b.Title] = b
	}

	return &SimilarityIndex{
		rowIndex:  rowIndex,
		rowTitles: rowTitles,
		matrix:    matrix,
		meta:      meta,
	}
}

// Contains reports whether the title has a similarity row.
func (idx *SimilarityIndex) Contains(title string) bool {
	_, ok := idx.rowIndex[title]
	return ok
}

// SimilarBooks returns up to k books most similar to title, best
// first, ties broken on title ascending. The queried book itself is
// always excluded. An unknown title yields an empty result.
func (idx *SimilarityIndex) SimilarBooks(title string, k int) []domain.RecommendedBook {
	if k <= 0 {
		return []domain.RecommendedBook{}
	}

	row, ok := idx.rowIndex[title]
	if !ok {
		return []domain.RecommendedBook{}
	}

	scores := idx.matrix[row]
	type scored struct {
		col   int
		score float64
	}
	candidates := make([]scored, 0, len(scores))
	for col, score := range scores {
		if col == row || col >= len(idx.rowTitles) {
			continue
		}
		candidates = append(candidates, scored{col: col, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return idx.rowTitles[candidates[i].col] < idx.rowTitles[candidates[j].col]
	})

	out := make([]domain.RecommendedBook, 0, k)
	for _, c := range candidates {
		book, ok := idx.meta[idx.rowTitles[c.col]]
		if !ok {
			continue
		}
		out = append(out, domain.RecommendedBook{Book: book, Score: c.score})
		if len(out) == k {
			break
		}
	}

	return out
}
