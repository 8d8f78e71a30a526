package snapshot

import (
	"context"
	"fmt"

	"myBookShelf/domain"
)

// SimilarityBundle is the precomputed item-item similarity artifact:
// a square matrix indexed positionally, the title of each row, and the
// book table the matrix was built from. That book table comes from its
// own deduplication pass and is reconciled with the main catalog by
// title only.
type SimilarityBundle struct {
	RowTitles []string
	Matrix    [][]float64
	Books     []domain.Book
}

// LoadSimilarity reads the similarity artifact. Rows are returned in
// row-index order so Matrix[i] is the similarity vector of
// RowTitles[i].
func LoadSimilarity(ctx context.Context, path string) (*SimilarityBundle, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	idx, err := db.QueryContext(ctx,
		`SELECT row_idx, book_title FROM sim_index ORDER BY row_idx`)
	if err != nil {
		return nil, fmt.Errorf("load similarity index: %w", err)
	}
	defer idx.Close()

	var titles []string
	for idx.Next() {
		var rowIdx int
		var title string
		if err := idx.Scan(&rowIdx, &title); err != nil {
			return nil, fmt.Errorf("scan similarity index: %w", err)
		}
		if rowIdx != len(titles) {
			return nil, fmt.Errorf("similarity index has a gap at row %d", rowIdx)
		}
		titles = append(titles, title)
	}
	if err := idx.Err(); err != nil {
		return nil, fmt.Errorf("load similarity index: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT row_idx, vector FROM sim_rows ORDER BY row_idx`)
	if err != nil {
		return nil, fmt.Errorf("load similarity rows: %w", err)
	}
	defer rows.Close()

	matrix := make([][]float64, 0, len(titles))
	for rows.Next() {
		var rowIdx int
		var blob []byte
		if err := rows.Scan(&rowIdx, &blob); err != nil {
			return nil, fmt.Errorf("scan similarity row: %w", err)
		}
		matrix = append(matrix, decodeVector(blob))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load similarity rows: %w", err)
	}

	if len(matrix) != len(titles) {
		return nil, fmt.Errorf("similarity bundle mismatch: %d rows for %d titles",
			len(matrix), len(titles))
	}

	books, err := loadBooks(ctx, db, "sim_books")
	if err != nil {
		return nil, fmt.Errorf("load similarity books: %w", err)
	}

	return &SimilarityBundle{RowTitles: titles, Matrix: matrix, Books: books}, nil
}
