// Package snapshot reads the offline artifacts the training pipeline
// leaves behind: the catalog snapshot, the trained factor model and the
// similarity bundle. Each is a standalone SQLite file, opened
// read-only, fully loaded into memory at startup and never written by
// this process.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"myBookShelf/domain"

	_ "modernc.org/sqlite"
)

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	return db, nil
}

// Catalog is the content of the frozen catalog snapshot.
type Catalog struct {
	Books   []domain.Book
	Ratings []domain.StaticRating
}

// LoadCatalog reads the books and historical ratings tables. Books are
// deduplicated on title (first row wins) and image URLs are upgraded to
// https, mirroring what the offline pipeline publishes.
func LoadCatalog(ctx context.Context, path string) (*Catalog, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	books, err := loadBooks(ctx, db, "books")
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT user_id, book_title, rating FROM ratings`)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	defer rows.Close()

	var ratings []domain.StaticRating
	for rows.Next() {
		var r domain.StaticRating
		if err := rows.Scan(&r.UserID, &r.BookTitle, &r.Value); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	return &Catalog{Books: books, Ratings: ratings}, nil
}

func loadBooks(ctx context.Context, db *sql.DB, table string) ([]domain.Book, error) {
	rows, err := db.QueryContext(ctx,
		fmt.Sprintf(`SELECT title, author, year, image_url FROM %s`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	seen := make(map[string]struct{})
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.Title, &b.Author, &b.Year, &b.ImageURL); err != nil {
			return nil, err
		}
		// duplicate titles exist in the source catalog; keep the
		// first row as the representative
		if _, ok := seen[b.Title]; ok {
			continue
		}
		seen[b.Title] = struct{}{}
		b.ImageURL = secureURL(b.ImageURL)
		books = append(books, b)
	}
	return books, rows.Err()
}

func secureURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
