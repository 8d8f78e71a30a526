package snapshot

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// writeArtifact builds a throwaway artifact file for the loader tests.
func writeArtifact(t *testing.T, name string, stmts ...func(*sql.DB) error) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	defer db.Close()

	for _, stmt := range stmts {
		if err := stmt(db); err != nil {
			t.Fatalf("build artifact: %v", err)
		}
	}
	return path
}

func exec(query string, args ...any) func(*sql.DB) error {
	return func(db *sql.DB) error {
		_, err := db.Exec(query, args...)
		return err
	}
}

func catalogSchema() []func(*sql.DB) error {
	return []func(*sql.DB) error{
		exec(`CREATE TABLE books (title TEXT, author TEXT, year INTEGER, image_url TEXT)`),
		exec(`CREATE TABLE ratings (user_id INTEGER, book_title TEXT, rating INTEGER)`),
	}
}

func TestLoadCatalog(t *testing.T) {
	stmts := catalogSchema()
	stmts = append(stmts,
		exec(`INSERT INTO books VALUES ('Dune', 'Frank Herbert', 1965, 'http://img.example/dune.jpg')`),
		exec(`INSERT INTO books VALUES ('Shared Name', 'First Author', 1990, '')`),
		exec(`INSERT INTO books VALUES ('Shared Name', 'Second Author', 1991, '')`),
		exec(`INSERT INTO ratings VALUES (1, 'Dune', 9)`),
		exec(`INSERT INTO ratings VALUES (2, 'Dune', 7)`),
	)
	path := writeArtifact(t, "catalog.db", stmts...)

	cat, err := LoadCatalog(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cat.Books) != 2 {
		t.Fatalf("expected duplicate title collapsed to 2 books, got %d", len(cat.Books))
	}
	for _, b := range cat.Books {
		if b.Title == "Shared Name" && b.Author != "First Author" {
			t.Fatalf("expected first row to win, got author %q", b.Author)
		}
		if b.Title == "Dune" && b.ImageURL != "https://img.example/dune.jpg" {
			t.Fatalf("expected https image URL, got %q", b.ImageURL)
		}
	}

	if len(cat.Ratings) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(cat.Ratings))
	}
	if cat.Ratings[0].BookTitle != "Dune" || cat.Ratings[0].Value != 9 {
		t.Fatalf("unexpected first rating: %+v", cat.Ratings[0])
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.db")
	if _, err := LoadCatalog(context.Background(), path); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

func TestLoadFactorModel(t *testing.T) {
	path := writeArtifact(t, "model.db",
		exec(`CREATE TABLE model_meta (key TEXT PRIMARY KEY, value REAL)`),
		exec(`CREATE TABLE user_factors (user_id INTEGER, bias REAL, vector BLOB)`),
		exec(`CREATE TABLE item_factors (book_title TEXT, bias REAL, vector BLOB)`),
		exec(`INSERT INTO model_meta VALUES ('global_mean', 5.5)`),
		exec(`INSERT INTO user_factors VALUES (7, 0.25, ?)`, encodeVector([]float64{1, 2})),
		exec(`INSERT INTO item_factors VALUES ('Dune', -0.5, ?)`, encodeVector([]float64{0.5, 0.25})),
	)

	data, err := LoadFactorModel(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.GlobalMean != 5.5 {
		t.Fatalf("expected global mean 5.5, got %v", data.GlobalMean)
	}
	if data.UserBiases[7] != 0.25 {
		t.Fatalf("unexpected user bias: %v", data.UserBiases[7])
	}
	if vec := data.UserFactors[7]; len(vec) != 2 || vec[0] != 1 || vec[1] != 2 {
		t.Fatalf("unexpected user vector: %v", vec)
	}
	if data.ItemBiases["Dune"] != -0.5 {
		t.Fatalf("unexpected item bias: %v", data.ItemBiases["Dune"])
	}
	if vec := data.ItemFactors["Dune"]; len(vec) != 2 || vec[1] != 0.25 {
		t.Fatalf("unexpected item vector: %v", vec)
	}
}

func similaritySchema() []func(*sql.DB) error {
	return []func(*sql.DB) error{
		exec(`CREATE TABLE sim_index (row_idx INTEGER, book_title TEXT)`),
		exec(`CREATE TABLE sim_rows (row_idx INTEGER, vector BLOB)`),
		exec(`CREATE TABLE sim_books (title TEXT, author TEXT, year INTEGER, image_url TEXT)`),
	}
}

func TestLoadSimilarity(t *testing.T) {
	stmts := similaritySchema()
	stmts = append(stmts,
		// inserted out of order; the loader must sort on row_idx
		exec(`INSERT INTO sim_index VALUES (1, 'Beta')`),
		exec(`INSERT INTO sim_index VALUES (0, 'Alpha')`),
		exec(`INSERT INTO sim_rows VALUES (1, ?)`, encodeVector([]float64{0.7, 1.0})),
		exec(`INSERT INTO sim_rows VALUES (0, ?)`, encodeVector([]float64{1.0, 0.7})),
		exec(`INSERT INTO sim_books VALUES ('Alpha', 'A. Author', 2000, '')`),
		exec(`INSERT INTO sim_books VALUES ('Beta', 'B. Author', 2001, '')`),
	)
	path := writeArtifact(t, "similarity.db", stmts...)

	bundle, err := LoadSimilarity(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bundle.RowTitles) != 2 || bundle.RowTitles[0] != "Alpha" || bundle.RowTitles[1] != "Beta" {
		t.Fatalf("unexpected row titles: %v", bundle.RowTitles)
	}
	if bundle.Matrix[0][1] != 0.7 || bundle.Matrix[1][0] != 0.7 {
		t.Fatalf("unexpected matrix: %v", bundle.Matrix)
	}
	if len(bundle.Books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(bundle.Books))
	}
}

func TestLoadSimilarity_IndexGap(t *testing.T) {
	stmts := similaritySchema()
	stmts = append(stmts,
		exec(`INSERT INTO sim_index VALUES (0, 'Alpha')`),
		exec(`INSERT INTO sim_index VALUES (2, 'Gamma')`), // 1 is missing
	)
	path := writeArtifact(t, "similarity.db", stmts...)

	if _, err := LoadSimilarity(context.Background(), path); err == nil {
		t.Fatal("expected error for gapped index")
	}
}

func TestLoadSimilarity_RowCountMismatch(t *testing.T) {
	stmts := similaritySchema()
	stmts = append(stmts,
		exec(`INSERT INTO sim_index VALUES (0, 'Alpha')`),
		exec(`INSERT INTO sim_index VALUES (1, 'Beta')`),
		exec(`INSERT INTO sim_rows VALUES (0, ?)`, encodeVector([]float64{1.0, 0.7})),
	)
	path := writeArtifact(t, "similarity.db", stmts...)

	if _, err := LoadSimilarity(context.Background(), path); err == nil {
		t.Fatal("expected error for row count mismatch")
	}
}
