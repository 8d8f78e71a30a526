package catalog

import (
	"sort"
	"strings"

	"myBookShelf/domain"
)

// Service is the in-memory view of the frozen book catalog. Built once
// at startup from the snapshot artifact and shared read-only by every
// request.
type Service struct {
	byTitle map[string]domain.Book
	titles  []string
}

// NewService indexes the deduplicated book table. Titles keep a stable
// sorted order so candidate enumeration is deterministic.
func NewService(books []domain.Book) *Service {
	byTitle := make(map[string]domain.Book, len(books))
	titles := make([]string, 0, len(books))

	for _, b := range books {
		if _, ok := byTitle[b.Title]; ok {
			continue
		}
		byTitle[b.Title] = b
		titles = append(titles, b.Title)
	}
	sort.Strings(titles)

	return &Service{
		byTitle: byTitle,
		titles:  titles,
	}
}

func (s *Service) Size() int {
	return len(s.titles)
}

// Titles returns every distinct title in the catalog. Callers must not
// mutate the returned slice.
func (s *Service) Titles() []string {
	return s.titles
}

func (s *Service) GetByTitle(title string) (domain.Book, bool) {
	b, ok := s.byTitle[title]
	return b, ok
}

// Search does a case-insensitive substring match over titles and
// returns matches in title order.
func (s *Service) Search(query string) []domain.Book {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []domain.Book
	for _, title := range s.titles {
		if strings.Contains(strings.ToLower(title), query) {
			results = append(results, s.byTitle[title])
		}
	}

	return results
}
