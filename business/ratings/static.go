package ratings

import "myBookShelf/domain"

// StaticSet is the frozen historical rating dataset indexed by user.
// Built once at startup, never mutated afterwards.
type StaticSet struct {
	byUser map[uint]map[string]int
}

func NewStaticSet(rows []domain.StaticRating) *StaticSet {
	byUser := make(map[uint]map[string]int)
	for _, r := range rows {
		userRatings, ok := byUser[r.UserID]
		if !ok {
			userRatings = make(map[string]int)
			byUser[r.UserID] = userRatings
		}
		// the snapshot may carry duplicate rows; first one wins
		if _, ok := userRatings[r.BookTitle]; ok {
			continue
		}
		userRatings[r.BookTitle] = r.Value
	}

	return &StaticSet{byUser: byUser}
}

// ByUser returns the user's static ratings keyed by title. Callers
// must not mutate the returned map.
func (s *StaticSet) ByUser(userID uint) map[string]int {
	return s.byUser[userID]
}

func (s *StaticSet) Get(userID uint, title string) (int, bool) {
	v, ok := s.byUser[userID][title]
	return v, ok
}

func (s *StaticSet) CountByUser(userID uint) int {
	return len(s.byUser[userID])
}
