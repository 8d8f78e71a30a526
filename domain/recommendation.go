package domain

// RecommendationMode says which ranking strategy produced a
// recommendation response.
type RecommendationMode string

const (
	// ModeColdStart is served to users below the rating threshold:
	// the list is the global popularity ranking, not personalized.
	ModeColdStart RecommendationMode = "cold_start"
	// ModePersonalized is served once a user has enough history for
	// model predictions to be reliable.
	ModePersonalized RecommendationMode = "personalized"
)

// RecommendedBook is a catalog book with the score that ranked it.
// For the popularity path the score is the mean static rating; for the
// personalized path it is the model's predicted rating.
type RecommendedBook struct {
	Book
	Score float64 `json:"score"`
}

// RatingProgress reports how far a cold-start user is from unlocking
// personalized recommendations.
type RatingProgress struct {
	Rated    int `json:"rated"`
	Required int `json:"required"`
}

// Recommendations is the full answer to "what should this user read".
// Progress is set only in cold-start mode.
type Recommendations struct {
	Mode     RecommendationMode `json:"mode"`
	Books    []RecommendedBook  `json:"books"`
	Progress *RatingProgress    `json:"progress,omitempty"`
}
