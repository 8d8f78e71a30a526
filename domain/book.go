package domain

// Book is one row of the frozen catalog snapshot. The title is the
// catalog's natural key; loaders deduplicate on it (first row wins)
// before the catalog is handed to any service.
type Book struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Year     int    `json:"year"`
	ImageURL string `json:"image_url"`
}
