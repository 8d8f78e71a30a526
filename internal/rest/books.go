package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"myBookShelf/domain"
	"myBookShelf/pkg/logger"
	"myBookShelf/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type CatalogService interface {
	GetByTitle(title string) (domain.Book, bool)
	Search(query string) []domain.Book
}

type EffectiveRatingService interface {
	EffectiveRating(ctx context.Context, userID uint, title string) (int, bool, error)
}

type BookHandler struct {
	catalogService   CatalogService
	recommendService RecommendService
	ratingService    EffectiveRatingService
	timeout          time.Duration
}

func NewBookHandler(catalogService CatalogService, recommendService RecommendService, ratingService EffectiveRatingService) *BookHandler {
	return &BookHandler{
		catalogService:   catalogService,
		recommendService: recommendService,
		ratingService:    ratingService,
		timeout:          10 * time.Second,
	}
}

// GetBookByTitle serves the book detail view: metadata, the similar
// books shelf, and (when user_id is given) the caller's own effective
// rating.
func (h *BookHandler) GetBookByTitle(c echo.Context) error {
	title, err := url.PathUnescape(c.Param("title"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid title"})
	}

	book, ok := h.catalogService.GetByTitle(title)
	if !ok {
		return c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrBookNotFound.Error()})
	}

	response := map[string]interface{}{
		"message": "successfully find book by title",
		"book":    book,
		"similar": h.recommendService.Similar(title, 0),
	}

	if raw := c.QueryParam("user_id"); raw != "" {
		userID, err := parseUserID(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user_id"})
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		defer cancel()

		value, rated, err := h.ratingService.EffectiveRating(ctx, userID, title)
		if err != nil {
			logger.Error("Failed to resolve user rating", err, "user_id", userID, "book_title", title)
			return c.JSON(httpStatusFor(err), ResponseError{Message: err.Error()})
		}
		if rated {
			response["user_rating"] = value
		}
	}

	return c.JSON(http.StatusOK, response)
}

// GetSimilarBooks answers the similar-items lookup. An empty list is a
// normal answer for titles outside the similarity matrix.
func (h *BookHandler) GetSimilarBooks(c echo.Context) error {
	title, err := url.PathUnescape(c.Param("title"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid title"})
	}

	k := 0
	if raw := c.QueryParam("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid n"})
		}
		k = parsed
	}

	metrics.SimilarLookups.Inc()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get similar books",
		"books":   h.recommendService.Similar(title, k),
	})
}

func (h *BookHandler) SearchBooks(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing query"})
	}

	results := h.catalogService.Search(query)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully search books",
		"query":   query,
		"books":   results,
	})
}
