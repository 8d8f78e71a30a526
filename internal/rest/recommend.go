package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"myBookShelf/domain"
	"myBookShelf/pkg/logger"
	"myBookShelf/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type RecommendService interface {
	Recommend(ctx context.Context, userID uint) (*domain.Recommendations, error)
	Popular(ctx context.Context, n int) ([]domain.RecommendedBook, error)
	Similar(title string, k int) []domain.RecommendedBook
}

type RecommendHandler struct {
	recommendService RecommendService
	timeout          time.Duration
}

func NewRecommendHandler(recommendService RecommendService) *RecommendHandler {
	return &RecommendHandler{
		recommendService: recommendService,
		timeout:          10 * time.Second,
	}
}

func (h *RecommendHandler) GetRecommendations(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	}()

	userID, err := parseUserID(c.QueryParam("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, err := h.recommendService.Recommend(ctx, userID)
	if err != nil {
		logger.Error("Failed to build recommendations", err, "user_id", userID)
		return c.JSON(httpStatusFor(err), ResponseError{Message: err.Error()})
	}

	metrics.RecommendServed.WithLabelValues(string(recs.Mode)).Inc()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":         "successfully get recommendations",
		"recommendations": recs,
	})
}

func (h *RecommendHandler) GetPopularBooks(c echo.Context) error {
	n := 0
	if raw := c.QueryParam("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid n"})
		}
		n = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	books, err := h.recommendService.Popular(ctx, n)
	if err != nil {
		logger.Error("Failed to get popular books", err)
		return c.JSON(httpStatusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get popular books",
		"books":   books,
	})
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
