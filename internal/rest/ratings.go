package rest

import (
	"context"
	"net/http"
	"time"

	"myBookShelf/domain"
	"myBookShelf/pkg/logger"
	"myBookShelf/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type RatingService interface {
	Record(ctx context.Context, userID uint, title string, value int) error
	ListEffective(ctx context.Context, userID uint) ([]domain.RatedBook, error)
}

type RatingHandler struct {
	ratingService RatingService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewRatingHandler(ratingService RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type SubmitRatingRequest struct {
	UserID    uint   `json:"user_id" validate:"required"`
	BookTitle string `json:"book_title" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=10"`
}

// SubmitRating upserts one live rating. Submitting the same
// (user, book) again overwrites the previous value.
func (h *RatingHandler) SubmitRating(c echo.Context) error {
	var req SubmitRatingRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind rating request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate rating request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ratingService.Record(ctx, req.UserID, req.BookTitle, req.Rating); err != nil {
		logger.Error("Failed to record rating", err, "user_id", req.UserID, "book_title", req.BookTitle)
		return c.JSON(httpStatusFor(err), ResponseError{Message: err.Error()})
	}

	metrics.RatingsSubmitted.Inc()

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(map[string]interface{}{
		"user_id":    req.UserID,
		"book_title": req.BookTitle,
		"rating":     req.Rating,
	}))
}

// GetMyRatings lists the user's merged rating history, live overlay
// winning over the historical dataset.
func (h *RatingHandler) GetMyRatings(c echo.Context) error {
	userID, err := parseUserID(c.QueryParam("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rated, err := h.ratingService.ListEffective(ctx, userID)
	if err != nil {
		logger.Error("Failed to list ratings", err, "user_id", userID)
		return c.JSON(httpStatusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rated))
}
