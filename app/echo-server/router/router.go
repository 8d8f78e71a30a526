package router

import (
	"myBookShelf/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendHandler) {
	reco := api.Group("/recommendations")
	reco.GET("", handler.GetRecommendations)
}

func SetupBookRoutes(api *echo.Group, bookHandler *rest.BookHandler, recommendHandler *rest.RecommendHandler) {
	books := api.Group("/books")

	books.GET("/popular", recommendHandler.GetPopularBooks)
	books.GET("/search", bookHandler.SearchBooks)
	books.GET("/:title", bookHandler.GetBookByTitle)
	books.GET("/:title/similar", bookHandler.GetSimilarBooks)
}

func SetupRatingRoutes(api *echo.Group, handler *rest.RatingHandler) {
	ratings := api.Group("/ratings")

	ratings.POST("", handler.SubmitRating)
	ratings.GET("", handler.GetMyRatings)
}
