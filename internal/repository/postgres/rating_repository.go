package postgres

import (
	"context"
	"errors"
	"fmt"

	"myBookShelf/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRepository is the live rating overlay: every rating submitted
// through the API after the historical dataset was frozen lands here.
// One row per (user_id, book_title); the unique index makes the upsert
// atomic per key under concurrent submissions.
type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{
		DB: db,
	}
}

// Upsert inserts the rating or, when the (user, title) pair already
// exists, overwrites the stored value. Last write wins.
func (r *RatingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_title"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return storageErr("failed to upsert rating", err)
	}

	return nil
}

func (r *RatingRepository) GetByUser(ctx context.Context, userID uint) ([]domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ratings []domain.Rating
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&ratings).Error
	if err != nil {
		return nil, storageErr("failed to find ratings by user", err)
	}

	return ratings, nil
}

func (r *RatingRepository) GetByUserAndBook(ctx context.Context, userID uint, bookTitle string) (*domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rating domain.Rating
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND book_title = ?", userID, bookTitle).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr("failed to find rating", err)
	}

	return &rating, nil
}

func (r *RatingRepository) CountByUser(ctx context.Context, userID uint) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.Rating{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, storageErr("failed to count ratings", err)
	}

	return int(count), nil
}

// storageErr tags repository failures with ErrStorageUnavailable so
// callers can classify without depending on gorm. No retry here; retry
// policy belongs to the caller.
func storageErr(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, domain.ErrStorageUnavailable, err)
}
