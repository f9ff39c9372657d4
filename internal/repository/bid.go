package repository

import (
	"context"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// BidRepository defines persistence operations for bids.
type BidRepository interface {
	Create(ctx context.Context, bid *models.Bid) error
	ListByProduct(ctx context.Context, productID uint) ([]*models.Bid, error)
}

type bidRepository struct {
	db *gorm.DB
}

// NewBidRepository returns a new BidRepository implementation.
func NewBidRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) Create(ctx context.Context, bid *models.Bid) error {
	if err := r.db.WithContext(ctx).Create(bid).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bidRepository) ListByProduct(ctx context.Context, productID uint) ([]*models.Bid, error) {
	var bids []*models.Bid
	err := r.db.WithContext(ctx).
		Select("bids.*, (SELECT username FROM users WHERE users.id = bids.user_id) as username").
		Where("product_id = ?", productID).
		Order("amount DESC, created_at DESC").
		Find(&bids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return bids, nil
}
