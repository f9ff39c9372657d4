package repository

import (
	"context"

	"bazaar/internal/cache"
	"bazaar/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository covers likes, favorites and cart entries.
type EngagementRepository interface {
	Like(ctx context.Context, userID, productID uint) error
	Unlike(ctx context.Context, userID, productID uint) error
	IsLiked(ctx context.Context, userID, productID uint) (bool, error)
	CountLikes(ctx context.Context, productID uint) (int64, error)

	AddFavorite(ctx context.Context, userID, productID uint) error
	RemoveFavorite(ctx context.Context, userID, productID uint) error
	ListFavorites(ctx context.Context, userID uint) ([]models.FavoriteProduct, error)

	AddToCart(ctx context.Context, userID, productID uint) error
	RemoveFromCart(ctx context.Context, userID, productID uint) error
	ListCart(ctx context.Context, userID uint) ([]models.CartProduct, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new EngagementRepository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// productColumns is the SELECT list shared by the favorite and cart joins.
const productColumns = "products.*, " +
	"(SELECT username FROM users WHERE users.id = products.user_id) as username, " +
	"(SELECT COUNT(*) FROM likes WHERE likes.product_id = products.id) as likes_count"

func (r *engagementRepository) Like(ctx context.Context, userID, productID uint) error {
	like := models.Like{UserID: userID, ProductID: productID}
	// ON CONFLICT DO NOTHING keeps concurrent double-taps idempotent
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, productID)
	return nil
}

func (r *engagementRepository) Unlike(ctx context.Context, userID, productID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, productID)
	return nil
}

func (r *engagementRepository) IsLiked(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *engagementRepository) CountLikes(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *engagementRepository) AddFavorite(ctx context.Context, userID, productID uint) error {
	fav := models.Favorite{UserID: userID, ProductID: productID}
	// DO NOTHING leaves RowsAffected at zero when the pair already exists,
	// which surfaces the duplicate without racing a separate lookup.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError("Product is already in your favorites")
	}
	return nil
}

func (r *engagementRepository) RemoveFavorite(ctx context.Context, userID, productID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Favorite", productID)
	}
	return nil
}

func (r *engagementRepository) ListFavorites(ctx context.Context, userID uint) ([]models.FavoriteProduct, error) {
	var favorites []models.FavoriteProduct
	err := r.db.WithContext(ctx).
		Table("favorites").
		Select(productColumns+", favorites.created_at as favorited_at").
		Joins("JOIN products ON products.id = favorites.product_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC, favorites.id DESC").
		Scan(&favorites).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return favorites, nil
}

func (r *engagementRepository) AddToCart(ctx context.Context, userID, productID uint) error {
	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&item)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError("Product is already in your cart")
	}
	return nil
}

func (r *engagementRepository) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Cart item", productID)
	}
	return nil
}

func (r *engagementRepository) ListCart(ctx context.Context, userID uint) ([]models.CartProduct, error) {
	var items []models.CartProduct
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select(productColumns+", cart_items.id as cart_id, cart_items.created_at as added_at").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at DESC, cart_items.id DESC").
		Scan(&items).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}
