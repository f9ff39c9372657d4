// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"bazaar/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var categories = []string{
	"electronics", "furniture", "clothing", "books", "sports",
	"toys", "music", "art", "garden", "other",
}

var conditions = []string{
	"new", "like new", "good", "fair", "well loved",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// BuildProduct constructs a product without persisting it. Useful for batching.
func (f *Factory) BuildProduct(user *models.User, overrides ...func(*models.Product)) *models.Product {
	product := &models.Product{
		Title:         gofakeit.ProductName(),
		Description:   gofakeit.Paragraph(1, 3, 8, "\n"),
		Category:      categories[f.rng.Intn(len(categories))],
		ConditionDesc: conditions[f.rng.Intn(len(conditions))],
		Price:         gofakeit.Number(5, 2000),
		Quantity:      1,
		ImageURL:      fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		UserID:        user.ID,
		Status:        models.ProductStatusAvailable,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	product.CreatedAt = time.Now().Add(
		-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(product)
	}
	return product
}

// CreateProductsBatch persists multiple products in a single DB call.
func (f *Factory) CreateProductsBatch(products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return f.db.Create(&products).Error
}

// CreateComment persists a comment by the given user on the given product.
func (f *Factory) CreateComment(user *models.User, product *models.Product, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		ProductID: product.ID,
		UserID:    user.ID,
		Content:   gofakeit.Question(),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// CreateLike persists a like, ignoring duplicates.
func (f *Factory) CreateLike(user *models.User, product *models.Product) error {
	like := &models.Like{UserID: user.ID, ProductID: product.ID}
	err := f.db.Where("user_id = ? AND product_id = ?", user.ID, product.ID).
		FirstOrCreate(like).Error
	if err != nil {
		return fmt.Errorf("create like: %w", err)
	}
	return nil
}

// CreateBid persists an informational offer on the product.
func (f *Factory) CreateBid(user *models.User, product *models.Product) (*models.Bid, error) {
	bid := &models.Bid{
		ProductID: product.ID,
		UserID:    user.ID,
		Amount:    product.Price - gofakeit.Number(1, product.Price/2+1),
		Message:   gofakeit.Sentence(6),
	}
	if err := f.db.Create(bid).Error; err != nil {
		return nil, fmt.Errorf("create bid: %w", err)
	}
	return bid, nil
}
