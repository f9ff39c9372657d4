package seed

import (
	"fmt"
	"log"
	"math/rand"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumProducts int
	ShouldClean bool
	SkipBcrypt  bool
	MaxDays     int
}

// Seeder populates the database with demo marketplace data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder bound to the given DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes all seeded data. Order respects foreign key references.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []any{
		&models.EditRecord{},
		&models.Message{},
		&models.Conversation{},
		&models.Notification{},
		&models.Bid{},
		&models.CartItem{},
		&models.Favorite{},
		&models.Like{},
		&models.Comment{},
		&models.Product{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	return nil
}

// Seed populates users, listings, comments, likes, and bids.
func (s *Seeder) Seed(opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 50
	}
	if opts.NumProducts <= 0 {
		opts.NumProducts = 200
	}

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	f := NewFactory(s.db, opts)

	log.Printf("Creating %d users...", opts.NumUsers)
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}

	log.Printf("Creating %d products...", opts.NumProducts)
	products := make([]*models.Product, 0, opts.NumProducts)
	for i := 0; i < opts.NumProducts; i++ {
		owner := users[rand.Intn(len(users))]
		products = append(products, f.BuildProduct(owner))
	}
	if err := f.CreateProductsBatch(products); err != nil {
		return fmt.Errorf("create products: %w", err)
	}

	log.Println("Creating engagement (comments, likes, bids)...")
	for _, product := range products {
		// A question or two on roughly half the listings.
		if rand.Intn(2) == 0 {
			commenter := users[rand.Intn(len(users))]
			if commenter.ID == product.UserID {
				continue
			}
			comment, err := f.CreateComment(commenter, product, nil)
			if err != nil {
				return err
			}
			if rand.Intn(3) == 0 {
				replier := users[rand.Intn(len(users))]
				if _, err := f.CreateComment(replier, product, comment); err != nil {
					return err
				}
			}
		}

		for i := rand.Intn(5); i > 0; i-- {
			liker := users[rand.Intn(len(users))]
			if liker.ID == product.UserID {
				continue
			}
			if err := f.CreateLike(liker, product); err != nil {
				return err
			}
		}

		if product.Price > 10 && rand.Intn(4) == 0 {
			bidder := users[rand.Intn(len(users))]
			if bidder.ID != product.UserID {
				if _, err := f.CreateBid(bidder, product); err != nil {
					return err
				}
			}
		}
	}

	log.Printf("Seeding complete: %d users, %d products", len(users), len(products))
	return nil
}
