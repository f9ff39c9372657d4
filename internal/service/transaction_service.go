package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bazaar/internal/models"
	"bazaar/internal/repository"

	"gorm.io/gorm"
)

// TransactionService runs the purchase-request workflow, bids and the
// notification feed. Accept and reject run inside a database transaction so
// the product state and the notification records move together.
type TransactionService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	notifRepo   repository.NotificationRepository
	bidRepo     repository.BidRepository
	notify      NotifyFunc
}

type PlaceBidInput struct {
	UserID    uint
	ProductID uint
	Amount    int
	Message   string
}

// MarkAllReadResult mirrors the mark-all response shape.
type MarkAllReadResult struct {
	Success     bool  `json:"success"`
	MarkedCount int64 `json:"marked_count"`
}

func NewTransactionService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	bidRepo repository.BidRepository,
	notify NotifyFunc,
) *TransactionService {
	return &TransactionService{
		db:          db,
		productRepo: productRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		bidRepo:     bidRepo,
		notify:      notify,
	}
}

// RequestPurchase sends a purchase request to the seller. The product moves
// to processing so other shoppers see it is spoken for, but further requests
// stay possible until the seller accepts one.
func (s *TransactionService) RequestPurchase(ctx context.Context, buyerID, productID uint, message string) (*models.Notification, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.UserID == buyerID {
		return nil, models.NewValidationError("You cannot buy your own product")
	}
	if !product.Sellable() {
		return nil, models.NewConflictError("Product is already sold")
	}

	pending, err := s.notifRepo.PendingForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, p := range pending {
		if p.BuyerID != nil && *p.BuyerID == buyerID {
			return nil, models.NewConflictError("You already have a pending request for this product")
		}
	}

	buyer, err := s.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	var request *models.Notification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := repository.NewProductRepository(tx)
		notifs := repository.NewNotificationRepository(tx)

		if err := products.UpdateFields(ctx, product.ID, map[string]interface{}{
			"status":              models.ProductStatusProcessing,
			"processing_buyer_id": buyerID,
		}); err != nil {
			return err
		}

		pid := product.ID
		bid := buyer.ID
		request = &models.Notification{
			UserID:       product.UserID,
			Type:         models.NotificationPurchaseRequest,
			ProductID:    &pid,
			ProductTitle: product.Title,
			BuyerID:      &bid,
			BuyerName:    buyer.Username,
			BuyerEmail:   buyer.Email,
			Content:      fmt.Sprintf("%s wants to buy %s", buyer.Username, product.Title),
			Message:      message,
			Status:       models.NotificationStatusPending,
		}
		return notifs.Create(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify(ctx, request)
	}
	return request, nil
}

// AcceptPurchase marks the product sold to the requesting buyer, notifies
// both parties, and rejects every other pending request on the product.
func (s *TransactionService) AcceptPurchase(ctx context.Context, sellerID, notificationID uint) (*models.Product, error) {
	request, product, buyer, err := s.loadRequest(ctx, sellerID, notificationID)
	if err != nil {
		return nil, err
	}

	seller, err := s.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	var outbound []*models.Notification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := repository.NewProductRepository(tx)
		notifs := repository.NewNotificationRepository(tx)

		now := time.Now()
		if err := products.UpdateFields(ctx, product.ID, map[string]interface{}{
			"is_sold":             true,
			"sold_to":             buyer.ID,
			"sold_at":             now,
			"status":              models.ProductStatusSold,
			"processing_buyer_id": nil,
		}); err != nil {
			return err
		}

		request.Status = models.NotificationStatusAccepted
		request.IsRead = true
		if err := notifs.Save(ctx, request); err != nil {
			return err
		}

		pid := product.ID
		sellerRef := seller.ID
		buyerRef := buyer.ID

		accepted := &models.Notification{
			UserID:       buyer.ID,
			Type:         models.NotificationPurchaseAccepted,
			ProductID:    &pid,
			ProductTitle: product.Title,
			SellerID:     &sellerRef,
			SellerName:   seller.Username,
			SellerEmail:  seller.Email,
			Content:      fmt.Sprintf("%s accepted your purchase request for %s", seller.Username, product.Title),
			Status:       models.NotificationStatusCompleted,
		}
		if err := notifs.Create(ctx, accepted); err != nil {
			return err
		}
		outbound = append(outbound, accepted)

		sold := &models.Notification{
			UserID:       seller.ID,
			Type:         models.NotificationItemSold,
			ProductID:    &pid,
			ProductTitle: product.Title,
			BuyerID:      &buyerRef,
			BuyerName:    buyer.Username,
			BuyerEmail:   buyer.Email,
			Content:      fmt.Sprintf("You sold %s to %s", product.Title, buyer.Username),
			Status:       models.NotificationStatusCompleted,
		}
		if err := notifs.Create(ctx, sold); err != nil {
			return err
		}
		outbound = append(outbound, sold)

		// Every other pending request loses, each losing buyer is told once
		others, err := notifs.PendingForProduct(ctx, product.ID)
		if err != nil {
			return err
		}
		for _, other := range others {
			if other.ID == request.ID {
				continue
			}
			other.Status = models.NotificationStatusRejected
			if err := notifs.Save(ctx, other); err != nil {
				return err
			}
			if other.BuyerID == nil {
				continue
			}
			rejected := &models.Notification{
				UserID:       *other.BuyerID,
				Type:         models.NotificationPurchaseRejected,
				ProductID:    &pid,
				ProductTitle: product.Title,
				SellerID:     &sellerRef,
				SellerName:   seller.Username,
				Content:      fmt.Sprintf("Your purchase request for %s was rejected", product.Title),
				Status:       models.NotificationStatusCompleted,
			}
			if err := notifs.Create(ctx, rejected); err != nil {
				return err
			}
			outbound = append(outbound, rejected)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		for _, n := range outbound {
			s.notify(ctx, n)
		}
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// RejectPurchase declines a single request and returns the product to the
// market. Other buyers with pending requests can still be accepted later.
func (s *TransactionService) RejectPurchase(ctx context.Context, sellerID, notificationID uint) (*models.Product, error) {
	request, product, buyer, err := s.loadRequest(ctx, sellerID, notificationID)
	if err != nil {
		return nil, err
	}

	seller, err := s.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	var rejected *models.Notification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := repository.NewProductRepository(tx)
		notifs := repository.NewNotificationRepository(tx)

		request.Status = models.NotificationStatusRejected
		request.IsRead = true
		if err := notifs.Save(ctx, request); err != nil {
			return err
		}

		if err := products.UpdateFields(ctx, product.ID, map[string]interface{}{
			"status":              models.ProductStatusAvailable,
			"processing_buyer_id": nil,
		}); err != nil {
			return err
		}

		pid := product.ID
		sellerRef := seller.ID
		rejected = &models.Notification{
			UserID:       buyer.ID,
			Type:         models.NotificationPurchaseRejected,
			ProductID:    &pid,
			ProductTitle: product.Title,
			SellerID:     &sellerRef,
			SellerName:   seller.Username,
			Content:      fmt.Sprintf("Your purchase request for %s was rejected", product.Title),
			Status:       models.NotificationStatusCompleted,
		}
		return notifs.Create(ctx, rejected)
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify(ctx, rejected)
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// loadRequest validates that the notification is a pending purchase request
// addressed to the seller and resolves the product and buyer it refers to.
func (s *TransactionService) loadRequest(ctx context.Context, sellerID, notificationID uint) (*models.Notification, *models.Product, *models.User, error) {
	request, err := s.notifRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, nil, nil, err
	}
	if request.Type != models.NotificationPurchaseRequest {
		return nil, nil, nil, models.NewValidationError("Notification is not a purchase request")
	}
	if request.UserID != sellerID {
		return nil, nil, nil, models.NewForbiddenError("You can only respond to your own purchase requests")
	}
	if request.Status != models.NotificationStatusPending {
		return nil, nil, nil, models.NewConflictError("Purchase request has already been resolved")
	}
	if request.ProductID == nil || request.BuyerID == nil {
		return nil, nil, nil, models.NewValidationError("Purchase request is missing its product or buyer")
	}

	product, err := s.productRepo.GetByID(ctx, *request.ProductID)
	if err != nil {
		return nil, nil, nil, err
	}
	if product.IsSold {
		return nil, nil, nil, models.NewConflictError("Product is already sold")
	}

	buyer, err := s.userRepo.GetByID(ctx, *request.BuyerID)
	if err != nil {
		return nil, nil, nil, err
	}
	return request, product, buyer, nil
}

func (s *TransactionService) PlaceBid(ctx context.Context, in PlaceBidInput) (*models.Bid, error) {
	if in.Amount <= 0 {
		return nil, models.NewValidationError("Bid amount must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product.UserID == in.UserID {
		return nil, models.NewValidationError("You cannot bid on your own product")
	}
	if product.IsSold {
		return nil, models.NewConflictError("Product is already sold")
	}

	bid := &models.Bid{
		ProductID: in.ProductID,
		UserID:    in.UserID,
		Amount:    in.Amount,
		Message:   in.Message,
	}
	if err := s.bidRepo.Create(ctx, bid); err != nil {
		return nil, err
	}
	return bid, nil
}

func (s *TransactionService) ListBids(ctx context.Context, productID uint) ([]*models.Bid, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.bidRepo.ListByProduct(ctx, productID)
}

// Feed merges the notifications the user received with their own pending
// purchase requests, newest first. Sent requests are tagged so the client
// can render them on the outgoing side.
func (s *TransactionService) Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	received, err := s.notifRepo.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	sent, err := s.notifRepo.ListSentPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, n := range sent {
		n.IsSentRequest = true
	}

	feed := make([]*models.Notification, 0, len(received)+len(sent))
	feed = append(feed, received...)
	feed = append(feed, sent...)
	sort.SliceStable(feed, func(i, j int) bool {
		if feed[i].CreatedAt.Equal(feed[j].CreatedAt) {
			return feed[i].ID > feed[j].ID
		}
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	return feed, nil
}

func (s *TransactionService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.notifRepo.MarkRead(ctx, userID, notificationID)
}

func (s *TransactionService) MarkAllRead(ctx context.Context, userID uint) (*MarkAllReadResult, error) {
	count, err := s.notifRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MarkAllReadResult{Success: true, MarkedCount: count}, nil
}

func (s *TransactionService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}
