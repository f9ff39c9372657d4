package service

import (
	"context"
	"fmt"

	"bazaar/internal/models"
	"bazaar/internal/repository"
)

// NotifyFunc pushes a freshly stored notification to the recipient's live
// feed. Implementations must not block; a nil NotifyFunc disables push.
type NotifyFunc func(ctx context.Context, n *models.Notification)

// EngagementService covers likes, favorites, cart entries and comments.
type EngagementService struct {
	engagementRepo repository.EngagementRepository
	commentRepo    repository.CommentRepository
	productRepo    repository.ProductRepository
	userRepo       repository.UserRepository
	notifRepo      repository.NotificationRepository
	notify         NotifyFunc
}

type CreateCommentInput struct {
	UserID    uint
	ProductID uint
	Content   string
	ParentID  *uint
}

// LikeResult reports the like state after a toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

func NewEngagementService(
	engagementRepo repository.EngagementRepository,
	commentRepo repository.CommentRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	notify NotifyFunc,
) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		commentRepo:    commentRepo,
		productRepo:    productRepo,
		userRepo:       userRepo,
		notifRepo:      notifRepo,
		notify:         notify,
	}
}

// ToggleLike likes the product if the user has not liked it, otherwise
// removes the like. Returns the resulting state and count.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, productID uint) (*LikeResult, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	liked, err := s.engagementRepo.IsLiked(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if liked {
		err = s.engagementRepo.Unlike(ctx, userID, productID)
	} else {
		err = s.engagementRepo.Like(ctx, userID, productID)
	}
	if err != nil {
		return nil, err
	}

	count, err := s.engagementRepo.CountLikes(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: !liked, LikesCount: count}, nil
}

func (s *EngagementService) AddFavorite(ctx context.Context, userID, productID uint) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.UserID == userID {
		return models.NewValidationError("You cannot favorite your own product")
	}
	return s.engagementRepo.AddFavorite(ctx, userID, productID)
}

func (s *EngagementService) RemoveFavorite(ctx context.Context, userID, productID uint) error {
	return s.engagementRepo.RemoveFavorite(ctx, userID, productID)
}

func (s *EngagementService) ListFavorites(ctx context.Context, userID uint) ([]models.FavoriteProduct, error) {
	return s.engagementRepo.ListFavorites(ctx, userID)
}

func (s *EngagementService) AddToCart(ctx context.Context, userID, productID uint) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.UserID == userID {
		return models.NewValidationError("You cannot add your own product to the cart")
	}
	if product.IsSold {
		return models.NewConflictError("Product is already sold")
	}
	return s.engagementRepo.AddToCart(ctx, userID, productID)
}

func (s *EngagementService) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	return s.engagementRepo.RemoveFromCart(ctx, userID, productID)
}

func (s *EngagementService) ListCart(ctx context.Context, userID uint) ([]models.CartProduct, error) {
	return s.engagementRepo.ListCart(ctx, userID)
}

const maxCommentLen = 10000

// CreateComment stores a comment or reply and notifies the interested party:
// the parent comment's author for replies, the product owner otherwise.
// Nobody is notified about their own activity.
func (s *EngagementService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	var parent *models.Comment
	if in.ParentID != nil {
		parent, err = s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ProductID != in.ProductID {
			return nil, models.NewValidationError("Parent comment belongs to a different product")
		}
	}

	comment := &models.Comment{
		ProductID: in.ProductID,
		UserID:    in.UserID,
		Content:   in.Content,
		ParentID:  in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if parent != nil {
		if parent.UserID != in.UserID {
			s.publishCommentNotification(ctx, parent.UserID, models.NotificationCommentReply, author, product, comment,
				fmt.Sprintf("%s replied to your comment on %s", author.Username, product.Title))
		}
	} else if product.UserID != in.UserID {
		s.publishCommentNotification(ctx, product.UserID, models.NotificationComment, author, product, comment,
			fmt.Sprintf("%s commented on your product %s", author.Username, product.Title))
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *EngagementService) publishCommentNotification(ctx context.Context, recipientID uint, notifType string, author *models.User, product *models.Product, comment *models.Comment, content string) {
	pid := product.ID
	cid := comment.ID
	sid := author.ID
	n := &models.Notification{
		UserID:          recipientID,
		Type:            notifType,
		ProductID:       &pid,
		ProductTitle:    product.Title,
		CommentID:       &cid,
		ParentCommentID: comment.ParentID,
		SenderID:        &sid,
		SenderName:      author.Username,
		Content:         content,
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return
	}
	if s.notify != nil {
		s.notify(ctx, n)
	}
}

func (s *EngagementService) ListComments(ctx context.Context, productID uint) ([]*models.Comment, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByProduct(ctx, productID)
}
