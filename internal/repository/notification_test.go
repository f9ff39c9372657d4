package repository

import (
	"context"
	"testing"

	"bazaar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_FeedAndSentPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	seller := createTestUser(t, db, "seller", "seller@example.com")
	buyer := createTestUser(t, db, "buyer", "buyer@example.com")
	product := createTestProduct(t, db, seller.ID, "camera")

	pid := product.ID
	bid := buyer.ID
	request := &models.Notification{
		UserID:    seller.ID,
		Type:      models.NotificationPurchaseRequest,
		ProductID: &pid,
		BuyerID:   &bid,
		BuyerName: "buyer",
		Content:   "buyer wants to buy camera",
		Status:    models.NotificationStatusPending,
	}
	require.NoError(t, repo.Create(ctx, request))

	feed, err := repo.ListForUser(ctx, seller.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, models.NotificationPurchaseRequest, feed[0].Type)

	// Buyer's feed is empty, but the pending request shows up as sent
	feed, err = repo.ListForUser(ctx, buyer.ID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)

	sent, err := repo.ListSentPending(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, request.ID, sent[0].ID)

	// Resolved requests drop out of the sent list
	request.Status = models.NotificationStatusAccepted
	require.NoError(t, repo.Save(ctx, request))
	sent, err = repo.ListSentPending(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestNotificationRepository_PendingForProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	seller := createTestUser(t, db, "seller", "seller@example.com")
	product := createTestProduct(t, db, seller.ID, "camera")
	pid := product.ID

	for _, name := range []string{"first", "second"} {
		u := createTestUser(t, db, name, name+"@example.com")
		uid := u.ID
		require.NoError(t, repo.Create(ctx, &models.Notification{
			UserID:    seller.ID,
			Type:      models.NotificationPurchaseRequest,
			ProductID: &pid,
			BuyerID:   &uid,
			Content:   name + " wants to buy camera",
			Status:    models.NotificationStatusPending,
		}))
	}

	pending, err := repo.PendingForProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice", "alice@example.com")
	other := createTestUser(t, db, "bob", "bob@example.com")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{
			UserID: user.ID, Type: models.NotificationComment, Content: "c",
		}))
	}

	unread, err := repo.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	feed, err := repo.ListForUser(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.NoError(t, repo.MarkRead(ctx, user.ID, feed[0].ID))

	// Another user cannot mark someone else's notification
	err = repo.MarkRead(ctx, other.ID, feed[1].ID)
	assert.Error(t, err)

	marked, err := repo.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, marked)

	unread, err = repo.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
