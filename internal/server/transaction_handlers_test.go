package server

import (
	"fmt"
	"net/http"
	"testing"

	"bazaar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseRequestFlow(t *testing.T) {
	s, app := newTestServer(t)
	seller, sellerToken := createTestUser(t, s, "seller", "seller@example.com")
	_, buyerToken := createTestUser(t, s, "buyer", "buyer@example.com")
	product := createTestProduct(t, s, seller.ID, "Bicycle")

	requestPath := fmt.Sprintf("/api/products/%d/purchase-request", product.ID)

	t.Run("Own Product Rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, requestPath, sellerToken, map[string]any{
			"message": "me please",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	var requestID uint
	t.Run("Request Moves Product To Processing", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, requestPath, buyerToken, map[string]any{
			"message": "I want it",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		notif := decodeBody[models.Notification](t, resp)
		requestID = notif.ID
		assert.Equal(t, models.NotificationPurchaseRequest, notif.Type)
		assert.Equal(t, "buyer", notif.BuyerName)

		var fresh models.Product
		require.NoError(t, s.db.First(&fresh, product.ID).Error)
		assert.Equal(t, models.ProductStatusProcessing, fresh.Status)
	})

	t.Run("Duplicate Request Conflict", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, requestPath, buyerToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Only Seller Can Accept", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/notifications/%d/accept", requestID), buyerToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Accept Sells Product", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/notifications/%d/accept", requestID), sellerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[map[string]any](t, resp)
		productBody := body["product"].(map[string]any)
		assert.Equal(t, true, productBody["is_sold"])
		assert.Equal(t, models.ProductStatusSold, productBody["status"])

		// Buyer receives an acceptance notification.
		var accepted int64
		require.NoError(t, s.db.Model(&models.Notification{}).
			Where("type = ?", models.NotificationPurchaseAccepted).
			Count(&accepted).Error)
		assert.Equal(t, int64(1), accepted)
	})

	t.Run("Accept Twice Conflicts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/notifications/%d/accept", requestID), sellerToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestRejectPurchase(t *testing.T) {
	s, app := newTestServer(t)
	seller, sellerToken := createTestUser(t, s, "seller", "seller@example.com")
	_, buyerToken := createTestUser(t, s, "buyer", "buyer@example.com")
	product := createTestProduct(t, s, seller.ID, "Bicycle")

	resp := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/products/%d/purchase-request", product.ID), buyerToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	notif := decodeBody[models.Notification](t, resp)

	resp = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/notifications/%d/reject", notif.ID), sellerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	productBody := body["product"].(map[string]any)
	assert.Equal(t, models.ProductStatusAvailable, productBody["status"])

	// The buyer can ask again after a rejection.
	resp = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/products/%d/purchase-request", product.ID), buyerToken, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestBids(t *testing.T) {
	s, app := newTestServer(t)
	seller, _ := createTestUser(t, s, "seller", "seller@example.com")
	_, bidderToken := createTestUser(t, s, "bidder", "bidder@example.com")
	product := createTestProduct(t, s, seller.ID, "Painting")

	path := fmt.Sprintf("/api/products/%d/bids", product.ID)

	t.Run("Zero Amount Rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, path, bidderToken, map[string]any{
			"amount": 0,
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Place And List", func(t *testing.T) {
		for _, amount := range []int{50, 80} {
			resp := doJSON(t, app, http.MethodPost, path, bidderToken, map[string]any{
				"amount":  amount,
				"message": "offer",
			})
			defer func() { _ = resp.Body.Close() }()
			require.Equal(t, http.StatusCreated, resp.StatusCode)
		}

		resp := doJSON(t, app, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		bids := decodeBody[[]models.Bid](t, resp)
		require.Len(t, bids, 2)
		// Highest amount first.
		assert.Equal(t, 80, bids[0].Amount)
		assert.Equal(t, "bidder", bids[0].Username)
	})
}

func TestNotificationFeed(t *testing.T) {
	s, app := newTestServer(t)
	seller, sellerToken := createTestUser(t, s, "seller", "seller@example.com")
	_, buyerToken := createTestUser(t, s, "buyer", "buyer@example.com")
	product := createTestProduct(t, s, seller.ID, "Bicycle")

	resp := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/products/%d/purchase-request", product.ID), buyerToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = decodeBody[models.Notification](t, resp)

	t.Run("Seller Sees Received Request", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/notifications", sellerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		feed := decodeBody[[]models.Notification](t, resp)
		require.Len(t, feed, 1)
		assert.False(t, feed[0].IsSentRequest)
	})

	t.Run("Buyer Sees Own Pending Request Tagged", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/notifications", buyerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		feed := decodeBody[[]models.Notification](t, resp)
		require.Len(t, feed, 1)
		assert.True(t, feed[0].IsSentRequest)
	})

	t.Run("Unread Count And Mark All", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", sellerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		count := decodeBody[map[string]float64](t, resp)
		assert.Equal(t, float64(1), count["count"])

		resp = doJSON(t, app, http.MethodPut, "/api/notifications/read-all", sellerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result := decodeBody[map[string]any](t, resp)
		assert.Equal(t, true, result["success"])
		assert.Equal(t, float64(1), result["marked_count"])

		resp = doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", sellerToken, nil)
		count = decodeBody[map[string]float64](t, resp)
		assert.Equal(t, float64(0), count["count"])
	})

	t.Run("Mark Foreign Notification Not Found", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/notifications/999/read", buyerToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
