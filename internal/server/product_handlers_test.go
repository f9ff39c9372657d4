package server

import (
	"fmt"
	"net/http"
	"testing"

	"bazaar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createTestUser(t, s, "seller", "seller@example.com")

	t.Run("Success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/products", token, map[string]any{
			"title":       "Vintage Lamp",
			"description": "Still works",
			"category":    "furniture",
			"condition":   "used",
			"price":       45,
			"quantity":    1,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		product := decodeBody[models.Product](t, resp)
		assert.Equal(t, "Vintage Lamp", product.Title)
		assert.Equal(t, models.ProductStatusAvailable, product.Status)
		assert.Equal(t, "seller", product.Username)
	})

	t.Run("Missing Title", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/products", token, map[string]any{
			"description": "no title",
			"category":    "misc",
			"condition":   "used",
			"price":       5,
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Requires Auth", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/products", "", map[string]any{
			"title": "X",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetProducts_Filters(t *testing.T) {
	s, app := newTestServer(t)
	seller, _ := createTestUser(t, s, "seller", "seller@example.com")

	lamp := createTestProduct(t, s, seller.ID, "Vintage Lamp")
	lamp.Category = "furniture"
	require.NoError(t, s.db.Save(lamp).Error)
	createTestProduct(t, s, seller.ID, "Game Console")

	t.Run("All", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/products", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		products := decodeBody[[]models.Product](t, resp)
		assert.Len(t, products, 2)
	})

	t.Run("By Category", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/products?category=furniture", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		products := decodeBody[[]models.Product](t, resp)
		require.Len(t, products, 1)
		assert.Equal(t, "Vintage Lamp", products[0].Title)
	})

	t.Run("By Search", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/products?search=console", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		products := decodeBody[[]models.Product](t, resp)
		require.Len(t, products, 1)
		assert.Equal(t, "Game Console", products[0].Title)
	})
}

func TestGetProduct_NotFound(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/products/999", "", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProduct(t *testing.T) {
	s, app := newTestServer(t)
	seller, sellerToken := createTestUser(t, s, "seller", "seller@example.com")
	_, otherToken := createTestUser(t, s, "other", "other@example.com")
	product := createTestProduct(t, s, seller.ID, "Old Title")

	path := fmt.Sprintf("/api/products/%d", product.ID)

	t.Run("Owner Can Update", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, path, sellerToken, map[string]any{
			"title": "New Title",
			"price": 150,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		updated := decodeBody[models.Product](t, resp)
		assert.Equal(t, "New Title", updated.Title)
		assert.Equal(t, 150, updated.Price)
		// Untouched fields stay.
		assert.Equal(t, "electronics", updated.Category)
	})

	t.Run("Update Records History", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, path+"/history", sellerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		records := decodeBody[[]models.EditRecord](t, resp)
		assert.Len(t, records, 1)
	})

	t.Run("History Hidden From Non-Owner", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, path+"/history", otherToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Non-Owner Forbidden", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, path, otherToken, map[string]any{
			"title": "Hijacked",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestDeleteProduct(t *testing.T) {
	s, app := newTestServer(t)
	seller, sellerToken := createTestUser(t, s, "seller", "seller@example.com")
	_, otherToken := createTestUser(t, s, "other", "other@example.com")
	product := createTestProduct(t, s, seller.ID, "Doomed")

	path := fmt.Sprintf("/api/products/%d", product.ID)

	t.Run("Non-Owner Forbidden", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, path, otherToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Owner Can Delete", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, path, sellerToken, nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, path, "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetUserProducts(t *testing.T) {
	s, app := newTestServer(t)
	seller, _ := createTestUser(t, s, "seller", "seller@example.com")
	createTestProduct(t, s, seller.ID, "One")
	createTestProduct(t, s, seller.ID, "Two")

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/products/user/%d", seller.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	products := decodeBody[[]models.Product](t, resp)
	assert.Len(t, products, 2)

	resp = doJSON(t, app, http.MethodGet, "/api/products/user/999", "", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
