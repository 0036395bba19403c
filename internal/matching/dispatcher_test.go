package matching

import (
	"context"
	"testing"

	"github.com/halkompleksi/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_FulfillmentIsOneShot(t *testing.T) {
	requests := newFakeRequestStore()
	notifications := newFakeNotificationStore()
	engine := NewEngine(requests)
	dispatcher := NewDispatcher(requests, notifications)
	ctx := context.Background()

	addRequest(t, requests, 7, "meyve", []string{"elma"}, "Bursa")

	product := newTestProduct("meyve", "Kırmızı Elma", "taze", "Bursa")

	notified, err := dispatcher.NotifyMatchingBuyers(ctx, engine, product)
	require.NoError(t, err)
	assert.Equal(t, 1, notified)

	// Exactly one notification for the owner, referencing the product.
	got := notifications.forUser(7)
	require.Len(t, got, 1)
	assert.Equal(t, models.NotificationProductAvailable, got[0].Type)
	assert.Equal(t, product.ID, got[0].ProductID)
	assert.Equal(t, "elma", got[0].Data.SearchQuery)
	assert.Equal(t, "meyve", got[0].Data.Category)

	// The request is consumed; the active set is empty.
	active, err := requests.GetActiveByUser(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, active)

	// Dispatching the same product again produces nothing.
	notified, err = dispatcher.NotifyMatchingBuyers(ctx, engine, product)
	require.NoError(t, err)
	assert.Zero(t, notified)
	assert.Len(t, notifications.forUser(7), 1)
}

func TestDispatcher_ConcurrentDispatchNotifiesOnce(t *testing.T) {
	requests := newFakeRequestStore()
	notifications := newFakeNotificationStore()
	engine := NewEngine(requests)
	dispatcher := NewDispatcher(requests, notifications)
	ctx := context.Background()

	addRequest(t, requests, 7, "meyve", nil, "")

	product := newTestProduct("meyve", "Elma", "taze", "Bursa")

	// Two dispatchers race on the same match set. The conditional delete
	// lets only one of them create the notification.
	matches, err := engine.FindMatches(ctx, product)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	first, err := dispatcher.Dispatch(ctx, product, matches)
	require.NoError(t, err)
	second, err := dispatcher.Dispatch(ctx, product, matches)
	require.NoError(t, err)

	assert.Equal(t, 1, first+second)
	assert.Len(t, notifications.forUser(7), 1)
}

func TestDispatcher_PartialFailureContinuesBatch(t *testing.T) {
	requests := newFakeRequestStore()
	notifications := newFakeNotificationStore()
	engine := NewEngine(requests)
	dispatcher := NewDispatcher(requests, notifications)
	ctx := context.Background()

	addRequest(t, requests, 1, "meyve", nil, "")
	addRequest(t, requests, 2, "meyve", nil, "")
	addRequest(t, requests, 3, "meyve", nil, "")

	notifications.failCreate = 1

	product := newTestProduct("meyve", "Elma", "taze", "Bursa")

	notified, err := dispatcher.NotifyMatchingBuyers(ctx, engine, product)
	require.NoError(t, err)
	assert.Equal(t, 2, notified)
}

func TestDispatcher_TitleNamesMatchedKeyword(t *testing.T) {
	requests := newFakeRequestStore()
	notifications := newFakeNotificationStore()
	dispatcher := NewDispatcher(requests, notifications)
	ctx := context.Background()

	request := addRequest(t, requests, 4, "sebze", []string{"biber", "domates"}, "")
	product := newTestProduct("sebze", "Köy Domatesi", "salkım domates", "İzmir")

	notified, err := dispatcher.Dispatch(ctx, product, []Match{{Request: request, MatchedKeyword: "domates"}})
	require.NoError(t, err)
	require.Equal(t, 1, notified)

	got := notifications.forUser(4)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Title, "domates")
	assert.Contains(t, got[0].Message, product.Title)
	assert.Equal(t, "biber domates", got[0].Data.SearchQuery)
	assert.Equal(t, request.ID, got[0].Data.MatchedRequestID)
	assert.Equal(t, product.Price, got[0].Data.ProductPrice)
	assert.Equal(t, product.Unit, got[0].Data.ProductUnit)
}

func TestDispatcher_GenericTitleWithoutKeyword(t *testing.T) {
	requests := newFakeRequestStore()
	notifications := newFakeNotificationStore()
	dispatcher := NewDispatcher(requests, notifications)
	ctx := context.Background()

	request := addRequest(t, requests, 5, "meyve", nil, "Ankara")
	product := newTestProduct("meyve", "Elma", "taze", "Ankara")

	notified, err := dispatcher.Dispatch(ctx, product, []Match{{Request: request}})
	require.NoError(t, err)
	require.Equal(t, 1, notified)

	got := notifications.forUser(5)
	require.Len(t, got, 1)
	assert.Equal(t, "Aradığınız Ürün Eklendi! 🎯", got[0].Title)
	// No keywords: the search query falls back to the product title.
	assert.Equal(t, product.Title, got[0].Data.SearchQuery)
}

func TestDispatcher_SellerLifecycleNotifications(t *testing.T) {
	requests := newFakeRequestStore()
	notifications := newFakeNotificationStore()
	dispatcher := NewDispatcher(requests, notifications)
	ctx := context.Background()

	product := newTestProduct("meyve", "Elma", "taze", "Bursa")

	require.NoError(t, dispatcher.NotifyProductPending(ctx, 9, product.ID, product.Title))
	require.NoError(t, dispatcher.NotifyProductApproved(ctx, 9, product.ID, product.Title))
	require.NoError(t, dispatcher.NotifyProductRejected(ctx, 9, product.ID, product.Title, "eksik bilgi"))
	require.NoError(t, dispatcher.NotifyProductFeatured(ctx, 9, product.ID, product.Title))

	got := notifications.forUser(9)
	require.Len(t, got, 4)
	assert.Equal(t, models.NotificationProductPending, got[0].Type)
	assert.Equal(t, models.NotificationProductApproved, got[1].Type)
	assert.Equal(t, models.NotificationProductRejected, got[2].Type)
	assert.Equal(t, "eksik bilgi", got[2].Data.RejectionReason)
	assert.Equal(t, models.NotificationProductFeatured, got[3].Type)
}
