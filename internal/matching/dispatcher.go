package matching

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/halkompleksi/backend/internal/models"
	"github.com/halkompleksi/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dispatcher turns matches into notifications. A matched request is consumed
// (atomically deleted) before its notification is created, so each request
// fulfills at most once even when two product events race on it.
type Dispatcher struct {
	requests      repositories.ProductRequestRepository
	notifications repositories.NotificationRepository
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(requests repositories.ProductRequestRepository, notifications repositories.NotificationRepository) *Dispatcher {
	return &Dispatcher{requests: requests, notifications: notifications}
}

// Dispatch consumes each matched request and notifies its owner. One failing
// match does not abort the rest of the batch. Returns the number of
// notifications created.
func (d *Dispatcher) Dispatch(ctx context.Context, product *models.Product, matches []Match) (int, error) {
	notified := 0
	for _, match := range matches {
		consumed, err := d.requests.ConsumeRequest(ctx, match.Request.ID)
		if err != nil {
			log.Printf("matching: consume request %s: %v", match.Request.ID.Hex(), err)
			continue
		}
		if !consumed {
			// Already fulfilled by a concurrent dispatch.
			continue
		}

		notification := buildAvailableNotification(product, match)
		if err := d.notifications.CreateNotification(ctx, notification); err != nil {
			log.Printf("matching: create notification for user %d: %v", match.Request.UserID, err)
			continue
		}
		notified++
	}
	return notified, nil
}

// NotifyMatchingBuyers runs the full match-and-dispatch flow for a product
// that just became visible.
func (d *Dispatcher) NotifyMatchingBuyers(ctx context.Context, engine *Engine, product *models.Product) (int, error) {
	matches, err := engine.FindMatches(ctx, product)
	if err != nil {
		return 0, err
	}
	return d.Dispatch(ctx, product, matches)
}

func buildAvailableNotification(product *models.Product, match Match) *models.Notification {
	title := "Aradığınız Ürün Eklendi! 🎯"
	if match.MatchedKeyword != "" {
		title = fmt.Sprintf("%q Ürünü Eklendi! 🎯", match.MatchedKeyword)
	}

	searchQuery := product.Title
	if len(match.Request.Keywords) > 0 {
		searchQuery = strings.Join(match.Request.Keywords, " ")
	}

	return &models.Notification{
		UserID:    match.Request.UserID,
		Type:      models.NotificationProductAvailable,
		Title:     title,
		Message:   fmt.Sprintf("%q - %s kategorisinde aradığınız ürün eklendi. Talebiniz tamamlandı ve silindi.", product.Title, product.Category),
		ProductID: product.ID,
		Data: models.NotificationData{
			Category:         product.Category,
			City:             product.Location.City,
			Keywords:         match.Request.Keywords,
			MatchedRequestID: match.Request.ID,
			ProductTitle:     product.Title,
			ProductPrice:     product.Price,
			ProductUnit:      product.Unit,
			SearchQuery:      searchQuery,
		},
	}
}

// NotifyProductPending tells the seller their listing was sent for review
func (d *Dispatcher) NotifyProductPending(ctx context.Context, sellerID uint, productID primitive.ObjectID, productTitle string) error {
	return d.notifications.CreateNotification(ctx, &models.Notification{
		UserID:    sellerID,
		Type:      models.NotificationProductPending,
		Title:     "Ürün Onay Sürecinde",
		Message:   fmt.Sprintf("%q ürününüz onay için gönderildi. Admin incelemesinden sonra yayınlanacaktır.", productTitle),
		ProductID: productID,
	})
}

// NotifyProductApproved tells the seller their listing went live
func (d *Dispatcher) NotifyProductApproved(ctx context.Context, sellerID uint, productID primitive.ObjectID, productTitle string) error {
	return d.notifications.CreateNotification(ctx, &models.Notification{
		UserID:    sellerID,
		Type:      models.NotificationProductApproved,
		Title:     "Ürün Onaylandı! 🎉",
		Message:   fmt.Sprintf("%q ürününüz onaylandı ve şimdi yayında!", productTitle),
		ProductID: productID,
	})
}

// NotifyProductRejected tells the seller their listing was rejected and why
func (d *Dispatcher) NotifyProductRejected(ctx context.Context, sellerID uint, productID primitive.ObjectID, productTitle, reason string) error {
	if reason == "" {
		reason = "Belirtilmedi"
	}
	return d.notifications.CreateNotification(ctx, &models.Notification{
		UserID:    sellerID,
		Type:      models.NotificationProductRejected,
		Title:     "Ürün Reddedildi",
		Message:   fmt.Sprintf("%q ürününüz reddedildi. Sebep: %s", productTitle, reason),
		ProductID: productID,
		Data:      models.NotificationData{RejectionReason: reason},
	})
}

// NotifyProductFeatured tells the seller their listing was featured
func (d *Dispatcher) NotifyProductFeatured(ctx context.Context, sellerID uint, productID primitive.ObjectID, productTitle string) error {
	return d.notifications.CreateNotification(ctx, &models.Notification{
		UserID:    sellerID,
		Type:      models.NotificationProductFeatured,
		Title:     "Ürününüz Öne Çıkarıldı! ⭐",
		Message:   fmt.Sprintf("%q ürününüz admin tarafından öne çıkarıldı. Ana sayfada görünecek!", productTitle),
		ProductID: productID,
	})
}
