package matching

import (
	"context"
	"fmt"

	"github.com/halkompleksi/backend/internal/models"
	"github.com/halkompleksi/backend/internal/repositories"
)

// ErrCategoryRequired is returned by Create when the category is missing.
var ErrCategoryRequired = fmt.Errorf("category is required")

// Lifecycle manages buyers' product requests: create-or-merge, list, delete.
type Lifecycle struct {
	requests repositories.ProductRequestRepository
}

// NewLifecycle creates a new Lifecycle
func NewLifecycle(requests repositories.ProductRequestRepository) *Lifecycle {
	return &Lifecycle{requests: requests}
}

// Create creates a new active request, or merges into the user's existing
// active request for the same category: non-empty new values replace the old
// keywords/description/city, empty ones keep them. The merged request keeps
// its identity and notified-set. Returns the resulting request and whether an
// existing one was updated.
func (l *Lifecycle) Create(ctx context.Context, userID uint, input models.CreateProductRequestInput) (*models.ProductRequest, bool, error) {
	if input.Category == "" {
		return nil, false, ErrCategoryRequired
	}

	existing, err := l.requests.GetActiveByUserCategory(ctx, userID, input.Category)
	if err != nil && err != repositories.ErrRequestNotFound {
		return nil, false, err
	}

	if existing != nil {
		if len(input.Keywords) > 0 {
			existing.Keywords = input.Keywords
		}
		if input.Description != "" {
			existing.Description = input.Description
		}
		if input.City != "" {
			existing.City = input.City
		}
		if err := l.requests.UpdateRequest(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, true, nil
	}

	request := &models.ProductRequest{
		UserID:      userID,
		Category:    input.Category,
		Keywords:    input.Keywords,
		Description: input.Description,
		City:        input.City,
	}
	if err := l.requests.CreateRequest(ctx, request); err != nil {
		return nil, false, err
	}
	return request, false, nil
}

// ListActive returns the user's active requests, newest first
func (l *Lifecycle) ListActive(ctx context.Context, userID uint) ([]models.ProductRequest, error) {
	return l.requests.GetActiveByUser(ctx, userID)
}

// Delete removes a request the user owns. Foreign and nonexistent ids both
// report ErrRequestNotFound so existence is never leaked.
func (l *Lifecycle) Delete(ctx context.Context, userID uint, requestID string) error {
	return l.requests.DeleteOwned(ctx, requestID, userID)
}
