package matching

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/halkompleksi/backend/internal/models"
	"github.com/halkompleksi/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRequestStore is an in-memory ProductRequestRepository
type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]models.ProductRequest
	seq      int
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[primitive.ObjectID]models.ProductRequest)}
}

func (s *fakeRequestStore) CreateRequest(ctx context.Context, request *models.ProductRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	request.ID = primitive.NewObjectID()
	request.IsActive = true
	request.NotifiedProducts = nil
	request.CreatedAt = time.Unix(int64(s.seq), 0)
	s.requests[request.ID] = *request
	return nil
}

func (s *fakeRequestStore) UpdateRequest(ctx context.Context, request *models.ProductRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.requests[request.ID]
	if !ok {
		return repositories.ErrRequestNotFound
	}
	existing.Keywords = request.Keywords
	existing.Description = request.Description
	existing.City = request.City
	s.requests[request.ID] = existing
	return nil
}

func (s *fakeRequestStore) GetActiveByUserCategory(ctx context.Context, userID uint, category string) (*models.ProductRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.UserID == userID && r.Category == category && r.IsActive {
			found := r
			return &found, nil
		}
	}
	return nil, repositories.ErrRequestNotFound
}

func (s *fakeRequestStore) GetActiveByUser(ctx context.Context, userID uint) ([]models.ProductRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProductRequest
	for _, r := range s.requests {
		if r.UserID == userID && r.IsActive {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeRequestStore) FindCandidates(ctx context.Context, category string, productID primitive.ObjectID) ([]models.ProductRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProductRequest
	for _, r := range s.requests {
		if r.Category != category || !r.IsActive {
			continue
		}
		notified := false
		for _, id := range r.NotifiedProducts {
			if id == productID {
				notified = true
				break
			}
		}
		if !notified {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeRequestStore) ConsumeRequest(ctx context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok || !r.IsActive {
		return false, nil
	}
	delete(s.requests, id)
	return true, nil
}

func (s *fakeRequestStore) DeleteOwned(ctx context.Context, id string, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrRequestNotFound
	}
	r, ok := s.requests[objID]
	if !ok || r.UserID != userID {
		return repositories.ErrRequestNotFound
	}
	delete(s.requests, objID)
	return nil
}

// fakeNotificationStore is an in-memory NotificationRepository with optional
// failure injection
type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []models.Notification
	failCreate    int // fail the next n CreateNotification calls
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{}
}

func (s *fakeNotificationStore) CreateNotification(ctx context.Context, notification *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate > 0 {
		s.failCreate--
		return fmt.Errorf("store unavailable")
	}
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	s.notifications = append(s.notifications, *notification)
	return nil
}

func (s *fakeNotificationStore) GetByUser(ctx context.Context, userID uint, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakeNotificationStore) GetProductAvailable(ctx context.Context, id string, userID uint) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID.Hex() == id && n.UserID == userID && n.Type == models.NotificationProductAvailable {
			found := n
			return &found, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (s *fakeNotificationStore) GetUnreadCount(ctx context.Context, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) MarkAsRead(ctx context.Context, id string, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.ID.Hex() == id && n.UserID == userID {
			s.notifications[i].IsRead = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (s *fakeNotificationStore) MarkAllAsRead(ctx context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.UserID == userID {
			s.notifications[i].IsRead = true
		}
	}
	return nil
}

func (s *fakeNotificationStore) DeleteOwned(ctx context.Context, id string, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.ID.Hex() == id && n.UserID == userID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (s *fakeNotificationStore) forUser(userID uint) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

var (
	_ repositories.ProductRequestRepository = (*fakeRequestStore)(nil)
	_ repositories.NotificationRepository   = (*fakeNotificationStore)(nil)
)
