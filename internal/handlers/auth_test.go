package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/halkompleksi/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeUserStore is an in-memory UserRepository.
type fakeUserStore struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint]*models.User)}
}

func (s *fakeUserStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetUserByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.FirebaseUID == firebaseUID {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) UpdateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) DeleteUser(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func firebaseLoginContext(t *testing.T, token *auth.Token) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if token != nil {
		c.Set("firebaseToken", token)
		c.Set("firebaseUID", token.UID)
	}
	return c, rec
}

func TestFirebaseLogin_RequiresVerifiedToken(t *testing.T) {
	h := NewAuthHandler(newFakeUserStore(), nil)

	// No token in the context means the verification middleware did not run.
	c, _ := firebaseLoginContext(t, nil)
	err := h.FirebaseLogin(c)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestFirebaseLogin_CreatesNewUser(t *testing.T) {
	store := newFakeUserStore()
	h := NewAuthHandler(store, nil)

	token := &auth.Token{
		UID:    "firebase-uid-1",
		Claims: map[string]interface{}{"email": "ayse@example.com", "name": "Ayşe"},
	}
	c, rec := firebaseLoginContext(t, token)
	require.NoError(t, h.FirebaseLogin(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")

	user, err := store.GetUserByFirebaseUID("firebase-uid-1")
	require.NoError(t, err)
	assert.Equal(t, "ayse@example.com", user.Email)
	assert.Equal(t, models.RoleBuyer, user.Role)
}

func TestFirebaseLogin_LinksExistingUserByEmail(t *testing.T) {
	store := newFakeUserStore()
	require.NoError(t, store.CreateUser(&models.User{
		Name:  "Mehmet",
		Email: "mehmet@example.com",
		Role:  models.RoleSeller,
	}))

	h := NewAuthHandler(store, nil)
	token := &auth.Token{
		UID:    "firebase-uid-2",
		Claims: map[string]interface{}{"email": "mehmet@example.com"},
	}
	c, rec := firebaseLoginContext(t, token)
	require.NoError(t, h.FirebaseLogin(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	user, err := store.GetUserByFirebaseUID("firebase-uid-2")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, user.Role, "existing account is linked, not recreated")
}
