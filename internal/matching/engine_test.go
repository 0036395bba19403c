package matching

import (
	"context"
	"testing"

	"github.com/halkompleksi/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestProduct(category, title, description, city string) *models.Product {
	return &models.Product{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Category:    category,
		Location:    models.ProductLocation{City: city},
		Price:       120,
		Unit:        "kg",
		IsApproved:  true,
		IsAvailable: true,
	}
}

func addRequest(t *testing.T, store *fakeRequestStore, userID uint, category string, keywords []string, city string) models.ProductRequest {
	t.Helper()
	request := models.ProductRequest{
		UserID:   userID,
		Category: category,
		Keywords: keywords,
		City:     city,
	}
	require.NoError(t, store.CreateRequest(context.Background(), &request))
	return request
}

func TestEngine_MatchesCityAndKeyword(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)
	ctx := context.Background()

	addRequest(t, store, 1, "sebze", []string{"organik"}, "İstanbul")

	product := newTestProduct("sebze", "Organik Domates", "taze ve yerli", "İSTANBUL")

	matches, err := engine.FindMatches(ctx, product)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, uint(1), matches[0].Request.UserID)
	assert.Equal(t, "organik", matches[0].MatchedKeyword)
}

func TestEngine_CityMismatchExcludesEvenWithKeywordMatch(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)

	addRequest(t, store, 1, "sebze", []string{"organik"}, "İstanbul")

	product := newTestProduct("sebze", "Organik Domates", "taze", "Ankara")

	matches, err := engine.FindMatches(context.Background(), product)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEngine_KeywordMismatchExcludesSameCity(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)

	addRequest(t, store, 1, "sebze", []string{"organik"}, "İstanbul")

	product := newTestProduct("sebze", "Domates", "tarla ürünü", "İstanbul")

	matches, err := engine.FindMatches(context.Background(), product)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEngine_NoKeywordsMatchesOnCategoryAndCity(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)

	addRequest(t, store, 1, "meyve", nil, "Ankara")

	product := newTestProduct("meyve", "Amasya Elması", "tatlı", "ankara")

	matches, err := engine.FindMatches(context.Background(), product)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Empty(t, matches[0].MatchedKeyword)
}

func TestEngine_NoCityMatchesEverywhere(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)

	addRequest(t, store, 1, "meyve", []string{"elma"}, "")

	product := newTestProduct("meyve", "Kırmızı Elma", "taze", "Bursa")

	matches, err := engine.FindMatches(context.Background(), product)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestEngine_BlankProductCityIsNoConstraint(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)

	addRequest(t, store, 1, "meyve", []string{"elma"}, "Bursa")

	product := newTestProduct("meyve", "Kırmızı Elma", "taze", "  ")

	matches, err := engine.FindMatches(context.Background(), product)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestEngine_DifferentCategoryNotConsidered(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)

	addRequest(t, store, 1, "sebze", []string{"elma"}, "")

	product := newTestProduct("meyve", "Kırmızı Elma", "taze", "Bursa")

	matches, err := engine.FindMatches(context.Background(), product)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEngine_PrefersTitleKeywordInListOrder(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)

	// "salkım" only appears in the description, "domates" in the title.
	addRequest(t, store, 1, "sebze", []string{"salkım", "domates"}, "")

	product := newTestProduct("sebze", "Domates Kasası", "salkım domates, günlük", "İzmir")

	matches, err := engine.FindMatches(context.Background(), product)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "domates", matches[0].MatchedKeyword)
}

func TestEngine_DescriptionKeywordWhenTitleHasNone(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)

	addRequest(t, store, 1, "sebze", []string{"salkım"}, "")

	product := newTestProduct("sebze", "Domates", "taze salkım", "İzmir")

	matches, err := engine.FindMatches(context.Background(), product)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "salkım", matches[0].MatchedKeyword)
}

func TestEngine_KeywordSpanningTitleAndDescription(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)

	// The keyword only appears across the title/description boundary.
	addRequest(t, store, 1, "sebze", []string{"salkım domates"}, "")

	product := newTestProduct("sebze", "Taze Salkım", "Domates günlük toplandı", "İzmir")

	matches, err := engine.FindMatches(context.Background(), product)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	// Neither field alone contains the keyword, so no display keyword.
	assert.Empty(t, matches[0].MatchedKeyword)
}

func TestEngine_SkipsAlreadyNotifiedRequests(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)
	ctx := context.Background()

	request := addRequest(t, store, 1, "meyve", nil, "")
	product := newTestProduct("meyve", "Elma", "taze", "Bursa")

	// Mark the request as already notified for this product.
	store.mu.Lock()
	r := store.requests[request.ID]
	r.NotifiedProducts = []primitive.ObjectID{product.ID}
	store.requests[request.ID] = r
	store.mu.Unlock()

	matches, err := engine.FindMatches(ctx, product)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEngine_FanOutToMultipleRequests(t *testing.T) {
	store := newFakeRequestStore()
	engine := NewEngine(store)

	addRequest(t, store, 1, "meyve", []string{"elma"}, "Bursa")
	addRequest(t, store, 2, "meyve", nil, "")
	addRequest(t, store, 3, "meyve", []string{"armut"}, "")

	product := newTestProduct("meyve", "Kırmızı Elma", "taze", "Bursa")

	matches, err := engine.FindMatches(context.Background(), product)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}
