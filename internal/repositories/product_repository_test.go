package repositories

import (
	"testing"

	"github.com/halkompleksi/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApprovalUpdate_ApproveClearsRejectReason(t *testing.T) {
	update := approvalUpdate(3, true, "")

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, true, set["is_approved"])
	assert.Equal(t, uint(3), set["approved_by"])
	assert.NotNil(t, set["approved_at"])
	assert.NotContains(t, set, "reject_reason")

	// A previously rejected product loses its stale rejection reason.
	assert.Equal(t, bson.M{"reject_reason": ""}, update["$unset"])
}

func TestApprovalUpdate_RejectSetsReason(t *testing.T) {
	update := approvalUpdate(3, false, "eksik bilgi")

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, false, set["is_approved"])
	assert.Equal(t, "eksik bilgi", set["reject_reason"])
	assert.NotContains(t, set, "approved_by")
	assert.NotContains(t, update, "$unset")
}

func TestRequestProductsQuery_CategoryOnly(t *testing.T) {
	query := requestProductsQuery(models.NotificationData{Category: "meyve"})

	and, ok := query["$and"].(bson.A)
	require.True(t, ok)
	require.Len(t, and, 2)
	assert.Equal(t, bson.M{"is_approved": true, "is_available": true}, and[0])
	assert.Equal(t, bson.M{"category": "meyve"}, and[1])
}

func TestRequestProductsQuery_FullCriteria(t *testing.T) {
	query := requestProductsQuery(models.NotificationData{
		Category:    "sebze",
		City:        "İzmir",
		Keywords:    []string{"biber", "domates"},
		SearchQuery: "biber domates",
	})

	and, ok := query["$and"].(bson.A)
	require.True(t, ok)
	require.Len(t, and, 5)

	city := and[2].(bson.M)["location.city"].(primitive.Regex)
	assert.Equal(t, "İzmir", city.Pattern)
	assert.Equal(t, "i", city.Options)

	// One title/description/tags triple per keyword.
	keywordOr := and[3].(bson.M)["$or"].(bson.A)
	assert.Len(t, keywordOr, 6)
	first := keywordOr[0].(bson.M)["title"].(primitive.Regex)
	assert.Equal(t, "biber", first.Pattern)

	// The consolidated search string narrows on top of the keywords.
	searchOr := and[4].(bson.M)["$or"].(bson.A)
	require.Len(t, searchOr, 3)
	search := searchOr[0].(bson.M)["title"].(primitive.Regex)
	assert.Equal(t, "biber domates", search.Pattern)
}

func TestRequestProductsQuery_QuotesRegexMetacharacters(t *testing.T) {
	query := requestProductsQuery(models.NotificationData{
		Category: "meyve",
		City:     "a.b",
	})

	and := query["$and"].(bson.A)
	city := and[2].(bson.M)["location.city"].(primitive.Regex)
	assert.Equal(t, `a\.b`, city.Pattern)
}
