package repositories

import (
	"net/url"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductFilter translates the optional listing/search parameters into a
// MongoDB predicate. The zero value matches every approved and available
// product.
type ProductFilter struct {
	Category    string
	City        string // explicit city parameter, wins over Location
	Location    string // legacy alias for City
	MinPrice    *float64
	MaxPrice    *float64
	Search      string // wins over Query
	Query       string // legacy alias for Search
	InStock     bool
	Organic     bool
	ColdStorage bool
	Featured    bool
	SortBy      string
	SortOrder   string
	Page        int
	Limit       int
}

// ProductFilterFromQuery parses URL query parameters into a ProductFilter.
// Malformed numeric values are ignored rather than rejected, matching the
// forgiving behavior of the listing endpoints.
func ProductFilterFromQuery(q url.Values) ProductFilter {
	f := ProductFilter{
		Category:  q.Get("category"),
		City:      q.Get("city"),
		Location:  q.Get("location"),
		Search:    q.Get("search"),
		Query:     q.Get("query"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		f.MaxPrice = &v
	}

	f.InStock = boolParam(q, "stockAvailable") || boolParam(q, "inStock")
	f.Organic = boolParam(q, "organic")
	f.ColdStorage = boolParam(q, "coldStorage")
	f.Featured = boolParam(q, "featured")

	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	return f
}

func boolParam(q url.Values, key string) bool {
	v, _ := strconv.ParseBool(q.Get(key))
	return v
}

// CityTerm resolves the city/location alias pair: the explicit "city"
// parameter wins when both are supplied.
func (f ProductFilter) CityTerm() string {
	if f.City != "" {
		return f.City
	}
	return f.Location
}

// SearchTerm resolves the search/query alias pair: "search" wins when both
// are supplied.
func (f ProductFilter) SearchTerm() string {
	if f.Search != "" {
		return f.Search
	}
	return f.Query
}

// BuildQuery returns the MongoDB filter document. Approved and available are
// always required, regardless of the other parameters.
func (f ProductFilter) BuildQuery() bson.M {
	query := bson.M{
		"is_approved":  true,
		"is_available": true,
	}

	if f.Category != "" {
		query["category"] = f.Category
	}

	if city := f.CityTerm(); city != "" {
		query["location.city"] = primitive.Regex{Pattern: regexp.QuoteMeta(city), Options: "i"}
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		query["price"] = price
	}

	if term := f.SearchTerm(); term != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		}
	}

	if f.InStock {
		query["stock"] = bson.M{"$gt": 0}
	}
	if f.Organic {
		query["category_data.organic"] = true
	}
	if f.ColdStorage {
		query["category_data.cold_storage"] = true
	}
	if f.Featured {
		query["is_featured"] = true
	}

	return query
}

// BuildSort returns the sort document. Unrecognized sort fields pass through
// to the store; anything other than "asc" sorts descending.
func (f ProductFilter) BuildSort() bson.D {
	field := f.SortBy
	if field == "" {
		field = "created_at"
	}
	order := -1
	if f.SortOrder == "asc" {
		order = 1
	}
	return bson.D{{Key: field, Value: order}}
}

// PageLimit returns the normalized 1-indexed page and page size.
func (f ProductFilter) PageLimit() (page, limit int) {
	page, limit = f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

// Skip returns the number of documents to skip for the normalized page.
func (f ProductFilter) Skip() int64 {
	page, limit := f.PageLimit()
	return int64((page - 1) * limit)
}
