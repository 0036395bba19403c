// Package matching pairs newly visible products against buyers' standing
// product requests and fans out the resulting notifications.
package matching

import (
	"context"
	"strings"

	"github.com/halkompleksi/backend/internal/models"
	"github.com/halkompleksi/backend/internal/repositories"
)

// Match is a product request that a product satisfied, together with the
// keyword that matched (empty when the request had no keywords).
type Match struct {
	Request        models.ProductRequest
	MatchedKeyword string
}

// Engine finds the active product requests a product satisfies. It is a pure
// read/compute step; side effects belong to the Dispatcher.
type Engine struct {
	requests repositories.ProductRequestRepository
}

// NewEngine creates a new Engine
func NewEngine(requests repositories.ProductRequestRepository) *Engine {
	return &Engine{requests: requests}
}

// FindMatches returns every active request in the product's category that the
// product satisfies and that has not already been notified about it.
//
// A request matches when its city (if set) equals the product's city
// case-insensitively, AND at least one of its keywords (if any) appears as a
// case-insensitive substring of the product's title or description. A request
// without keywords matches on category and city alone.
func (e *Engine) FindMatches(ctx context.Context, product *models.Product) ([]Match, error) {
	candidates, err := e.requests.FindCandidates(ctx, product.Category, product.ID)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, request := range candidates {
		if !cityMatches(request.City, product.Location.City) {
			continue
		}
		keyword, ok := keywordMatch(request.Keywords, product.Title, product.Description)
		if !ok {
			continue
		}
		matches = append(matches, Match{Request: request, MatchedKeyword: keyword})
	}
	return matches, nil
}

// cityMatches applies the location filter. A blank city on either side means
// "no constraint".
func cityMatches(requestCity, productCity string) bool {
	requestCity = strings.ToLower(strings.TrimSpace(requestCity))
	productCity = strings.ToLower(strings.TrimSpace(productCity))
	if requestCity == "" || productCity == "" {
		return true
	}
	return requestCity == productCity
}

// keywordMatch reports whether any keyword appears in the product text and
// which one to display: the first keyword found in the title, else the first
// found in the description. The match itself is decided against the
// concatenated title and description, so a keyword spanning the boundary
// still matches (with an empty display keyword). No keywords matches
// unconditionally.
func keywordMatch(keywords []string, title, description string) (string, bool) {
	if len(keywords) == 0 {
		return "", true
	}

	title = strings.ToLower(title)
	description = strings.ToLower(description)
	combined := title + " " + description

	matched := false
	fromDescription := ""
	for _, keyword := range keywords {
		k := strings.ToLower(keyword)
		if k == "" {
			continue
		}
		if strings.Contains(title, k) {
			return keyword, true
		}
		if fromDescription == "" && strings.Contains(description, k) {
			fromDescription = keyword
		}
		if strings.Contains(combined, k) {
			matched = true
		}
	}
	if fromDescription != "" {
		return fromDescription, true
	}
	return "", matched
}
