// Package search provides full-text search over recipes using Bleve.
// Every document carries its owner's user ID and every query filters on it,
// so one user's recipes never surface in another's results.
package search

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/NickNterm/recipeapp-server/internal/domain"
)

// SearchDocument is the indexed representation of a recipe.
// Tag and ingredient names are denormalized in so a query for "basil"
// finds recipes labeled with it, without join lookups at query time.
type SearchDocument struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"` // Owner, used as a mandatory term filter
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	CreatedAt   int64    `json:"created_at"` // Unix millis
	UpdatedAt   int64    `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"user_id":    d.UserID,
		"title":      d.Title,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if len(d.Ingredients) > 0 {
		m["ingredients"] = d.Ingredients
	}

	return m
}

// RecipeToSearchDocument converts a domain Recipe to a SearchDocument.
// Text is folded to its base form on the way in; queries fold the same
// way, so "Crème brûlée" is findable as "creme brulee".
func RecipeToSearchDocument(r *domain.Recipe) *SearchDocument {
	doc := &SearchDocument{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       Fold(r.Title),
		Description: Fold(r.Description),
		CreatedAt:   r.CreatedAt.UnixMilli(),
		UpdatedAt:   r.UpdatedAt.UnixMilli(),
	}

	for _, name := range r.TagNames() {
		doc.Tags = append(doc.Tags, Fold(name))
	}
	for _, name := range r.IngredientNames() {
		doc.Ingredients = append(doc.Ingredients, Fold(name))
	}

	return doc
}

// Fold strips diacritics from text: NFKD decomposition, drop the combining
// marks, recompose. Applied symmetrically at index and query time.
func Fold(s string) string {
	// Transformers are stateful, so build a fresh chain per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
