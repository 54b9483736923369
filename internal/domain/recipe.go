// Package domain contains the core business entities and domain logic for the RecipeApp server.
package domain

// Recipe represents a recipe owned by a single user.
type Recipe struct {
	Entity
	UserID        string  `json:"user_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	TimeMinutes   int     `json:"time_minutes"`
	Price         string  `json:"price"` // Decimal string, e.g. "5.25"
	Link          string  `json:"link,omitempty"`
	ImagePath     string  `json:"image,omitempty"`           // Media-relative path, set by upload
	ImageBlurHash string  `json:"image_blur_hash,omitempty"` // Placeholder computed at upload
	Tags          []Label `json:"tags"`
	Ingredients   []Label `json:"ingredients"`
}

// HasImage returns true if an image has been uploaded for this recipe.
func (r *Recipe) HasImage() bool {
	return r.ImagePath != ""
}

// TagNames returns the recipe's tag names in association order.
func (r *Recipe) TagNames() []string {
	names := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		names[i] = t.Name
	}
	return names
}

// IngredientNames returns the recipe's ingredient names in association order.
func (r *Recipe) IngredientNames() []string {
	names := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		names[i] = ing.Name
	}
	return names
}
