package domain

import "time"

// LabelKind distinguishes the two label namespaces a user owns.
type LabelKind string

const (
	// LabelKindTag categorizes recipes ("vegan", "dessert").
	LabelKindTag LabelKind = "tag"
	// LabelKindIngredient lists what goes into a recipe ("salt", "cucumber").
	LabelKindIngredient LabelKind = "ingredient"
)

// Label is a user-owned name attached to recipes. Tags and ingredients
// share the same shape and rules; they differ only in which table holds
// them and which relation binds them to recipes. Names are unique per
// (owner, kind) and shared by reference across the owner's recipes.
type Label struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (l *Label) Touch() {
	l.UpdatedAt = time.Now()
}
