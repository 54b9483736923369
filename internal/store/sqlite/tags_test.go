package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/NickNterm/recipeapp-server/internal/domain"
	"github.com/NickNterm/recipeapp-server/internal/store"
)

// makeTestLabel builds a domain.Label owned by userID. It also creates the
// owning user to satisfy the FK constraint. Shared by the tag and ingredient
// tests since both kinds have the same shape.
func makeTestLabel(t *testing.T, s *Store, labelID, userID, name string) *domain.Label {
	t.Helper()
	ctx := context.Background()

	user := makeTestUser(userID, userID+"@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, store.ErrAlreadyExists) {
			t.Fatalf("makeTestLabel: CreateUser(%s): %v", userID, err)
		}
	}

	now := time.Now()
	return &domain.Label{
		ID:        labelID,
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestLabel(t, s, "tag-1", "user-t-1", "Dinner")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := s.GetTag(ctx, "tag-1", "user-t-1")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}

	if got.ID != tag.ID {
		t.Errorf("ID: got %q, want %q", got.ID, tag.ID)
	}
	if got.UserID != tag.UserID {
		t.Errorf("UserID: got %q, want %q", got.UserID, tag.UserID)
	}
	if got.Name != tag.Name {
		t.Errorf("Name: got %q, want %q", got.Name, tag.Name)
	}
	if got.CreatedAt.Unix() != tag.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, tag.CreatedAt)
	}
}

func TestGetTag_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestLabel(t, s, "tag-nf", "user-t-nf", "Vegan")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	if _, err := s.GetTag(ctx, "no-such-tag", "user-t-nf"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}

	// Another user's ID must not resolve someone else's tag.
	other := makeTestLabel(t, s, "tag-nf-other", "user-t-nf-2", "Vegan")
	if err := s.CreateTag(ctx, other); err != nil {
		t.Fatalf("CreateTag (other): %v", err)
	}
	if _, err := s.GetTag(ctx, "tag-nf", "user-t-nf-2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("foreign owner: expected ErrNotFound, got %v", err)
	}
}

func TestCreateTag_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t1 := makeTestLabel(t, s, "tag-dup-1", "user-t-dup", "Comfort Food")
	if err := s.CreateTag(ctx, t1); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	// Same owner, same name.
	t2 := makeTestLabel(t, s, "tag-dup-2", "user-t-dup", "Comfort Food")
	err := s.CreateTag(ctx, t2)
	if err == nil {
		t.Fatal("expected error for duplicate tag name, got nil")
	}
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// A different owner can reuse the name freely.
	t3 := makeTestLabel(t, s, "tag-dup-3", "user-t-dup-2", "Comfort Food")
	if err := s.CreateTag(ctx, t3); err != nil {
		t.Errorf("CreateTag for other user: %v", err)
	}
}

func TestGetTagByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestLabel(t, s, "tag-byname", "user-t-bn", "Weeknight")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := s.GetTagByName(ctx, "user-t-bn", "Weeknight")
	if err != nil {
		t.Fatalf("GetTagByName: %v", err)
	}
	if got.ID != "tag-byname" {
		t.Errorf("ID: got %q, want %q", got.ID, "tag-byname")
	}

	// Lookup is exact, not case-folded.
	if _, err := s.GetTagByName(ctx, "user-t-bn", "weeknight"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("case variant: expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetTagByName(ctx, "someone-else", "Weeknight"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("foreign owner: expected ErrNotFound, got %v", err)
	}
}

func TestFindOrCreateTagByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// The owner has to exist before the store can create a tag for them.
	user := makeTestUser("user-t-foc", "user-t-foc@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	first, created, err := s.FindOrCreateTagByName(ctx, "user-t-foc", "Breakfast")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName (first): %v", err)
	}
	if !created {
		t.Error("first call: expected created=true")
	}
	if first.ID == "" {
		t.Error("first call: expected a generated ID")
	}
	if first.Name != "Breakfast" {
		t.Errorf("Name: got %q, want %q", first.Name, "Breakfast")
	}

	second, created, err := s.FindOrCreateTagByName(ctx, "user-t-foc", "Breakfast")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName (second): %v", err)
	}
	if created {
		t.Error("second call: expected created=false")
	}
	if second.ID != first.ID {
		t.Errorf("second call resolved a different row: got %q, want %q", second.ID, first.ID)
	}

	// The row is persisted, not just returned.
	got, err := s.GetTag(ctx, first.ID, "user-t-foc")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "Breakfast" {
		t.Errorf("persisted Name: got %q, want %q", got.Name, "Breakfast")
	}
}

func TestFindOrCreateTagByName_ConcurrentConverges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-t-conc", "user-t-conc@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// Several writers racing on the same (owner, name) must converge on a
	// single row. Losers of the insert race recover via re-lookup.
	const writers = 8
	ids := make(chan string, writers)
	errs := make(chan error, writers)

	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tag, _, err := s.FindOrCreateTagByName(ctx, "user-t-conc", "Dinner")
			if err != nil {
				errs <- err
				return
			}
			ids <- tag.ID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("FindOrCreateTagByName: %v", err)
	}

	var first string
	for id := range ids {
		if first == "" {
			first = id
			continue
		}
		if id != first {
			t.Fatalf("writers resolved different rows: %q vs %q", first, id)
		}
	}

	tags, err := s.ListTags(ctx, "user-t-conc")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected exactly one tag row, got %d", len(tags))
	}
}

func TestListTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Asian", "Dinner", "Spicy"} {
		tag := makeTestLabel(t, s, "tag-list-"+name, "user-t-list", name)
		if err := s.CreateTag(ctx, tag); err != nil {
			t.Fatalf("CreateTag(%s): %v", name, err)
		}
	}

	// Another user's tags must not leak into the listing.
	foreign := makeTestLabel(t, s, "tag-list-foreign", "user-t-list-2", "Zucchini")
	if err := s.CreateTag(ctx, foreign); err != nil {
		t.Fatalf("CreateTag (foreign): %v", err)
	}

	tags, err := s.ListTags(ctx, "user-t-list")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}

	// Ordered by name descending.
	want := []string{"Spicy", "Dinner", "Asian"}
	for i, tag := range tags {
		if tag.Name != want[i] {
			t.Errorf("tags[%d]: got %q, want %q", i, tag.Name, want[i])
		}
	}
}

func TestListTags_Empty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tags, err := s.ListTags(ctx, "user-with-no-tags")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if tags == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(tags) != 0 {
		t.Errorf("expected 0 tags, got %d", len(tags))
	}
}

func TestUpdateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestLabel(t, s, "tag-upd", "user-t-upd", "Itallian")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	tag.Name = "Italian"
	tag.Touch()
	if err := s.UpdateTag(ctx, tag); err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}

	got, err := s.GetTag(ctx, "tag-upd", "user-t-upd")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "Italian" {
		t.Errorf("Name: got %q, want %q", got.Name, "Italian")
	}
	if _, err := s.GetTagByName(ctx, "user-t-upd", "Itallian"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("old name still resolves: %v", err)
	}
}

func TestUpdateTag_NameConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t1 := makeTestLabel(t, s, "tag-conf-1", "user-t-conf", "Soup")
	t2 := makeTestLabel(t, s, "tag-conf-2", "user-t-conf", "Stew")
	if err := s.CreateTag(ctx, t1); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.CreateTag(ctx, t2); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	t2.Name = "Soup"
	err := s.UpdateTag(ctx, t2)
	if err == nil {
		t.Fatal("expected error for conflicting rename, got nil")
	}
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateTag_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestLabel(t, s, "tag-upd-nf", "user-t-upd-nf", "Grill")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	// Updating under the wrong owner must not touch the row.
	stolen := *tag
	stolen.UserID = "user-t-upd-nf-2"
	stolen.Name = "Hijacked"
	if err := s.UpdateTag(ctx, &stolen); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("foreign owner: expected ErrNotFound, got %v", err)
	}

	got, err := s.GetTag(ctx, "tag-upd-nf", "user-t-upd-nf")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "Grill" {
		t.Errorf("row was modified across owners: got %q", got.Name)
	}

	missing := makeTestLabel(t, s, "tag-never-created", "user-t-upd-nf", "Ghost")
	if err := s.UpdateTag(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing tag: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recipe := makeTestRecipe(t, s, "recipe-tagdel", "user-t-del")
	if err := s.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	t1 := makeTestLabel(t, s, "tag-del-1", "user-t-del", "Keeper")
	t2 := makeTestLabel(t, s, "tag-del-2", "user-t-del", "Victim")
	if err := s.CreateTag(ctx, t1); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.CreateTag(ctx, t2); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.AddRecipeTag(ctx, "recipe-tagdel", "tag-del-1"); err != nil {
		t.Fatalf("AddRecipeTag: %v", err)
	}
	if err := s.AddRecipeTag(ctx, "recipe-tagdel", "tag-del-2"); err != nil {
		t.Fatalf("AddRecipeTag: %v", err)
	}

	if err := s.DeleteTag(ctx, "tag-del-2", "user-t-del"); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	if _, err := s.GetTag(ctx, "tag-del-2", "user-t-del"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deleted tag still resolves: %v", err)
	}

	// The association cascades; the recipe and its other tag survive.
	tags, err := s.GetTagsForRecipe(ctx, "recipe-tagdel")
	if err != nil {
		t.Fatalf("GetTagsForRecipe: %v", err)
	}
	if len(tags) != 1 || tags[0].ID != "tag-del-1" {
		t.Errorf("expected only tag-del-1 to remain, got %v", tags)
	}
	if _, err := s.GetRecipe(ctx, "recipe-tagdel", "user-t-del"); err != nil {
		t.Errorf("recipe should survive tag deletion: %v", err)
	}

	// Deleting again reports not found.
	if err := s.DeleteTag(ctx, "tag-del-2", "user-t-del"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTag_WrongOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestLabel(t, s, "tag-del-own", "user-t-del-own", "Mine")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	// Make sure the other user exists, then try to delete across owners.
	makeTestLabel(t, s, "tag-del-own-unused", "user-t-del-own-2", "Theirs")
	if err := s.DeleteTag(ctx, "tag-del-own", "user-t-del-own-2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("foreign owner: expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetTag(ctx, "tag-del-own", "user-t-del-own"); err != nil {
		t.Errorf("tag should survive foreign delete: %v", err)
	}
}

func TestAddRecipeTag_SetSemantics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recipe := makeTestRecipe(t, s, "recipe-tagset", "user-t-set")
	if err := s.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	tag := makeTestLabel(t, s, "tag-set-1", "user-t-set", "Baked")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	if err := s.AddRecipeTag(ctx, "recipe-tagset", "tag-set-1"); err != nil {
		t.Fatalf("AddRecipeTag: %v", err)
	}
	// Attaching the same tag again is a no-op, not an error.
	if err := s.AddRecipeTag(ctx, "recipe-tagset", "tag-set-1"); err != nil {
		t.Fatalf("AddRecipeTag (repeat): %v", err)
	}

	tags, err := s.GetTagsForRecipe(ctx, "recipe-tagset")
	if err != nil {
		t.Fatalf("GetTagsForRecipe: %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("expected 1 tag after duplicate attach, got %d", len(tags))
	}
}

func TestClearRecipeTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recipe := makeTestRecipe(t, s, "recipe-tagclear", "user-t-clear")
	if err := s.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	for _, name := range []string{"One", "Two"} {
		tag := makeTestLabel(t, s, "tag-clear-"+name, "user-t-clear", name)
		if err := s.CreateTag(ctx, tag); err != nil {
			t.Fatalf("CreateTag(%s): %v", name, err)
		}
		if err := s.AddRecipeTag(ctx, "recipe-tagclear", tag.ID); err != nil {
			t.Fatalf("AddRecipeTag(%s): %v", name, err)
		}
	}

	if err := s.ClearRecipeTags(ctx, "recipe-tagclear"); err != nil {
		t.Fatalf("ClearRecipeTags: %v", err)
	}

	tags, err := s.GetTagsForRecipe(ctx, "recipe-tagclear")
	if err != nil {
		t.Fatalf("GetTagsForRecipe: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags after clear, got %d", len(tags))
	}

	// Clearing detaches; the tag rows themselves survive.
	if _, err := s.GetTag(ctx, "tag-clear-One", "user-t-clear"); err != nil {
		t.Errorf("tag row should survive clear: %v", err)
	}
	remaining, err := s.ListTags(ctx, "user-t-clear")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("expected 2 tags to remain, got %d", len(remaining))
	}
}

func TestGetTagsForRecipe_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recipe := makeTestRecipe(t, s, "recipe-tagorder", "user-t-ord")
	if err := s.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	// Attach out of order; reads come back sorted by name descending.
	for _, name := range []string{"Mild", "Zesty", "Fresh"} {
		tag := makeTestLabel(t, s, "tag-ord-"+name, "user-t-ord", name)
		if err := s.CreateTag(ctx, tag); err != nil {
			t.Fatalf("CreateTag(%s): %v", name, err)
		}
		if err := s.AddRecipeTag(ctx, "recipe-tagorder", tag.ID); err != nil {
			t.Fatalf("AddRecipeTag(%s): %v", name, err)
		}
	}

	tags, err := s.GetTagsForRecipe(ctx, "recipe-tagorder")
	if err != nil {
		t.Fatalf("GetTagsForRecipe: %v", err)
	}

	want := []string{"Zesty", "Mild", "Fresh"}
	if len(tags) != len(want) {
		t.Fatalf("expected %d tags, got %d", len(want), len(tags))
	}
	for i, tag := range tags {
		if tag.Name != want[i] {
			t.Errorf("tags[%d]: got %q, want %q", i, tag.Name, want[i])
		}
	}
}

func TestGetTagsForRecipeIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r1 := makeTestRecipe(t, s, "recipe-batch-1", "user-t-batch")
	r2 := makeTestRecipe(t, s, "recipe-batch-2", "user-t-batch")
	r3 := makeTestRecipe(t, s, "recipe-batch-3", "user-t-batch")
	for _, r := range []*domain.Recipe{r1, r2, r3} {
		if err := s.CreateRecipe(ctx, r); err != nil {
			t.Fatalf("CreateRecipe(%s): %v", r.ID, err)
		}
	}

	shared := makeTestLabel(t, s, "tag-batch-shared", "user-t-batch", "Shared")
	only1 := makeTestLabel(t, s, "tag-batch-only1", "user-t-batch", "Alone")
	if err := s.CreateTag(ctx, shared); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.CreateTag(ctx, only1); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.AddRecipeTag(ctx, "recipe-batch-1", "tag-batch-shared"); err != nil {
		t.Fatalf("AddRecipeTag: %v", err)
	}
	if err := s.AddRecipeTag(ctx, "recipe-batch-1", "tag-batch-only1"); err != nil {
		t.Fatalf("AddRecipeTag: %v", err)
	}
	if err := s.AddRecipeTag(ctx, "recipe-batch-2", "tag-batch-shared"); err != nil {
		t.Fatalf("AddRecipeTag: %v", err)
	}

	byRecipe, err := s.GetTagsForRecipeIDs(ctx, []string{"recipe-batch-1", "recipe-batch-2", "recipe-batch-3"})
	if err != nil {
		t.Fatalf("GetTagsForRecipeIDs: %v", err)
	}

	if len(byRecipe["recipe-batch-1"]) != 2 {
		t.Errorf("recipe-batch-1: expected 2 tags, got %d", len(byRecipe["recipe-batch-1"]))
	}
	// Name descending within each recipe's slice.
	if got := byRecipe["recipe-batch-1"][0].Name; got != "Shared" {
		t.Errorf("recipe-batch-1[0]: got %q, want %q", got, "Shared")
	}
	if len(byRecipe["recipe-batch-2"]) != 1 {
		t.Errorf("recipe-batch-2: expected 1 tag, got %d", len(byRecipe["recipe-batch-2"]))
	}
	// Recipes with no tags are absent from the map, not present with nil.
	if _, ok := byRecipe["recipe-batch-3"]; ok {
		t.Error("recipe-batch-3 should be absent from the result map")
	}
}

func TestGetTagsForRecipeIDs_Empty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	byRecipe, err := s.GetTagsForRecipeIDs(ctx, nil)
	if err != nil {
		t.Fatalf("GetTagsForRecipeIDs: %v", err)
	}
	if byRecipe == nil {
		t.Error("expected empty map, got nil")
	}
	if len(byRecipe) != 0 {
		t.Errorf("expected empty map, got %d entries", len(byRecipe))
	}
}

func TestGetRecipeIDsForTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r1 := makeTestRecipe(t, s, "recipe-rev-1", "user-t-rev")
	r2 := makeTestRecipe(t, s, "recipe-rev-2", "user-t-rev")
	for _, r := range []*domain.Recipe{r1, r2} {
		if err := s.CreateRecipe(ctx, r); err != nil {
			t.Fatalf("CreateRecipe(%s): %v", r.ID, err)
		}
	}
	tag := makeTestLabel(t, s, "tag-rev", "user-t-rev", "Everywhere")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.AddRecipeTag(ctx, "recipe-rev-1", "tag-rev"); err != nil {
		t.Fatalf("AddRecipeTag: %v", err)
	}
	if err := s.AddRecipeTag(ctx, "recipe-rev-2", "tag-rev"); err != nil {
		t.Fatalf("AddRecipeTag: %v", err)
	}

	ids, err := s.GetRecipeIDsForTag(ctx, "tag-rev")
	if err != nil {
		t.Fatalf("GetRecipeIDsForTag: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 recipe IDs, got %d", len(ids))
	}
	found := map[string]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found["recipe-rev-1"] || !found["recipe-rev-2"] {
		t.Errorf("missing recipe IDs in %v", ids)
	}
}
