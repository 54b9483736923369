// Package main provides a tool to seed the database with test recipe data.
//
// This creates test users and fills their accounts with realistic recipes,
// tags, and ingredients to exercise list, label, and search features.
//
// Usage:
//
//	DATA_PATH=~/RecipeApp/data go run ./cmd/seed
//	DATA_PATH=~/RecipeApp/data go run ./cmd/seed --users 5
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/NickNterm/recipeapp-server/internal/auth"
	"github.com/NickNterm/recipeapp-server/internal/domain"
	"github.com/NickNterm/recipeapp-server/internal/id"
	"github.com/NickNterm/recipeapp-server/internal/store/sqlite"
)

var userCount = flag.Int("users", 3, "Number of test users to create (max 5)")

// testUserNames are display names for generated test users.
var testUserNames = []string{
	"Alex Rivera",
	"Jordan Chen",
	"Sam Taylor",
	"Casey Morgan",
	"Riley Kim",
}

// seedRecipe is one entry in the sample recipe pool.
type seedRecipe struct {
	title       string
	description string
	timeMinutes int
	price       string
	link        string
	tags        []string
	ingredients []string
}

// seedRecipes is a pool of realistic sample recipes.
var seedRecipes = []seedRecipe{
	{
		title:       "Spaghetti Carbonara",
		description: "Classic Roman pasta with eggs, cheese, and guanciale.",
		timeMinutes: 25,
		price:       "8.50",
		link:        "https://example.com/carbonara",
		tags:        []string{"Italian", "Dinner"},
		ingredients: []string{"Spaghetti", "Eggs", "Pecorino", "Guanciale"},
	},
	{
		title:       "Green Thai Curry",
		description: "Fragrant coconut curry with vegetables and basil.",
		timeMinutes: 40,
		price:       "11.00",
		tags:        []string{"Thai", "Spicy", "Dinner"},
		ingredients: []string{"Coconut Milk", "Green Curry Paste", "Basil", "Chicken"},
	},
	{
		title:       "Avocado Toast",
		description: "Sourdough with smashed avocado, chili flakes, and lime.",
		timeMinutes: 10,
		price:       "4.25",
		tags:        []string{"Breakfast", "Vegetarian"},
		ingredients: []string{"Sourdough", "Avocado", "Lime", "Chili Flakes"},
	},
	{
		title:       "Beef Bourguignon",
		description: "Slow-braised beef in red wine with pearl onions.",
		timeMinutes: 180,
		price:       "22.75",
		tags:        []string{"French", "Dinner", "Slow Cook"},
		ingredients: []string{"Beef Chuck", "Red Wine", "Pearl Onions", "Carrot", "Bacon"},
	},
	{
		title:       "Shakshuka",
		description: "Eggs poached in spiced tomato and pepper sauce.",
		timeMinutes: 30,
		price:       "6.50",
		tags:        []string{"Breakfast", "Vegetarian", "Middle Eastern"},
		ingredients: []string{"Eggs", "Tomatoes", "Bell Pepper", "Cumin", "Paprika"},
	},
	{
		title:       "Chicken Tikka Masala",
		description: "Grilled chicken in a creamy spiced tomato sauce.",
		timeMinutes: 60,
		price:       "13.25",
		tags:        []string{"Indian", "Dinner", "Spicy"},
		ingredients: []string{"Chicken", "Yogurt", "Tomatoes", "Cream", "Garam Masala"},
	},
	{
		title:       "Caesar Salad",
		description: "Romaine, parmesan, croutons, and anchovy dressing.",
		timeMinutes: 15,
		price:       "7.00",
		tags:        []string{"Salad", "Lunch"},
		ingredients: []string{"Romaine", "Parmesan", "Croutons", "Anchovies", "Eggs"},
	},
	{
		title:       "Miso Ramen",
		description: "Rich miso broth with noodles, soft egg, and scallions.",
		timeMinutes: 50,
		price:       "9.75",
		tags:        []string{"Japanese", "Dinner", "Soup"},
		ingredients: []string{"Ramen Noodles", "Miso Paste", "Eggs", "Scallions", "Pork Belly"},
	},
	{
		title:       "Banana Pancakes",
		description: "Fluffy pancakes with caramelized banana and maple syrup.",
		timeMinutes: 20,
		price:       "5.50",
		tags:        []string{"Breakfast", "Sweet"},
		ingredients: []string{"Flour", "Bananas", "Eggs", "Milk", "Maple Syrup"},
	},
	{
		title:       "Falafel Wrap",
		description: "Crispy chickpea falafel with tahini and pickled onion.",
		timeMinutes: 45,
		price:       "6.75",
		tags:        []string{"Middle Eastern", "Vegetarian", "Lunch"},
		ingredients: []string{"Chickpeas", "Tahini", "Flatbread", "Parsley", "Red Onion"},
	},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/RecipeApp/data")
	}
	dbPath := filepath.Join(dataPath, "recipeapp.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	users := ensureTestUsers(ctx, s, min(*userCount, len(testUserNames)))
	if len(users) == 0 {
		log.Fatal("No test users available, nothing to seed")
	}

	// Seed random for variety (Go 1.20+ auto-seeds, but explicit for clarity)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, user := range users {
		fmt.Printf("\nSeeding recipes for user: %s (%s)\n", user.Name, user.ID)

		existing, err := s.CountRecipes(ctx, user.ID)
		if err != nil {
			log.Printf("Failed to count recipes for %s: %v", user.ID, err)
			continue
		}
		if existing > 0 {
			fmt.Printf("  User already has %d recipes, skipping\n", existing)
			continue
		}

		// Shuffle the pool and pick 6-9 recipes for this user
		shuffled := make([]seedRecipe, len(seedRecipes))
		copy(shuffled, seedRecipes)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		numRecipes := min(6+rng.Intn(4), len(shuffled))

		created := 0
		for _, seed := range shuffled[:numRecipes] {
			if err := createRecipe(ctx, s, user.ID, seed, rng); err != nil {
				log.Printf("  Failed to create %q: %v", seed.title, err)
				continue
			}
			created++
		}

		fmt.Printf("  Created %d recipes\n", created)
	}

	fmt.Println("\nSeeding complete!")
}

// createRecipe inserts one recipe for the user and attaches its labels.
func createRecipe(ctx context.Context, s *sqlite.Store, userID string, seed seedRecipe, rng *rand.Rand) error {
	recipe := &domain.Recipe{
		Entity: domain.Entity{
			ID: id.MustGenerate("recipe"),
		},
		UserID:      userID,
		Title:       seed.title,
		Description: seed.description,
		TimeMinutes: seed.timeMinutes,
		Price:       seed.price,
		Link:        seed.link,
	}
	recipe.InitTimestamps()

	// Spread creation times over the past two weeks so list ordering
	// looks realistic.
	offset := time.Duration(rng.Intn(14*24)) * time.Hour
	recipe.CreatedAt = recipe.CreatedAt.Add(-offset)
	recipe.UpdatedAt = recipe.CreatedAt

	if err := s.CreateRecipe(ctx, recipe); err != nil {
		return err
	}

	for _, name := range seed.tags {
		tag, _, err := s.FindOrCreateTagByName(ctx, userID, name)
		if err != nil {
			return fmt.Errorf("resolve tag %q: %w", name, err)
		}
		if err := s.AddRecipeTag(ctx, recipe.ID, tag.ID); err != nil {
			return fmt.Errorf("attach tag %q: %w", name, err)
		}
	}

	for _, name := range seed.ingredients {
		ingredient, _, err := s.FindOrCreateIngredientByName(ctx, userID, name)
		if err != nil {
			return fmt.Errorf("resolve ingredient %q: %w", name, err)
		}
		if err := s.AddRecipeIngredient(ctx, recipe.ID, ingredient.ID); err != nil {
			return fmt.Errorf("attach ingredient %q: %w", name, err)
		}
	}

	fmt.Printf("  Created: %s (%d tags, %d ingredients)\n", seed.title, len(seed.tags), len(seed.ingredients))
	return nil
}

// ensureTestUsers creates up to count test users, reusing any that already exist.
func ensureTestUsers(ctx context.Context, s *sqlite.Store, count int) []*domain.User {
	fmt.Println("\n=== Ensuring Test Users ===")

	passwordHash, err := auth.HashPassword("testpass123")
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return nil
	}

	var users []*domain.User
	for i := range count {
		name := testUserNames[i]
		email := fmt.Sprintf("test%d@example.com", i+1)

		if existing, err := s.GetUserByEmail(ctx, email); err == nil {
			fmt.Printf("  User %s already exists, reusing\n", email)
			users = append(users, existing)
			continue
		}

		user := &domain.User{
			Entity: domain.Entity{
				ID: id.MustGenerate("user"),
			},
			Email:        email,
			Name:         name,
			PasswordHash: passwordHash,
		}
		user.InitTimestamps()

		if err := s.CreateUser(ctx, user); err != nil {
			log.Printf("  Failed to create user %s: %v", name, err)
			continue
		}

		fmt.Printf("  Created user: %s (%s) password=testpass123\n", name, email)
		users = append(users, user)
	}

	fmt.Println("=== Test Users Ready ===")
	return users
}
