// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"recipehub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumRecipes  int
	ShouldClean bool
}

// Seeder populates the database with test data. Safe to run repeatedly:
// fixed users and tags are get-or-created, generated data is additive.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

var cuisineTagNames = []string{"Italian", "Indian", "American", "Greek", "Mexican", "Asian"}

var dietaryTagNames = []string{"Vegetarian", "Vegan", "Gluten-Free", "Dairy-Free"}

var freeTagNames = []string{"dessert", "breakfast", "quick", "comfort food", "spicy", "one-pot", "weeknight"}

// ClearAll removes all seeded data. Deletion order respects foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"ab_test_clicks", "ab_test_impressions",
		"favorites", "recipe_tags", "steps", "ingredients",
		"recipes", "tags", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	log.Println("🧹 Cleared existing data")
	return nil
}

// SeedTags get-or-creates the fixed cuisine and dietary tag sets plus a few
// free-form tags.
func (s *Seeder) SeedTags() (map[string]*models.Tag, error) {
	byName := make(map[string]*models.Tag)

	create := func(name, category string) error {
		tag := &models.Tag{Name: name, Category: category}
		err := s.db.Where("name = ?", name).First(tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = &models.Tag{Name: name, Category: category}
			err = s.db.Create(tag).Error
		}
		if err != nil {
			return err
		}
		if tag.Category != category {
			tag.Category = category
			if err := s.db.Save(tag).Error; err != nil {
				return err
			}
		}
		byName[name] = tag
		return nil
	}

	for _, name := range cuisineTagNames {
		if err := create(name, models.TagCategoryCuisine); err != nil {
			return nil, err
		}
	}
	for _, name := range dietaryTagNames {
		if err := create(name, models.TagCategoryDietary); err != nil {
			return nil, err
		}
	}
	for _, name := range freeTagNames {
		if err := create(name, models.TagCategoryOther); err != nil {
			return nil, err
		}
	}

	log.Printf("✓ Tags: %d cuisine, %d dietary, %d free-form",
		len(cuisineTagNames), len(dietaryTagNames), len(freeTagNames))
	return byName, nil
}

// SeedUsers creates the fixed alice/bob/admin accounts plus count random
// users. All test users share the password "password123".
func (s *Seeder) SeedUsers(count int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	fixed := []*models.User{
		{Username: "alice", Email: "alice@example.com", Password: string(hash)},
		{Username: "bob", Email: "bob@example.com", Password: string(hash)},
		{Username: "admin", Email: "admin@example.com", Password: string(hash), IsAdmin: true},
	}

	var users []*models.User
	for _, u := range fixed {
		existing := &models.User{}
		err := s.db.Where("username = ?", u.Username).First(existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := s.db.Create(u).Error; err != nil {
				return nil, err
			}
			users = append(users, u)
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, existing)
	}

	for i := 0; i < count; i++ {
		u := &models.User{
			Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
			Email:    gofakeit.Email(),
			Password: string(hash),
		}
		if err := s.db.Create(u).Error; err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	log.Printf("✓ Users: %d (alice, bob, admin + %d random)", len(users), count)
	return users, nil
}

// SeedRecipes creates the curated recipes plus count generated ones, spread
// over the given users and tags, then favorites a few recipes per user.
func (s *Seeder) SeedRecipes(users []*models.User, tags map[string]*models.Tag, count int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to author recipes")
	}

	for _, data := range curatedRecipes {
		author := users[0]
		for _, u := range users {
			if u.Username == data.author {
				author = u
				break
			}
		}
		if _, err := s.createRecipe(author, data, tags); err != nil {
			return err
		}
	}

	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		if _, err := s.createRecipe(author, randomRecipe(), tags); err != nil {
			return err
		}
	}

	if err := s.seedFavorites(users); err != nil {
		return err
	}

	log.Printf("✓ Recipes: %d curated + %d generated", len(curatedRecipes), count)
	return nil
}

func (s *Seeder) createRecipe(author *models.User, data recipeData, tags map[string]*models.Tag) (*models.Recipe, error) {
	recipe := &models.Recipe{
		Title:       data.title,
		Description: data.description,
		ImageURL:    data.imageURL,
		Ingredients: data.ingredients,
		PrepTime:    data.prepTime,
		CookTime:    data.cookTime,
		UserID:      author.ID,
	}
	if err := s.db.Create(recipe).Error; err != nil {
		return nil, err
	}

	var attach []*models.Tag
	for _, name := range data.tags {
		if tag, ok := tags[name]; ok {
			attach = append(attach, tag)
		}
	}
	if len(attach) > 0 {
		if err := s.db.Model(recipe).Association("Tags").Append(attach); err != nil {
			return nil, err
		}
	}

	for i, text := range data.steps {
		step := models.Step{RecipeID: recipe.ID, StepNumber: i + 1, InstructionText: text}
		if err := s.db.Create(&step).Error; err != nil {
			return nil, err
		}
	}

	for _, ing := range data.ingredientRows {
		row := models.Ingredient{RecipeID: recipe.ID, Name: ing[0], Amount: ing[1]}
		if err := s.db.Create(&row).Error; err != nil {
			return nil, err
		}
	}

	return recipe, nil
}

// seedFavorites has each user favorite up to three recipes they didn't write.
func (s *Seeder) seedFavorites(users []*models.User) error {
	var recipes []*models.Recipe
	if err := s.db.Find(&recipes).Error; err != nil {
		return err
	}
	if len(recipes) == 0 {
		return nil
	}

	for _, u := range users {
		favorited := 0
		for attempt := 0; favorited < 3 && attempt < 10; attempt++ {
			recipe := recipes[rand.Intn(len(recipes))]
			if recipe.UserID == u.ID {
				continue
			}
			fav := models.Favorite{UserID: u.ID, RecipeID: recipe.ID}
			if err := s.db.Where("user_id = ? AND recipe_id = ?", u.ID, recipe.ID).
				FirstOrCreate(&fav).Error; err != nil {
				return err
			}
			favorited++
		}
	}
	return nil
}

// Seed runs the full pipeline with the given options.
func (s *Seeder) Seed(opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	tags, err := s.SeedTags()
	if err != nil {
		return err
	}
	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	return s.SeedRecipes(users, tags, opts.NumRecipes)
}
