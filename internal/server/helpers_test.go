package server

import (
	"testing"

	"recipehub/internal/config"
	"recipehub/internal/models"
	"recipehub/internal/repository"
	"recipehub/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Recipe{},
		&models.Step{},
		&models.Ingredient{},
		&models.Favorite{},
		&models.ABTestImpression{},
		&models.ABTestClick{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// newTestServer wires a Server against in-memory sqlite with no Redis.
// Metrics middleware is left nil so repeated test setups don't re-register
// Prometheus collectors.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db := setupHandlerTestDB(t)

	cfg := &config.Config{
		Env:           "test",
		JWTSecret:     "test-secret-at-least-32-characters",
		AdminUsername: "admin",
	}

	s := &Server{
		config:       cfg,
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		recipeRepo:   repository.NewRecipeRepository(db),
		tagRepo:      repository.NewTagRepository(db),
		favoriteRepo: repository.NewFavoriteRepository(db),
		abRepo:       repository.NewABTestRepository(db),
	}
	s.recipeService = service.NewRecipeService(s.recipeRepo, s.tagRepo, db)
	s.favoriteService = service.NewFavoriteService(s.favoriteRepo, s.recipeRepo)
	s.experimentService = service.NewExperimentService(s.abRepo)

	return s, db
}

func newTestApp(s *Server) *fiber.App {
	app := fiber.New()
	s.SetupRoutes(app)
	return app
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func bearerToken(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}
