package repository

import (
	"context"

	"recipehub/internal/models"

	"gorm.io/gorm"
)

// VariantCounts holds per-variant impression and click totals for the
// analytics dashboard.
type VariantCounts struct {
	Impressions map[string]int64
	Clicks      map[string]int64
}

// ABTestRepository defines the interface for experiment log operations.
// Both tables are append-only; there are no update or delete methods.
type ABTestRepository interface {
	CreateImpression(ctx context.Context, imp *models.ABTestImpression) error
	CreateClick(ctx context.Context, click *models.ABTestClick) error
	GetImpression(ctx context.Context, id uint) (*models.ABTestImpression, error)
	CountsByVariant(ctx context.Context) (*VariantCounts, error)
}

type abTestRepository struct {
	db *gorm.DB
}

// NewABTestRepository creates a new A/B test repository
func NewABTestRepository(db *gorm.DB) ABTestRepository {
	return &abTestRepository{db: db}
}

func (r *abTestRepository) CreateImpression(ctx context.Context, imp *models.ABTestImpression) error {
	return r.db.WithContext(ctx).Create(imp).Error
}

func (r *abTestRepository) CreateClick(ctx context.Context, click *models.ABTestClick) error {
	return r.db.WithContext(ctx).Create(click).Error
}

func (r *abTestRepository) GetImpression(ctx context.Context, id uint) (*models.ABTestImpression, error) {
	var imp models.ABTestImpression
	if err := r.db.WithContext(ctx).First(&imp, id).Error; err != nil {
		return nil, err
	}
	return &imp, nil
}

type variantCountRow struct {
	Variant string
	Total   int64
}

// CountsByVariant computes grouped counts on demand; nothing is maintained
// incrementally.
func (r *abTestRepository) CountsByVariant(ctx context.Context) (*VariantCounts, error) {
	counts := &VariantCounts{
		Impressions: map[string]int64{models.VariantA: 0, models.VariantB: 0},
		Clicks:      map[string]int64{models.VariantA: 0, models.VariantB: 0},
	}

	var rows []variantCountRow
	if err := r.db.WithContext(ctx).
		Model(&models.ABTestImpression{}).
		Select("variant, COUNT(*) AS total").
		Group("variant").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts.Impressions[row.Variant] = row.Total
	}

	rows = rows[:0]
	if err := r.db.WithContext(ctx).
		Model(&models.ABTestClick{}).
		Select("variant, COUNT(*) AS total").
		Group("variant").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts.Clicks[row.Variant] = row.Total
	}

	return counts, nil
}
