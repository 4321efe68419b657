package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"recipehub/internal/models"
	"recipehub/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupExperimentTest(t *testing.T) (*ExperimentService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.ABTestImpression{}, &models.ABTestClick{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return NewExperimentService(repository.NewABTestRepository(db)), db
}

func TestDrawVariantProducesBothValues(t *testing.T) {
	t.Parallel()

	svc, _ := setupExperimentTest(t)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		v := svc.DrawVariant()
		if v != models.VariantA && v != models.VariantB {
			t.Fatalf("unexpected variant %q", v)
		}
		seen[v] = true
	}
	// 200 fair draws missing a side is a ~1e-60 event.
	if !seen[models.VariantA] || !seen[models.VariantB] {
		t.Fatalf("expected both variants over 200 draws, saw %v", seen)
	}
}

func TestVariantLabelMapping(t *testing.T) {
	t.Parallel()

	if got := models.VariantLabel(models.VariantA); got != "kudos" {
		t.Fatalf("variant A label = %q", got)
	}
	if got := models.VariantLabel(models.VariantB); got != "thanks" {
		t.Fatalf("variant B label = %q", got)
	}
}

func TestLogImpressionTruncatesUserAgent(t *testing.T) {
	t.Parallel()

	svc, db := setupExperimentTest(t)

	longUA := strings.Repeat("x", models.MaxUserAgentLen+500)
	id, ok := svc.LogImpression(context.Background(), models.VariantA, "/c50afae/", "127.0.0.1", longUA)
	if !ok || id == 0 {
		t.Fatalf("expected impression logged, got id=%d ok=%v", id, ok)
	}

	var imp models.ABTestImpression
	if err := db.First(&imp, id).Error; err != nil {
		t.Fatalf("reload impression: %v", err)
	}
	if len(imp.UserAgent) != models.MaxUserAgentLen {
		t.Fatalf("expected user agent truncated to %d, got %d", models.MaxUserAgentLen, len(imp.UserAgent))
	}
}

func TestLogClickUnknownImpressionStillRecords(t *testing.T) {
	t.Parallel()

	svc, db := setupExperimentTest(t)

	err := svc.LogClick(context.Background(), ClickInput{
		Variant:      models.VariantB,
		ImpressionID: 9999,
		Path:         "/c50afae/",
	})
	if err != nil {
		t.Fatalf("log click: %v", err)
	}

	var click models.ABTestClick
	if err := db.First(&click).Error; err != nil {
		t.Fatalf("click missing: %v", err)
	}
	if click.ImpressionID != nil {
		t.Fatalf("unknown impression must not be linked, got %v", *click.ImpressionID)
	}
}

func TestLogClickRejectsUnknownVariant(t *testing.T) {
	t.Parallel()

	svc, db := setupExperimentTest(t)

	err := svc.LogClick(context.Background(), ClickInput{Variant: "Z"})
	appErr, ok := err.(*models.AppError)
	if !ok || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error, got %v", err)
	}

	var count int64
	db.Model(&models.ABTestClick{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected click must not be stored, got %d", count)
	}
}

func TestCountsZeroFilled(t *testing.T) {
	t.Parallel()

	svc, _ := setupExperimentTest(t)

	stats, err := svc.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected both variants, got %d", len(stats))
	}
	for _, row := range stats {
		if row.Impressions != 0 || row.Clicks != 0 || row.CTR != 0 {
			t.Fatalf("expected zero stats, got %+v", row)
		}
	}
}

func TestCountsComputesCTR(t *testing.T) {
	t.Parallel()

	svc, db := setupExperimentTest(t)

	for i := 0; i < 4; i++ {
		if err := db.Create(&models.ABTestImpression{Variant: models.VariantA}).Error; err != nil {
			t.Fatalf("create impression: %v", err)
		}
	}
	if err := db.Create(&models.ABTestClick{Variant: models.VariantA}).Error; err != nil {
		t.Fatalf("create click: %v", err)
	}

	stats, err := svc.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	for _, row := range stats {
		if row.Variant == models.VariantA {
			if row.Impressions != 4 || row.Clicks != 1 || row.CTR != 0.25 {
				t.Fatalf("unexpected A stats: %+v", row)
			}
		}
	}
}

func TestTruncateUserAgentKeepsValidUTF8(t *testing.T) {
	t.Parallel()

	// Two-byte runes straddling the byte limit must not be cut in half.
	ua := strings.Repeat("x", models.MaxUserAgentLen-1) + "éé"
	got := truncateUserAgent(ua)

	if len(got) > models.MaxUserAgentLen {
		t.Fatalf("truncated to %d bytes, limit is %d", len(got), models.MaxUserAgentLen)
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncated user agent is not valid UTF-8")
	}
	if want := strings.Repeat("x", models.MaxUserAgentLen-1); got != want {
		t.Fatalf("expected the straddling rune dropped, kept %d bytes", len(got))
	}

	if short := truncateUserAgent("short"); short != "short" {
		t.Fatalf("short agents pass through unchanged, got %q", short)
	}
}
