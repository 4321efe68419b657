package service

import (
	"context"
	"math/rand/v2"
	"unicode/utf8"

	"recipehub/internal/middleware"
	"recipehub/internal/models"
	"recipehub/internal/repository"
)

// ExperimentService runs the button-copy experiment: variant assignment,
// impression/click logging, and the on-demand analytics aggregation.
//
// Logging is best effort. A storage failure is counted and logged but never
// surfaces to the visitor; the page always renders.
type ExperimentService struct {
	abRepo repository.ABTestRepository
}

// NewExperimentService creates an experiment service.
func NewExperimentService(abRepo repository.ABTestRepository) *ExperimentService {
	return &ExperimentService{abRepo: abRepo}
}

// DrawVariant picks "A" or "B" uniformly at random. Stateless: every request
// draws fresh, with no cookie or session stickiness.
func (s *ExperimentService) DrawVariant() string {
	if rand.IntN(2) == 0 {
		return models.VariantA
	}
	return models.VariantB
}

// LogImpression records a page view for the drawn variant. Returns the
// impression ID and whether the write landed; on failure the ID is zero.
func (s *ExperimentService) LogImpression(ctx context.Context, variant, path, ip, userAgent string) (uint, bool) {
	imp := &models.ABTestImpression{
		Variant:   variant,
		Path:      path,
		IP:        ip,
		UserAgent: truncateUserAgent(userAgent),
	}
	if err := s.abRepo.CreateImpression(ctx, imp); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to log experiment impression",
			"variant", variant, "error", err)
		middleware.ExperimentLogFailures.WithLabelValues("impression").Inc()
		return 0, false
	}
	return imp.ID, true
}

// ClickInput is a reported button click.
type ClickInput struct {
	Variant      string
	ImpressionID uint
	Path         string
	IP           string
	UserAgent    string
}

// LogClick records a button click. An unknown variant is rejected; an
// impression ID that matches no stored impression is recorded as a click
// without one. Storage failures are swallowed after counting.
func (s *ExperimentService) LogClick(ctx context.Context, in ClickInput) error {
	if in.Variant != models.VariantA && in.Variant != models.VariantB {
		return models.NewValidationError("Unknown experiment variant")
	}

	click := &models.ABTestClick{
		Variant:   in.Variant,
		Path:      in.Path,
		IP:        in.IP,
		UserAgent: truncateUserAgent(in.UserAgent),
	}

	if in.ImpressionID != 0 {
		imp, err := s.abRepo.GetImpression(ctx, in.ImpressionID)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "failed to resolve experiment impression",
				"impression_id", in.ImpressionID, "error", err)
		} else if imp != nil {
			click.ImpressionID = &imp.ID
		}
	}

	if err := s.abRepo.CreateClick(ctx, click); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to log experiment click",
			"variant", in.Variant, "error", err)
		middleware.ExperimentLogFailures.WithLabelValues("click").Inc()
	}
	return nil
}

// VariantStats is one row of the analytics report.
type VariantStats struct {
	Variant     string  `json:"variant"`
	Label       string  `json:"label"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

// Counts aggregates stored impressions and clicks per variant. Both variants
// always appear, zero-filled when no traffic has been logged.
func (s *ExperimentService) Counts(ctx context.Context) ([]VariantStats, error) {
	counts, err := s.abRepo.CountsByVariant(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]VariantStats, 0, 2)
	for _, variant := range []string{models.VariantA, models.VariantB} {
		row := VariantStats{
			Variant:     variant,
			Label:       models.VariantLabel(variant),
			Impressions: counts.Impressions[variant],
			Clicks:      counts.Clicks[variant],
		}
		if row.Impressions > 0 {
			row.CTR = float64(row.Clicks) / float64(row.Impressions)
		}
		stats = append(stats, row)
	}
	return stats, nil
}

// truncateUserAgent bounds the stored header, backing up to a rune boundary
// so the result stays valid UTF-8 for the database.
func truncateUserAgent(ua string) string {
	if len(ua) <= models.MaxUserAgentLen {
		return ua
	}
	cut := models.MaxUserAgentLen
	for cut > 0 && !utf8.RuneStart(ua[cut]) {
		cut--
	}
	return ua[:cut]
}
