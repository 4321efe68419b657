package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipehub/internal/models"
)

func TestExperimentPageDrawsKnownVariant(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	app := newTestApp(s)

	req := httptest.NewRequest(http.MethodGet, "/c50afae/", nil)
	req.Header.Set("User-Agent", "test-agent")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Variant string `json:"variant"`
		Label   string `json:"label"`
		Logged  bool   `json:"logged"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if payload.Variant != models.VariantA && payload.Variant != models.VariantB {
		t.Fatalf("unexpected variant %q", payload.Variant)
	}
	wantLabel := "kudos"
	if payload.Variant == models.VariantB {
		wantLabel = "thanks"
	}
	if payload.Label != wantLabel {
		t.Fatalf("variant %s should map to %q, got %q", payload.Variant, wantLabel, payload.Label)
	}
	if !payload.Logged {
		t.Fatal("expected impression to be logged")
	}

	var imp models.ABTestImpression
	if err := db.First(&imp).Error; err != nil {
		t.Fatalf("impression missing: %v", err)
	}
	if imp.Variant != payload.Variant {
		t.Fatalf("stored variant %q, served %q", imp.Variant, payload.Variant)
	}
	if imp.UserAgent != "test-agent" {
		t.Fatalf("unexpected user agent %q", imp.UserAgent)
	}
}

func TestExperimentClickUnknownVariant(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	app := newTestApp(s)

	resp, err := app.Test(postJSON(t, "/c50afae/click/", map[string]any{"variant": "C"}, ""))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&models.ABTestClick{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no clicks recorded, got %d", count)
	}
}

func TestExperimentClickFormEncoded(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	app := newTestApp(s)

	form := strings.NewReader("variant=B")
	req := httptest.NewRequest(http.MethodPost, "/c50afae/click/", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		OK bool `json:"ok"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !payload.OK {
		t.Fatal("expected ok response")
	}

	var click models.ABTestClick
	if err := db.First(&click).Error; err != nil {
		t.Fatalf("click missing: %v", err)
	}
	if click.Variant != models.VariantB {
		t.Fatalf("expected variant B, got %q", click.Variant)
	}
	if click.ImpressionID != nil {
		t.Fatalf("expected no impression link, got %v", *click.ImpressionID)
	}
}

func TestExperimentClickLinksImpression(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	app := newTestApp(s)

	imp := models.ABTestImpression{Variant: models.VariantA, Path: "/c50afae/"}
	if err := db.Create(&imp).Error; err != nil {
		t.Fatalf("create impression: %v", err)
	}

	resp, err := app.Test(postJSON(t, "/c50afae/click/",
		map[string]any{"variant": "A", "impression_id": imp.ID}, ""))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var click models.ABTestClick
	if err := db.First(&click).Error; err != nil {
		t.Fatalf("click missing: %v", err)
	}
	if click.ImpressionID == nil || *click.ImpressionID != imp.ID {
		t.Fatalf("expected click linked to impression %d, got %v", imp.ID, click.ImpressionID)
	}
}

func TestAnalyticsRequiresAdmin(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	app := newTestApp(s)
	user := createTestUser(t, db, "pleb")

	req := httptest.NewRequest(http.MethodGet, "/analytics/data", nil)
	req.Header.Set("Authorization", bearerToken(t, s, user))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestAnalyticsDataCounts(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	app := newTestApp(s)

	admin := createTestUser(t, db, "admin")
	db.Model(admin).Update("is_admin", true)

	seed := []models.ABTestImpression{
		{Variant: models.VariantA}, {Variant: models.VariantA}, {Variant: models.VariantB},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("create impression: %v", err)
		}
	}
	if err := db.Create(&models.ABTestClick{Variant: models.VariantA}).Error; err != nil {
		t.Fatalf("create click: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/analytics/data", nil)
	req.Header.Set("Authorization", bearerToken(t, s, admin))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Variants []struct {
			Variant     string `json:"variant"`
			Label       string `json:"label"`
			Impressions int64  `json:"impressions"`
			Clicks      int64  `json:"clicks"`
		} `json:"variants"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if len(payload.Variants) != 2 {
		t.Fatalf("expected both variants reported, got %d", len(payload.Variants))
	}
	byVariant := map[string]struct {
		label        string
		imps, clicks int64
	}{}
	for _, v := range payload.Variants {
		byVariant[v.Variant] = struct {
			label        string
			imps, clicks int64
		}{v.Label, v.Impressions, v.Clicks}
	}

	a := byVariant["A"]
	if a.label != "kudos" || a.imps != 2 || a.clicks != 1 {
		t.Fatalf("unexpected A stats: %+v", a)
	}
	b := byVariant["B"]
	if b.label != "thanks" || b.imps != 1 || b.clicks != 0 {
		t.Fatalf("unexpected B stats: %+v", b)
	}
}

func TestExperimentClickBadImpressionIDStillRecords(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	app := newTestApp(s)

	form := strings.NewReader("variant=A&impression_id=not-a-number")
	req := httptest.NewRequest(http.MethodPost, "/c50afae/click/", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Only the variant gates the 400; a garbled impression id is dropped.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var click models.ABTestClick
	if err := db.First(&click).Error; err != nil {
		t.Fatalf("click missing: %v", err)
	}
	if click.Variant != models.VariantA {
		t.Fatalf("expected variant A, got %q", click.Variant)
	}
	if click.ImpressionID != nil {
		t.Fatalf("expected unlinked click, got impression %v", *click.ImpressionID)
	}
}
