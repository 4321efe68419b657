package models

import (
	"time"
)

// Experiment variants for the /c50afae page.
const (
	VariantA = "A"
	VariantB = "B"
)

// VariantLabel maps a variant to the button text it renders.
func VariantLabel(variant string) string {
	if variant == VariantB {
		return "thanks"
	}
	return "kudos"
}

// MaxUserAgentLen bounds stored user-agent strings so hostile headers cannot
// grow the analytics tables without limit.
const MaxUserAgentLen = 2000

// ABTestImpression records one page view of the experiment page.
// Rows are append-only; the application never mutates or deletes them.
type ABTestImpression struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Variant   string    `gorm:"size:1;not null;index" json:"variant"`
	Path      string    `json:"path"`
	IP        string    `json:"ip"`
	UserAgent string    `gorm:"size:2000" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// ABTestClick records one click of the experiment button. ImpressionID is
// nullable: clients that lost the impression id still get their click
// counted.
type ABTestClick struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	ImpressionID *uint             `json:"impression_id"`
	Impression   *ABTestImpression `gorm:"foreignKey:ImpressionID" json:"-"`
	Variant      string            `gorm:"size:1;not null;index" json:"variant"`
	Path         string            `json:"path"`
	IP           string            `json:"ip"`
	UserAgent    string            `gorm:"size:2000" json:"user_agent"`
	CreatedAt    time.Time         `json:"created_at"`
}
