package models

// Tag categories drive the separate filter groups in the browse UI.
const (
	TagCategoryCuisine = "cuisine"
	TagCategoryDietary = "dietary"
	TagCategoryOther   = "other"
)

// Tag is a label attached to recipes ("vegan", "Italian", "quick-meal").
// Names are unique across categories; listings are alphabetical.
type Tag struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"unique;not null" json:"name"`
	Category string `gorm:"not null;default:other;index" json:"category"`
}
