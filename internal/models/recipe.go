package models

import (
	"time"
)

// Recipe is the core entity: a dish with free-text ingredients, ordered
// steps, and categorized tags. PrepTime and CookTime are minutes; both are
// nullable because older recipes predate the time fields.
type Recipe struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `json:"image_url"`
	// Ingredients holds the legacy free-text block (one per line); structured
	// rows live in IngredientItems.
	Ingredients     string       `gorm:"type:text" json:"ingredients"`
	PrepTime        *int         `json:"prep_time"`
	CookTime        *int         `json:"cook_time"`
	UserID          uint         `gorm:"not null;index" json:"user_id"`
	User            User         `gorm:"foreignKey:UserID" json:"user"`
	Tags            []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Steps           []Step       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	IngredientItems []Ingredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredient_items,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// TotalTime returns prep + cook minutes, treating null as zero, and false
// when neither field is set.
func (r *Recipe) TotalTime() (int, bool) {
	if r.PrepTime == nil && r.CookTime == nil {
		return 0, false
	}
	total := 0
	if r.PrepTime != nil {
		total += *r.PrepTime
	}
	if r.CookTime != nil {
		total += *r.CookTime
	}
	return total, true
}

// Step is one numbered instruction belonging to a recipe.
// (recipe_id, step_number) is unique; steps read back in ascending order.
type Step struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	RecipeID        uint   `gorm:"not null;uniqueIndex:idx_recipe_step" json:"recipe_id"`
	StepNumber      int    `gorm:"not null;uniqueIndex:idx_recipe_step" json:"step_number"`
	InstructionText string `gorm:"type:text;not null" json:"instruction_text"`
}

// Ingredient is one structured ingredient row. Amount is free-form and
// optional ("2 cups", "a pinch").
type Ingredient struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RecipeID uint   `gorm:"not null;index" json:"recipe_id"`
	Name     string `gorm:"not null" json:"name"`
	Amount   string `json:"amount"`
}
