package model

import (
	"time"

	"seva/shared/model"
)

const (
	TableName  = "food_listings"
	EntityName = "listing"

	FieldID                = "id"
	FieldInstituteUsername = "institute_username"
	FieldListingDate       = "listing_date"
	FieldVersion           = "version"
)

const (
	ItemTableName  = "food_items"
	ItemEntityName = "food_item"

	ItemFieldID           = "id"
	ItemFieldListingID    = "listing_id"
	ItemFieldMealType     = "meal_type"
	ItemFieldName         = "name"
	ItemFieldQuantity     = "quantity"
	ItemFieldAvailability = "availability"
	ItemFieldAddedAt      = "added_at"
)

// FoodListing is the per-institute, per-day catalog head. Version
// guards the item-availability state: every claim bumps it inside the
// claim transaction, so concurrent claimers serialize on it.
type FoodListing struct {
	ID                string    `db:"id"`
	InstituteUsername string    `db:"institute_username"`
	ListingDate       time.Time `db:"listing_date"`
	Version           int       `db:"version"`
	model.Metadata
}

type FoodItem struct {
	ID           string    `db:"id"`
	ListingID    string    `db:"listing_id"`
	MealType     string    `db:"meal_type"`
	Name         string    `db:"name"`
	Quantity     int       `db:"quantity"`
	Availability string    `db:"availability"`
	AddedAt      time.Time `db:"added_at"`
}
