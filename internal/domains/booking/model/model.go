package model

import (
	"github.com/lib/pq"

	"seva/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                = "id"
	FieldInstituteUsername = "institute_username"
	FieldNgoUsername       = "ngo_username"
	FieldMealType          = "meal_type"
	FieldFoodItems         = "food_items"
	FieldStatus            = "status"
)

// Booking records an NGO's claim on a subset of an institute's
// listing. FoodItems holds the names that actually transitioned to
// CLAIMED, which may be fewer than were requested.
type Booking struct {
	ID                string         `db:"id"`
	InstituteUsername string         `db:"institute_username"`
	NgoUsername       string         `db:"ngo_username"`
	MealType          string         `db:"meal_type"`
	FoodItems         pq.StringArray `db:"food_items"`
	Status            string         `db:"status"`
	model.Metadata
}
