package dto

import (
	"github.com/google/uuid"

	"seva/internal/domains/listing/model"
	"seva/shared/constant"
	"seva/shared/timezone"
)

type AddFoodItem struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
	MealType string `json:"mealType" validate:"required,oneof=Breakfast Lunch Dinner Others"`
}

type AddItemsRequest struct {
	FoodItems []AddFoodItem `json:"foodItems" validate:"required,min=1,dive"`
}

// GroupByMealType buckets the incoming items by their declared meal
// type, preserving submission order within each bucket.
func (r *AddItemsRequest) GroupByMealType() map[string][]AddFoodItem {
	grouped := map[string][]AddFoodItem{}

	for _, item := range r.FoodItems {
		grouped[item.MealType] = append(grouped[item.MealType], item)
	}

	return grouped
}

// ToModels converts one meal bucket into item rows for a listing.
// Items always start out AVAILABLE.
func ToModels(listingID, mealType string, items []AddFoodItem) []model.FoodItem {
	models := make([]model.FoodItem, len(items))
	for i, item := range items {
		models[i] = model.FoodItem{
			ID:           uuid.NewString(),
			ListingID:    listingID,
			MealType:     mealType,
			Name:         item.Name,
			Quantity:     item.Quantity,
			Availability: constant.AvailabilityAvailable,
			AddedAt:      timezone.Now(),
		}
	}

	return models
}

type FoodItemResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Availability string `json:"availability"`
	AddedAt      string `json:"added_at"`
}

func (r *FoodItemResponse) FromModel(model model.FoodItem) {
	r.ID = model.ID
	r.Name = model.Name
	r.Quantity = model.Quantity
	r.Availability = model.Availability
	r.AddedAt = timezone.Format(model.AddedAt, constant.DateFormat)
}

type MealBucketResponse struct {
	Type  string             `json:"type"`
	Items []FoodItemResponse `json:"items"`
}

type ListingResponse struct {
	ID                string               `json:"id"`
	InstituteUsername string               `json:"institute_username"`
	Date              string               `json:"date"`
	Meals             []MealBucketResponse `json:"meals"`
}

var mealOrder = []string{
	constant.MealTypeBreakfast,
	constant.MealTypeLunch,
	constant.MealTypeDinner,
	constant.MealTypeOthers,
}

func (r *ListingResponse) FromModels(listing model.FoodListing, items []model.FoodItem) {
	r.ID = listing.ID
	r.InstituteUsername = listing.InstituteUsername
	r.Date = timezone.Format(listing.ListingDate, constant.DayBucketFmt)

	buckets := map[string][]FoodItemResponse{}
	for _, item := range items {
		res := FoodItemResponse{}
		res.FromModel(item)

		buckets[item.MealType] = append(buckets[item.MealType], res)
	}

	r.Meals = []MealBucketResponse{}
	for _, mealType := range mealOrder {
		if bucket, ok := buckets[mealType]; ok {
			r.Meals = append(r.Meals, MealBucketResponse{Type: mealType, Items: bucket})
		}
	}
}
