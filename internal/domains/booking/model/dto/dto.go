package dto

import (
	"github.com/google/uuid"

	"seva/internal/domains/booking/model"
	"seva/shared"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	gModel "seva/shared/model"
	"seva/shared/timezone"
)

type CreateBookingRequest struct {
	InstituteUsername string   `json:"instituteUsername" validate:"required"`
	MealType          string   `json:"mealType"          validate:"required,oneof=Breakfast Lunch Dinner Others"`
	FoodItems         []string `json:"foodItems"         validate:"required,min=1,dive,required"`
	NgoUsername       string   `json:"ngoUsername"       validate:"required"`
}

// ToModel builds the pending booking for the claimed subset.
func (c *CreateBookingRequest) ToModel(claimedNames []string) model.Booking {
	return model.Booking{
		ID:                uuid.NewString(),
		InstituteUsername: c.InstituteUsername,
		NgoUsername:       c.NgoUsername,
		MealType:          c.MealType,
		FoodItems:         claimedNames,
		Status:            constant.BookingStatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  c.NgoUsername,
			ModifiedBy: c.NgoUsername,
		},
	}
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

type BookingResponse struct {
	ID                string   `json:"id"`
	InstituteUsername string   `json:"instituteUsername"`
	NgoUsername       string   `json:"ngoUsername"`
	MealType          string   `json:"mealType"`
	FoodItems         []string `json:"foodItems"`
	Status            string   `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.InstituteUsername = model.InstituteUsername
	r.NgoUsername = model.NgoUsername
	r.MealType = model.MealType
	r.FoodItems = model.FoodItems
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
