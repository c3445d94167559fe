package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"seva/shared/failure"
	"seva/shared/validator"
)

type claimRequest struct {
	InstituteUsername string   `json:"instituteUsername" validate:"required"`
	MealType          string   `json:"mealType"          validate:"required,oneof=Breakfast Lunch Dinner Others"`
	FoodItems         []string `json:"foodItems"         validate:"required,min=1,dive,required"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name:    "valid request",
			body:    `{"instituteUsername":"akshaya","mealType":"Lunch","foodItems":["Rice"]}`,
			wantErr: false,
		},
		{
			name:    "missing institute",
			body:    `{"mealType":"Lunch","foodItems":["Rice"]}`,
			wantErr: true,
		},
		{
			name:    "unknown meal type",
			body:    `{"instituteUsername":"akshaya","mealType":"Brunch","foodItems":["Rice"]}`,
			wantErr: true,
		},
		{
			name:    "empty items",
			body:    `{"instituteUsername":"akshaya","mealType":"Lunch","foodItems":[]}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"instituteUsername":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := claimRequest{}
			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("PENDING", "oneof=PENDING ACCEPTED REJECTED"))
	assert.Error(t, validator.ValidateVar("DRAFT", "oneof=PENDING ACCEPTED REJECTED"))
}
