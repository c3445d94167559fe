package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"seva/config"
	"seva/infras/otel/mocks"
	listingMocks "seva/internal/domains/listing/mocks"
	"seva/internal/domains/listing/model"
	"seva/internal/domains/listing/model/dto"
	"seva/internal/domains/listing/service"
	cacheMocks "seva/shared/cache/mocks"
	"seva/shared/constant"
	"seva/shared/failure"
	"seva/shared/timezone"
)

func newListingService(ctrl *gomock.Controller) (service.Listing, *listingMocks.MockListing, *cacheMocks.MockRedisCache) {
	mockRepo := listingMocks.NewMockListing(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func instituteContext(username string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, username)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleInstitute)
}

func TestListingService_Add(t *testing.T) {
	req := dto.AddItemsRequest{
		FoodItems: []dto.AddFoodItem{
			{Name: "Rice", Quantity: 5, MealType: constant.MealTypeLunch},
			{Name: "Bread", Quantity: 2, MealType: constant.MealTypeBreakfast},
			{Name: "Rice", Quantity: 3, MealType: constant.MealTypeLunch},
		},
	}

	existing := model.FoodListing{ID: "listing-1", InstituteUsername: "institute-1", ListingDate: timezone.Today()}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(repo *listingMocks.MockListing)
		wantCode  int
	}{
		{
			name: "appends to existing listing",
			ctx:  instituteContext("institute-1"),
			setupMock: func(repo *listingMocks.MockListing) {
				repo.EXPECT().
					GetForDay(gomock.Any(), "institute-1", gomock.Any()).
					Return(existing, nil)
				repo.EXPECT().
					InsertItems(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, items []model.FoodItem) {
						for _, item := range items {
							assert.Equal(t, "listing-1", item.ListingID)
							assert.Equal(t, constant.AvailabilityAvailable, item.Availability)
						}
					}).
					Return(nil).
					Times(2)
			},
		},
		{
			name: "creates listing on first ingestion",
			ctx:  instituteContext("institute-1"),
			setupMock: func(repo *listingMocks.MockListing) {
				repo.EXPECT().
					GetForDay(gomock.Any(), "institute-1", gomock.Any()).
					Return(model.FoodListing{}, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
				repo.EXPECT().
					InsertItems(gomock.Any(), gomock.Any()).
					Return(nil).
					Times(2)
			},
		},
		{
			name: "adopts concurrently created listing",
			ctx:  instituteContext("institute-1"),
			setupMock: func(repo *listingMocks.MockListing) {
				gomock.InOrder(
					repo.EXPECT().
						GetForDay(gomock.Any(), "institute-1", gomock.Any()).
						Return(model.FoodListing{}, nil),
					repo.EXPECT().
						Insert(gomock.Any(), gomock.Any()).
						Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)}),
					repo.EXPECT().
						GetForDay(gomock.Any(), "institute-1", gomock.Any()).
						Return(existing, nil),
				)
				repo.EXPECT().
					InsertItems(gomock.Any(), gomock.Any()).
					Return(nil).
					Times(2)
			},
		},
		{
			name: "ngo forbidden",
			ctx: context.WithValue(
				context.WithValue(context.Background(), constant.ContextKeyUserID, "ngo-1"),
				constant.ContextKeyUserRole, constant.RoleNGO,
			),
			setupMock: func(repo *listingMocks.MockListing) {},
			wantCode:  http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, mockRepo, mockCache := newListingService(ctrl)
			mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			tt.setupMock(mockRepo)

			err := svc.Add(tt.ctx, req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestListingService_Get(t *testing.T) {
	day := timezone.Today()
	listing := model.FoodListing{ID: "listing-1", InstituteUsername: "institute-1", ListingDate: day}

	tests := []struct {
		name      string
		setupMock func(repo *listingMocks.MockListing, cache *cacheMocks.MockRedisCache)
		wantCode  int
		wantMeals int
	}{
		{
			name: "groups items into ordered meal buckets",
			setupMock: func(repo *listingMocks.MockListing, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					GetForDay(gomock.Any(), "institute-1", day).
					Return(listing, nil)
				repo.EXPECT().
					GetAllItems(gomock.Any(), "listing-1").
					Return([]model.FoodItem{
						{ID: "item-1", MealType: constant.MealTypeLunch, Name: "Rice", Availability: constant.AvailabilityAvailable},
						{ID: "item-2", MealType: constant.MealTypeBreakfast, Name: "Bread", Availability: constant.AvailabilityClaimed},
					}, nil)
				cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), 3600).
					Return(nil).
					AnyTimes()
			},
			wantMeals: 2,
		},
		{
			name: "listing not found",
			setupMock: func(repo *listingMocks.MockListing, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					GetForDay(gomock.Any(), "institute-1", day).
					Return(model.FoodListing{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, mockRepo, mockCache := newListingService(ctrl)
			tt.setupMock(mockRepo, mockCache)

			res, err := svc.Get(context.Background(), "institute-1", day)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "listing-1", res.ID)
			assert.Len(t, res.Meals, tt.wantMeals)

			// Breakfast sorts ahead of Lunch regardless of row order.
			assert.Equal(t, constant.MealTypeBreakfast, res.Meals[0].Type)
			assert.Equal(t, constant.MealTypeLunch, res.Meals[1].Type)
		})
	}
}
