package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"seva/config"
	"seva/infras/otel/mocks"
	bookingMocks "seva/internal/domains/booking/mocks"
	"seva/internal/domains/booking/model"
	"seva/internal/domains/booking/model/dto"
	"seva/internal/domains/booking/service"
	listingMocks "seva/internal/domains/listing/mocks"
	listingModel "seva/internal/domains/listing/model"
	eventMocks "seva/internal/events/mocks"
	"seva/internal/realtime"
	realtimeMocks "seva/internal/realtime/mocks"
	cacheMocks "seva/shared/cache/mocks"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/failure"
)

type bookingFixture struct {
	repo     *bookingMocks.MockBooking
	listings *listingMocks.MockListing
	router   *realtimeMocks.MockRouter
	events   *eventMocks.MockPublisher
	cache    *cacheMocks.MockRedisCache
	svc      service.Booking
}

func newBookingFixture(ctrl *gomock.Controller) *bookingFixture {
	f := &bookingFixture{
		repo:     bookingMocks.NewMockBooking(ctrl),
		listings: listingMocks.NewMockListing(ctrl),
		router:   realtimeMocks.NewMockRouter(ctrl),
		events:   eventMocks.NewMockPublisher(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.ClaimMaxRetry = 3

	f.svc = service.New(f.repo, f.listings, f.router, f.events, cfg, f.cache, mocks.NewOtel())

	return f
}

func (f *bookingFixture) allowAsyncSideEffects() {
	f.router.EXPECT().Route(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func availableItem(id, name string) listingModel.FoodItem {
	return listingModel.FoodItem{
		ID:           id,
		ListingID:    "listing-1",
		MealType:     constant.MealTypeLunch,
		Name:         name,
		Quantity:     1,
		Availability: constant.AvailabilityAvailable,
	}
}

func claimedItem(id, name string) listingModel.FoodItem {
	item := availableItem(id, name)
	item.Availability = constant.AvailabilityClaimed

	return item
}

func TestBookingService_Create(t *testing.T) {
	req := dto.CreateBookingRequest{
		InstituteUsername: "institute-1",
		MealType:          constant.MealTypeLunch,
		FoodItems:         []string{"Rice"},
		NgoUsername:       "ngo-1",
	}

	listing := listingModel.FoodListing{ID: "listing-1", InstituteUsername: "institute-1", Version: 2}

	tests := []struct {
		name      string
		setupMock func(f *bookingFixture)
		wantCode  int
	}{
		{
			name: "successful claim",
			setupMock: func(f *bookingFixture) {
				f.listings.EXPECT().
					GetForDay(gomock.Any(), "institute-1", gomock.Any()).
					Return(listing, nil)
				f.listings.EXPECT().
					GetItems(gomock.Any(), "listing-1", constant.MealTypeLunch).
					Return([]listingModel.FoodItem{availableItem("item-1", "Rice")}, nil)
				f.repo.EXPECT().
					CreateClaim(gomock.Any(), gomock.Any(), "listing-1", 2, []string{"item-1"}).
					Return(false, nil)
			},
		},
		{
			name: "listing not found",
			setupMock: func(f *bookingFixture) {
				f.listings.EXPECT().
					GetForDay(gomock.Any(), "institute-1", gomock.Any()).
					Return(listingModel.FoodListing{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "no items available",
			setupMock: func(f *bookingFixture) {
				f.listings.EXPECT().
					GetForDay(gomock.Any(), "institute-1", gomock.Any()).
					Return(listing, nil)
				f.listings.EXPECT().
					GetItems(gomock.Any(), "listing-1", constant.MealTypeLunch).
					Return([]listingModel.FoodItem{claimedItem("item-1", "Rice")}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "requested name not listed",
			setupMock: func(f *bookingFixture) {
				f.listings.EXPECT().
					GetForDay(gomock.Any(), "institute-1", gomock.Any()).
					Return(listing, nil)
				f.listings.EXPECT().
					GetItems(gomock.Any(), "listing-1", constant.MealTypeLunch).
					Return([]listingModel.FoodItem{availableItem("item-1", "Bread")}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "version conflict then success on retry",
			setupMock: func(f *bookingFixture) {
				f.listings.EXPECT().
					GetForDay(gomock.Any(), "institute-1", gomock.Any()).
					Return(listing, nil).
					Times(2)
				f.listings.EXPECT().
					GetItems(gomock.Any(), "listing-1", constant.MealTypeLunch).
					Return([]listingModel.FoodItem{availableItem("item-1", "Rice")}, nil).
					Times(2)
				gomock.InOrder(
					f.repo.EXPECT().
						CreateClaim(gomock.Any(), gomock.Any(), "listing-1", 2, []string{"item-1"}).
						Return(true, nil),
					f.repo.EXPECT().
						CreateClaim(gomock.Any(), gomock.Any(), "listing-1", 2, []string{"item-1"}).
						Return(false, nil),
				)
			},
		},
		{
			name: "retries exhausted",
			setupMock: func(f *bookingFixture) {
				f.listings.EXPECT().
					GetForDay(gomock.Any(), "institute-1", gomock.Any()).
					Return(listing, nil).
					Times(4)
				f.listings.EXPECT().
					GetItems(gomock.Any(), "listing-1", constant.MealTypeLunch).
					Return([]listingModel.FoodItem{availableItem("item-1", "Rice")}, nil).
					Times(4)
				f.repo.EXPECT().
					CreateClaim(gomock.Any(), gomock.Any(), "listing-1", 2, []string{"item-1"}).
					Return(true, nil).
					Times(4)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "repository error",
			setupMock: func(f *bookingFixture) {
				f.listings.EXPECT().
					GetForDay(gomock.Any(), "institute-1", gomock.Any()).
					Return(listing, nil)
				f.listings.EXPECT().
					GetItems(gomock.Any(), "listing-1", constant.MealTypeLunch).
					Return([]listingModel.FoodItem{availableItem("item-1", "Rice")}, nil)
				f.repo.EXPECT().
					CreateClaim(gomock.Any(), gomock.Any(), "listing-1", 2, []string{"item-1"}).
					Return(false, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newBookingFixture(ctrl)
			f.allowAsyncSideEffects()
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "institute-1", res.InstituteUsername)
			assert.Equal(t, "ngo-1", res.NgoUsername)
			assert.Equal(t, []string{"Rice"}, res.FoodItems)
			assert.Equal(t, constant.BookingStatusPending, res.Status)
		})
	}
}

func TestBookingService_Create_NotifiesInstitute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBookingFixture(ctrl)

	f.listings.EXPECT().
		GetForDay(gomock.Any(), "institute-1", gomock.Any()).
		Return(listingModel.FoodListing{ID: "listing-1", InstituteUsername: "institute-1", Version: 1}, nil)
	f.listings.EXPECT().
		GetItems(gomock.Any(), "listing-1", constant.MealTypeLunch).
		Return([]listingModel.FoodItem{availableItem("item-1", "Rice")}, nil)
	f.repo.EXPECT().
		CreateClaim(gomock.Any(), gomock.Any(), "listing-1", 1, []string{"item-1"}).
		Return(false, nil)

	routed := make(chan realtime.NewBookingRequestPayload, 1)
	f.router.EXPECT().
		Route(gomock.Any(), "institute-1", realtime.EventNewBookingRequest, gomock.Any()).
		Do(func(_ context.Context, _, _ string, payload any) {
			routed <- payload.(realtime.NewBookingRequestPayload)
		})
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	_, err := f.svc.Create(context.Background(), dto.CreateBookingRequest{
		InstituteUsername: "institute-1",
		MealType:          constant.MealTypeLunch,
		FoodItems:         []string{"Rice"},
		NgoUsername:       "ngo-1",
	})
	assert.NoError(t, err)

	select {
	case payload := <-routed:
		assert.Equal(t, "New booking request", payload.Message)
		assert.Equal(t, "ngo-1", payload.NgoUsername)
		assert.Equal(t, []string{"Rice"}, payload.FoodItems)
		assert.Equal(t, constant.MealTypeLunch, payload.MealType)
	case <-time.After(2 * time.Second):
		t.Fatal("expected newBookingRequest to be routed")
	}
}

func TestBookingService_Create_DuplicateNamesClaimDistinctInstances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBookingFixture(ctrl)
	f.allowAsyncSideEffects()

	f.listings.EXPECT().
		GetForDay(gomock.Any(), "institute-1", gomock.Any()).
		Return(listingModel.FoodListing{ID: "listing-1", Version: 0}, nil)
	f.listings.EXPECT().
		GetItems(gomock.Any(), "listing-1", constant.MealTypeLunch).
		Return([]listingModel.FoodItem{
			claimedItem("item-1", "Rice"),
			availableItem("item-2", "Rice"),
			availableItem("item-3", "Rice"),
		}, nil)

	// Each requested "Rice" takes the next AVAILABLE instance in
	// insertion order.
	f.repo.EXPECT().
		CreateClaim(gomock.Any(), gomock.Any(), "listing-1", 0, []string{"item-2", "item-3"}).
		Return(false, nil)

	res, err := f.svc.Create(context.Background(), dto.CreateBookingRequest{
		InstituteUsername: "institute-1",
		MealType:          constant.MealTypeLunch,
		FoodItems:         []string{"Rice", "Rice"},
		NgoUsername:       "ngo-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"Rice", "Rice"}, res.FoodItems)
}

func TestBookingService_GetPending(t *testing.T) {
	params := gDto.QueryParams{Limit: 10, Page: 1}

	tests := []struct {
		name      string
		setupMock func(f *bookingFixture)
		wantErr   bool
		wantTotal int
	}{
		{
			name: "successful get from repository",
			setupMock: func(f *bookingFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				f.repo.EXPECT().
					GetAll(gomock.Any(), params, gomock.Any()).
					Return([]model.Booking{
						{ID: "booking-1", InstituteUsername: "institute-1", NgoUsername: "ngo-1", Status: constant.BookingStatusPending},
					}, nil)
				f.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)
				f.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), 3600).
					Return(nil).
					AnyTimes()
			},
			wantTotal: 1,
		},
		{
			name: "repository error",
			setupMock: func(f *bookingFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				f.repo.EXPECT().
					GetAll(gomock.Any(), params, gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newBookingFixture(ctrl)
			tt.setupMock(f)

			res, err := f.svc.GetPending(context.Background(), "institute-1", params)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalData)
			assert.Len(t, res.Bookings, tt.wantTotal)
		})
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	pending := model.Booking{
		ID:                "booking-1",
		InstituteUsername: "institute-1",
		NgoUsername:       "ngo-1",
		Status:            constant.BookingStatusPending,
	}

	tests := []struct {
		name      string
		userID    string
		setupMock func(f *bookingFixture)
		wantCode  int
	}{
		{
			name:   "institute accepts",
			userID: "institute-1",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:   "booking not found",
			userID: "institute-1",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "other institute forbidden",
			userID: "institute-2",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "already resolved",
			userID: "institute-1",
			setupMock: func(f *bookingFixture) {
				resolved := pending
				resolved.Status = constant.BookingStatusAccepted
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(resolved, nil)
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newBookingFixture(ctrl)
			f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			tt.setupMock(f)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, tt.userID)
			err := f.svc.UpdateStatus(ctx, "booking-1", dto.UpdateBookingStatusRequest{Status: constant.BookingStatusAccepted})

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
