package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"seva/config"
	"seva/infras/otel"
	"seva/internal/domains/booking/model"
	"seva/internal/domains/booking/model/dto"
	"seva/internal/domains/booking/repository"
	listingModel "seva/internal/domains/listing/model"
	listingRepo "seva/internal/domains/listing/repository"
	"seva/internal/events"
	"seva/internal/realtime"
	"seva/shared"
	"seva/shared/cache"
	"seva/shared/constant"
	"seva/shared/failure"
	gDto "seva/shared/dto"
	"seva/shared/timezone"
)

const (
	cacheGetBookings = "booking:pending"
	cacheGetListing  = "listing:get"

	msgNewBookingRequest = "New booking request"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetPending(ctx context.Context, instituteUsername string, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	UpdateStatus(ctx context.Context, bookingID string, req dto.UpdateBookingStatusRequest) error
}

type serviceImpl struct {
	repo     repository.Booking
	listings listingRepo.Listing
	router   realtime.Router
	events   events.Publisher
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	listings listingRepo.Listing,
	router realtime.Router,
	events events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:     repo,
		listings: listings,
		router:   router,
		events:   events,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Create claims the requested items from today's listing of the
// institute and records a pending booking for them, as one atomic
// unit. Two concurrent claims for the same item can never both
// succeed: each claim is guarded by the listing version, and a stale
// read is retried a bounded number of times against fresh state.
// The claimed subset may be smaller than requested; only when no
// requested item is claimable does the call fail.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	for attempt := 0; attempt <= s.cfg.Booking.ClaimMaxRetry; attempt++ {
		listing, err := s.listings.GetForDay(ctx, req.InstituteUsername, timezone.Today())
		if err != nil {
			log.Error().Err(err).Msg("failed to get listing")

			return res, fmt.Errorf("failed to get listing: %w", err)
		}

		if listing.ID == constant.Empty {
			return res, failure.NotFound("listing not found") //nolint:wrapcheck
		}

		items, err := s.listings.GetItems(ctx, listing.ID, req.MealType)
		if err != nil {
			log.Error().Err(err).Msg("failed to get listing items")

			return res, fmt.Errorf("failed to get listing items: %w", err)
		}

		itemIDs, claimedNames := selectClaimable(items, req.FoodItems)
		if len(itemIDs) == 0 {
			return res, failure.BadRequestFromString("no items available") //nolint:wrapcheck
		}

		booking := req.ToModel(claimedNames)

		conflict, err := s.repo.CreateClaim(ctx, booking, listing.ID, listing.Version, itemIDs)
		if err != nil {
			log.Error().Err(err).Msg("failed to create claim")

			return res, fmt.Errorf("failed to create claim: %w", err)
		}

		if conflict {
			log.Debug().
				Int("attempt", attempt).
				Str("instituteUsername", req.InstituteUsername).
				Msg("claim lost listing version race, retrying")

			continue
		}

		s.afterClaim(ctx, booking)

		res.FromModel(booking)

		return res, nil
	}

	return res, failure.BadRequestFromString("no items available") //nolint:wrapcheck
}

// selectClaimable resolves requested names against the bucket. Each
// requested name consumes the first AVAILABLE instance in insertion
// order that an earlier request entry has not already taken. Names
// with no claimable instance are skipped.
func selectClaimable(items []listingModel.FoodItem, names []string) (itemIDs, claimedNames []string) {
	taken := make(map[string]bool, len(items))

	for _, name := range names {
		for i := range items {
			item := &items[i]
			if item.Name != name || item.Availability != constant.AvailabilityAvailable || taken[item.ID] {
				continue
			}

			taken[item.ID] = true
			itemIDs = append(itemIDs, item.ID)
			claimedNames = append(claimedNames, item.Name)

			break
		}
	}

	return itemIDs, claimedNames
}

func (s *serviceImpl) afterClaim(ctx context.Context, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		s.router.Route(c, booking.InstituteUsername, realtime.EventNewBookingRequest, realtime.NewBookingRequestPayload{
			Message:     msgNewBookingRequest,
			NgoUsername: booking.NgoUsername,
			FoodItems:   booking.FoodItems,
			MealType:    booking.MealType,
		})

		s.events.Publish(c, events.TypeBookingCreated, booking.NgoUsername, booking.ID, map[string]any{
			"instituteUsername": booking.InstituteUsername,
			"mealType":          booking.MealType,
			"foodItems":         booking.FoodItems,
		})

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetBookings, booking.InstituteUsername))
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetListing, booking.InstituteUsername))
	}()
}

// GetPending lists an institute's bookings still awaiting a decision.
func (s *serviceImpl) GetPending(ctx context.Context, instituteUsername string, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetPending")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByFields(model.TableName, map[string]any{
		model.FieldInstituteUsername: instituteUsername,
		model.FieldStatus:            constant.BookingStatusPending,
	})

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetBookings, instituteUsername), params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	res.FromModels(bookings, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

// UpdateStatus lets the receiving institute accept or reject a
// pending booking. Accepted and rejected are terminal; rejection does
// not return the claimed items to the listing.
func (s *serviceImpl) UpdateStatus(ctx context.Context, bookingID string, req dto.UpdateBookingStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	instituteUsername, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if booking.InstituteUsername != instituteUsername {
		return failure.Forbidden("only the receiving institute can update this booking") //nolint:wrapcheck
	}

	if booking.Status != constant.BookingStatusPending {
		return failure.BadRequestFromString("booking already resolved") //nolint:wrapcheck
	}

	err = s.repo.Update(ctx, map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: instituteUsername,
	}, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetBookings, booking.InstituteUsername))
	}()

	return nil
}
