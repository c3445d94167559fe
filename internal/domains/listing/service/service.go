package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"seva/config"
	"seva/infras/otel"
	"seva/internal/domains/listing/model"
	"seva/internal/domains/listing/model/dto"
	"seva/internal/domains/listing/repository"
	"seva/shared"
	"seva/shared/cache"
	"seva/shared/constant"
	"seva/shared/failure"
	gModel "seva/shared/model"
	"seva/shared/timezone"
)

const (
	cacheGetListing = "listing:get"
)

type Listing interface {
	Add(ctx context.Context, req dto.AddItemsRequest) error
	Get(ctx context.Context, instituteUsername string, day time.Time) (dto.ListingResponse, error)
}

type serviceImpl struct {
	repo  repository.Listing
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Listing, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Listing {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Add ingests food items into today's listing of the calling
// institute, creating the listing head on first use. Repeated calls
// append; same-named items are kept as distinct instances.
func (s *serviceImpl) Add(ctx context.Context, req dto.AddItemsRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Add")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleInstitute {
		return failure.Forbidden("only institutes can list food items") //nolint:wrapcheck
	}

	instituteUsername, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if instituteUsername == constant.Empty {
		return failure.Unauthorized("unauthorized") //nolint:wrapcheck
	}

	listing, err := s.findOrCreate(ctx, instituteUsername)
	if err != nil {
		return err
	}

	for mealType, bucket := range req.GroupByMealType() {
		items := dto.ToModels(listing.ID, mealType, bucket)

		if err = s.repo.InsertItems(ctx, items); err != nil {
			log.Error().Err(err).Str("mealType", mealType).Msg("failed to insert food items")

			return fmt.Errorf("failed to insert food items: %w", err)
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetListing, instituteUsername))
	}()

	return nil
}

func (s *serviceImpl) findOrCreate(ctx context.Context, instituteUsername string) (model.FoodListing, error) {
	today := timezone.Today()

	listing, err := s.repo.GetForDay(ctx, instituteUsername, today)
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing")

		return listing, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID != constant.Empty {
		return listing, nil
	}

	listing = model.FoodListing{
		ID:                uuid.NewString(),
		InstituteUsername: instituteUsername,
		ListingDate:       today,
		Version:           0,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  instituteUsername,
			ModifiedBy: instituteUsername,
		},
	}

	err = s.repo.Insert(ctx, listing)
	if err == nil {
		return listing, nil
	}

	// Two first-of-the-day ingestions can race on the unique
	// (institute, day) index; the loser adopts the winner's row.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
		listing, err = s.repo.GetForDay(ctx, instituteUsername, today)
		if err != nil {
			return listing, fmt.Errorf("failed to get listing after conflict: %w", err)
		}

		return listing, nil
	}

	log.Error().Err(err).Msg("failed to create listing")

	return listing, fmt.Errorf("failed to create listing: %w", err)
}

func (s *serviceImpl) Get(ctx context.Context, instituteUsername string, day time.Time) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetListing, instituteUsername, day.Format(constant.DayBucketFmt))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	listing, err := s.repo.GetForDay(ctx, instituteUsername, day)
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing")

		return res, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return res, failure.NotFound("listing not found") //nolint:wrapcheck
	}

	items, err := s.repo.GetAllItems(ctx, listing.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing items")

		return res, fmt.Errorf("failed to get listing items: %w", err)
	}

	res.FromModels(listing, items)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listing to cache")
		}
	}()

	return res, nil
}
