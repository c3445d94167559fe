//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"seva/config"
	"seva/infras/jwt"
	"seva/infras/kafka"
	"seva/infras/otel"
	"seva/infras/postgres"
	"seva/infras/redis"
	"seva/internal/events"
	"seva/internal/realtime"
	"seva/shared/cache"
	"seva/transport/http"
	"seva/transport/http/middleware"
	"seva/transport/http/router"

	bookingRepository "seva/internal/domains/booking/repository"
	bookingService "seva/internal/domains/booking/service"
	jobRepository "seva/internal/domains/job/repository"
	jobService "seva/internal/domains/job/service"
	listingRepository "seva/internal/domains/listing/repository"
	listingService "seva/internal/domains/listing/service"

	bookingHandler "seva/internal/handlers/booking"
	jobHandler "seva/internal/handlers/job"
	listingHandler "seva/internal/handlers/listing"
	realtimeHandler "seva/internal/handlers/realtime"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var realtimeCore = wire.NewSet(
	realtime.NewRegistry,
	realtime.NewRouter,
	events.NewPublisher,
)

var listingDomain = wire.NewSet(
	listingRepository.New,
	listingService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var jobDomain = wire.NewSet(
	jobRepository.New,
	jobService.New,
)

var domains = wire.NewSet(
	listingDomain,
	bookingDomain,
	jobDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	listingHandler.New,
	bookingHandler.New,
	jobHandler.New,
	realtimeHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		realtimeCore,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
