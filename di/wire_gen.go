// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"github.com/google/wire"
	"seva/config"
	"seva/infras/jwt"
	"seva/infras/kafka"
	"seva/infras/otel"
	"seva/infras/postgres"
	"seva/infras/redis"
	repository2 "seva/internal/domains/booking/repository"
	service2 "seva/internal/domains/booking/service"
	repository3 "seva/internal/domains/job/repository"
	service3 "seva/internal/domains/job/service"
	"seva/internal/domains/listing/repository"
	"seva/internal/domains/listing/service"
	"seva/internal/events"
	"seva/internal/handlers/booking"
	"seva/internal/handlers/job"
	"seva/internal/handlers/listing"
	realtime2 "seva/internal/handlers/realtime"
	"seva/internal/realtime"
	"seva/shared/cache"
	"seva/transport/http"
	"seva/transport/http/middleware"
	"seva/transport/http/router"
)

// Injectors from wire.go:

func InitializeService() *http.HTTP {
	configConfig := config.Get()
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryListing := repository.New(connection, otelOtel)
	client := redis.New(configConfig)
	redisCache := cache.NewRedisCache(client, otelOtel)
	serviceListing := service.New(repositoryListing, configConfig, redisCache, otelOtel)
	jwtJWT := jwt.New(configConfig)
	auth := middleware.NewAuthMiddleware(jwtJWT, otelOtel)
	handler := listing.New(serviceListing, auth, otelOtel)
	repositoryBooking := repository2.New(connection, otelOtel)
	registry := realtime.NewRegistry()
	realtimeRouter := realtime.NewRouter(registry, otelOtel)
	kafkaClient := kafka.New(configConfig)
	publisher := events.NewPublisher(kafkaClient, configConfig)
	serviceBooking := service2.New(repositoryBooking, repositoryListing, realtimeRouter, publisher, configConfig, redisCache, otelOtel)
	bookingHandler := booking.New(serviceBooking, auth, otelOtel)
	repositoryJob := repository3.New(connection, otelOtel)
	serviceJob := service3.New(repositoryJob, realtimeRouter, publisher, configConfig, redisCache, otelOtel)
	jobHandler := job.New(serviceJob, auth, otelOtel)
	realtimeHandler := realtime2.New(registry, auth, otelOtel)
	domainHandlers := router.DomainHandlers{
		Listing:  handler,
		Booking:  bookingHandler,
		Job:      jobHandler,
		Realtime: realtimeHandler,
	}
	routerRouter := router.New(domainHandlers)
	appMiddleware := middleware.NewAppMiddleware(otelOtel, configConfig, redisCache)
	httpHTTP := http.New(configConfig, routerRouter, appMiddleware)
	return httpHTTP
}

// wire.go:

var configurations = wire.NewSet(config.Get)

var infrastructures = wire.NewSet(postgres.New, otel.New, redis.New, jwt.New, kafka.New)

var middlewares = wire.NewSet(middleware.NewAppMiddleware, middleware.NewAuthMiddleware)

var sharedHelpers = wire.NewSet(cache.NewRedisCache)

var realtimeCore = wire.NewSet(realtime.NewRegistry, realtime.NewRouter, events.NewPublisher)

var listingDomain = wire.NewSet(repository.New, service.New)

var bookingDomain = wire.NewSet(repository2.New, service2.New)

var jobDomain = wire.NewSet(repository3.New, service3.New)

var domains = wire.NewSet(
	listingDomain,
	bookingDomain,
	jobDomain,
)

var routing = wire.NewSet(wire.Struct(new(router.DomainHandlers), "*"), listing.New, booking.New, job.New, realtime2.New, router.New)
