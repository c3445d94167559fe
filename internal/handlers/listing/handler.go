package listing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"seva/infras/otel"
	"seva/internal/domains/listing/model/dto"
	"seva/internal/domains/listing/service"
	"seva/shared/constant"
	"seva/shared/failure"
	"seva/shared/timezone"
	"seva/shared/validator"
	"seva/transport/http/middleware"
	"seva/transport/http/response"
)

type Handler struct {
	service    service.Listing
	middleware middleware.Auth
	otel       otel.Otel
}

func New(service service.Listing, middleware middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/listings", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Auth)
		routerGroup.Post("/", handler.AddItems)
		routerGroup.Get("/", handler.GetListing)
	})
}

// AddItems ingests food items into the calling institute's listing for today.
// @Summary Add food items to today's listing
// @Description Add food items to the calling institute's listing for today, grouped by meal type. Repeated calls append.
// @Tags Listing
// @Accept json
// @Produce json
// @Param request body dto.AddItemsRequest true "Add Items Request"
// @Success 201 {object} response.Message "Food items added successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [post]
// @Security BearerAuth
func (handler *Handler) AddItems(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddItems")
	defer scope.End()

	req := dto.AddItemsRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Add(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add food items")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusCreated, "Food items added successfully")
}

// GetListing retrieves an institute's listing for a day.
// @Summary Get a food listing
// @Description Retrieve an institute's food listing for a given day (today by default), grouped into meal buckets.
// @Tags Listing
// @Accept json
// @Produce json
// @Param instituteUsername query string true "Institute username"
// @Param date query string false "Day in YYYY-MM-DD form, defaults to today"
// @Success 200 {object} dto.ListingResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [get]
// @Security BearerAuth
func (handler *Handler) GetListing(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListing")
	defer scope.End()

	instituteUsername := request.URL.Query().Get(constant.RequestParamInstituteUsername)
	if instituteUsername == constant.Empty {
		err := failure.BadRequestFromString("instituteUsername is required")
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	day := timezone.Today()

	if raw := request.URL.Query().Get(constant.RequestParamDate); raw != constant.Empty {
		parsed, err := timezone.Parse(constant.DayBucketFmt, raw)
		if err != nil {
			err := failure.BadRequestFromString("date must be in YYYY-MM-DD form")
			scope.TraceError(err)

			response.WithError(writer, err)

			return
		}

		day = parsed
	}

	res, err := handler.service.Get(ctx, instituteUsername, day)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
