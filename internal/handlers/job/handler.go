package job

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"seva/infras/otel"
	"seva/internal/domains/job/model/dto"
	"seva/internal/domains/job/service"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/validator"
	"seva/transport/http/middleware"
	"seva/transport/http/response"
)

type Handler struct {
	service    service.Job
	middleware middleware.Auth
	otel       otel.Otel
}

func New(service service.Job, middleware middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/jobs", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Auth)
		routerGroup.Post("/", handler.CreateJob)
		routerGroup.Get("/", handler.GetJobs)
		routerGroup.Post("/{id}/apply", handler.Apply)
		routerGroup.Post("/applications/status", handler.UpdateApplicationStatus)
	})
}

// CreateJob posts a new job for the calling startup.
// @Summary Create a job posting
// @Description Create a job posting owned by the calling startup account.
// @Tags Job
// @Accept json
// @Produce json
// @Param request body dto.CreateJobRequest true "Create Job Request"
// @Success 201 {object} dto.JobResponse
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/jobs [post]
// @Security BearerAuth
func (handler *Handler) CreateJob(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateJob")
	defer scope.End()

	req := dto.CreateJobRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create job")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetJobs lists job postings.
// @Summary Get job postings
// @Description Retrieve job postings with pagination.
// @Tags Job
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.GetJobsResponse
// @Failure 500 {object} response.Error
// @Router /v1/jobs [get]
// @Security BearerAuth
func (handler *Handler) GetJobs(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetJobs")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	res, err := handler.service.GetAll(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get jobs")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// Apply files the calling individual's application to a job.
// @Summary Apply to a job
// @Description File the calling individual's application to a job. At most one application exists per (job, applicant).
// @Tags Job
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} response.Error "Already applied"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/jobs/{id}/apply [post]
// @Security BearerAuth
func (handler *Handler) Apply(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Apply")
	defer scope.End()

	jobID := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.Apply(ctx, jobID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to apply to job")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Application filed for job " + jobID)

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateApplicationStatus accepts or rejects a job application.
// @Summary Update an application's status
// @Description Accept or reject a pending application. Only the posting startup may decide; ACCEPTED and REJECTED are terminal.
// @Tags Job
// @Accept json
// @Produce json
// @Param request body dto.UpdateApplicationStatusRequest true "Update Application Status Request"
// @Success 200 {object} response.Message "Application status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/jobs/applications/status [post]
// @Security BearerAuth
func (handler *Handler) UpdateApplicationStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateApplicationStatus")
	defer scope.End()

	req := dto.UpdateApplicationStatusRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.UpdateApplicationStatus(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update application status")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Application status updated successfully")
}
