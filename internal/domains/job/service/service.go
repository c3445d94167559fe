package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"seva/config"
	"seva/infras/otel"
	"seva/internal/domains/job/model"
	"seva/internal/domains/job/model/dto"
	"seva/internal/domains/job/repository"
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
	cacheGetJobs = "job:get"
)

type Job interface {
	Create(ctx context.Context, req dto.CreateJobRequest) (dto.JobResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams) (dto.GetJobsResponse, error)
	Apply(ctx context.Context, jobID string) (dto.ApplicationResponse, error)
	UpdateApplicationStatus(ctx context.Context, req dto.UpdateApplicationStatusRequest) error
}

type serviceImpl struct {
	repo   repository.Job
	router realtime.Router
	events events.Publisher
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
}

func New(
	repo repository.Job,
	router realtime.Router,
	events events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Job {
	return &serviceImpl{
		repo:   repo,
		router: router,
		events: events,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateJobRequest) (res dto.JobResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".job.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleStartup {
		return res, failure.Forbidden("only startups can post jobs") //nolint:wrapcheck
	}

	startupUsername, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if startupUsername == constant.Empty {
		return res, failure.Unauthorized("unauthorized") //nolint:wrapcheck
	}

	job := req.ToModel(startupUsername)

	if err = s.repo.Insert(ctx, job); err != nil {
		log.Error().Err(err).Msg("failed to insert job")

		return res, fmt.Errorf("failed to insert job: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetJobs)
	}()

	res.FromModel(job)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams) (res dto.GetJobsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".job.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{}
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetJobs, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	jobs, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get jobs")

		return res, fmt.Errorf("failed to get jobs: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count jobs")

		return res, fmt.Errorf("failed to count jobs: %w", err)
	}

	res.FromModels(jobs, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save jobs to cache")
		}
	}()

	return res, nil
}

// Apply files the calling individual's application to a job. At most
// one application ever exists per (job, applicant); a concurrent
// duplicate loses on the unique index, not on a read check. The
// posting startup is notified best-effort when present.
func (s *serviceImpl) Apply(ctx context.Context, jobID string) (res dto.ApplicationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".job.Apply")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleIndividual {
		return res, failure.Forbidden("only individuals can apply to jobs") //nolint:wrapcheck
	}

	applicantID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	applicantName, _ := ctx.Value(constant.ContextKeyUserName).(string)

	if applicantID == constant.Empty {
		return res, failure.Unauthorized("unauthorized") //nolint:wrapcheck
	}

	job, err := s.repo.Get(ctx, shared.FilterByID(jobID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get job")

		return res, fmt.Errorf("failed to get job: %w", err)
	}

	if job.ID == constant.Empty {
		return res, failure.NotFound("job not found") //nolint:wrapcheck
	}

	application := model.Application{
		ID:            uuid.NewString(),
		JobID:         job.ID,
		ApplicantID:   applicantID,
		ApplicantName: applicantName,
		Status:        constant.ApplicationStatusPending,
		AppliedAt:     timezone.Now(),
	}

	if err = s.repo.InsertApplication(ctx, application); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return res, failure.BadRequestFromString("already applied") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to insert application")

		return res, fmt.Errorf("failed to insert application: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.router.Route(c, job.StartupUsername, realtime.EventNewApplication, realtime.NewApplicationPayload{
			JobID: job.ID,
			Applicant: realtime.Applicant{
				ID:   applicantID,
				Name: applicantName,
			},
		})

		s.events.Publish(c, events.TypeApplicationFiled, applicantID, job.ID, nil)
	}()

	res.FromModel(application)

	return res, nil
}

// UpdateApplicationStatus lets the job's owning startup accept or
// reject a pending application. ACCEPTED and REJECTED are terminal.
// The applicant is notified best-effort when present.
func (s *serviceImpl) UpdateApplicationStatus(ctx context.Context, req dto.UpdateApplicationStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".job.UpdateApplicationStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	job, err := s.repo.Get(ctx, shared.FilterByID(req.JobID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get job")

		return fmt.Errorf("failed to get job: %w", err)
	}

	if job.ID == constant.Empty {
		return failure.NotFound("job not found") //nolint:wrapcheck
	}

	startupUsername, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if job.StartupUsername != startupUsername {
		return failure.Forbidden("only the posting startup can update applications") //nolint:wrapcheck
	}

	application, err := s.repo.GetApplication(ctx, req.JobID, req.ApplicantID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get application")

		return fmt.Errorf("failed to get application: %w", err)
	}

	if application.ID == constant.Empty {
		return failure.NotFound("application not found") //nolint:wrapcheck
	}

	if application.Status != constant.ApplicationStatusPending {
		return failure.BadRequestFromString("application already resolved") //nolint:wrapcheck
	}

	err = s.repo.UpdateApplication(ctx, map[string]any{
		model.ApplicationFieldStatus: req.Status,
	}, shared.FilterByID(application.ID, model.ApplicationFieldID, model.ApplicationTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update application status")

		return fmt.Errorf("failed to update application status: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.router.Route(c, application.ApplicantID, realtime.EventApplicationStatusUpdated, realtime.ApplicationStatusPayload{
			JobID:  req.JobID,
			Status: req.Status,
		})

		s.events.Publish(c, events.TypeApplicationStatus, startupUsername, application.ID, map[string]any{
			"jobId":  req.JobID,
			"status": req.Status,
		})
	}()

	return nil
}
