package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"seva/config"
	"seva/infras/otel/mocks"
	jobMocks "seva/internal/domains/job/mocks"
	"seva/internal/domains/job/model"
	"seva/internal/domains/job/model/dto"
	"seva/internal/domains/job/service"
	eventMocks "seva/internal/events/mocks"
	"seva/internal/realtime"
	realtimeMocks "seva/internal/realtime/mocks"
	cacheMocks "seva/shared/cache/mocks"
	"seva/shared/constant"
	"seva/shared/failure"
)

type jobFixture struct {
	repo   *jobMocks.MockJob
	router *realtimeMocks.MockRouter
	events *eventMocks.MockPublisher
	cache  *cacheMocks.MockRedisCache
	svc    service.Job
}

func newJobFixture(ctrl *gomock.Controller) *jobFixture {
	f := &jobFixture{
		repo:   jobMocks.NewMockJob(ctrl),
		router: realtimeMocks.NewMockRouter(ctrl),
		events: eventMocks.NewMockPublisher(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.router, f.events, cfg, f.cache, mocks.NewOtel())

	return f
}

func (f *jobFixture) allowAsyncSideEffects() {
	f.router.EXPECT().Route(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func userContext(userID, userName, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserName, userName)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestJobService_Create(t *testing.T) {
	req := dto.CreateJobRequest{
		Title:       "Backend Engineer",
		Description: "Build the claim engine",
		Location:    "Remote",
		SalaryRange: "4-6k",
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f *jobFixture)
		wantCode  int
	}{
		{
			name: "startup creates a posting",
			ctx:  userContext("startup-1", "Startup One", constant.RoleStartup),
			setupMock: func(f *jobFixture) {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:      "individual forbidden",
			ctx:       userContext("user-1", "User One", constant.RoleIndividual),
			setupMock: func(f *jobFixture) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name: "repository error",
			ctx:  userContext("startup-1", "Startup One", constant.RoleStartup),
			setupMock: func(f *jobFixture) {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newJobFixture(ctrl)
			f.allowAsyncSideEffects()
			tt.setupMock(f)

			res, err := f.svc.Create(tt.ctx, req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "startup-1", res.StartupUsername)
			assert.Equal(t, "Backend Engineer", res.Title)
		})
	}
}

func TestJobService_Apply(t *testing.T) {
	job := model.Job{ID: "job-1", StartupUsername: "startup-1", Title: "Backend Engineer"}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f *jobFixture)
		wantCode  int
		wantMsg   string
	}{
		{
			name: "successful application",
			ctx:  userContext("user-1", "User One", constant.RoleIndividual),
			setupMock: func(f *jobFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(job, nil)
				f.repo.EXPECT().
					InsertApplication(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:      "startup forbidden",
			ctx:       userContext("startup-1", "Startup One", constant.RoleStartup),
			setupMock: func(f *jobFixture) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name: "job not found",
			ctx:  userContext("user-1", "User One", constant.RoleIndividual),
			setupMock: func(f *jobFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Job{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "already applied",
			ctx:  userContext("user-1", "User One", constant.RoleIndividual),
			setupMock: func(f *jobFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(job, nil)
				f.repo.EXPECT().
					InsertApplication(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "already applied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newJobFixture(ctrl)
			f.allowAsyncSideEffects()
			tt.setupMock(f)

			res, err := f.svc.Apply(tt.ctx, "job-1")

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantMsg != "" {
					assert.EqualError(t, err, tt.wantMsg)
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "job-1", res.JobID)
			assert.Equal(t, "user-1", res.ApplicantID)
			assert.Equal(t, constant.ApplicationStatusPending, res.Status)
		})
	}
}

func TestJobService_Apply_NotifiesStartup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newJobFixture(ctrl)

	f.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(model.Job{ID: "job-1", StartupUsername: "startup-1"}, nil)
	f.repo.EXPECT().
		InsertApplication(gomock.Any(), gomock.Any()).
		Return(nil)

	routed := make(chan realtime.NewApplicationPayload, 1)
	f.router.EXPECT().
		Route(gomock.Any(), "startup-1", realtime.EventNewApplication, gomock.Any()).
		Do(func(_ context.Context, _, _ string, payload any) {
			routed <- payload.(realtime.NewApplicationPayload)
		})
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	_, err := f.svc.Apply(userContext("user-1", "User One", constant.RoleIndividual), "job-1")
	assert.NoError(t, err)

	select {
	case payload := <-routed:
		assert.Equal(t, "job-1", payload.JobID)
		assert.Equal(t, "user-1", payload.Applicant.ID)
		assert.Equal(t, "User One", payload.Applicant.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("expected newApplication to be routed")
	}
}

func TestJobService_UpdateApplicationStatus(t *testing.T) {
	job := model.Job{ID: "job-1", StartupUsername: "startup-1"}
	pending := model.Application{
		ID:          "application-1",
		JobID:       "job-1",
		ApplicantID: "user-1",
		Status:      constant.ApplicationStatusPending,
	}

	req := dto.UpdateApplicationStatusRequest{
		JobID:       "job-1",
		ApplicantID: "user-1",
		Status:      constant.ApplicationStatusAccepted,
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f *jobFixture)
		wantCode  int
	}{
		{
			name: "owner accepts",
			ctx:  userContext("startup-1", "Startup One", constant.RoleStartup),
			setupMock: func(f *jobFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(job, nil)
				f.repo.EXPECT().
					GetApplication(gomock.Any(), "job-1", "user-1").
					Return(pending, nil)
				f.repo.EXPECT().
					UpdateApplication(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "job not found",
			ctx:  userContext("startup-1", "Startup One", constant.RoleStartup),
			setupMock: func(f *jobFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Job{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "non-owner forbidden",
			ctx:  userContext("startup-2", "Startup Two", constant.RoleStartup),
			setupMock: func(f *jobFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(job, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "application not found",
			ctx:  userContext("startup-1", "Startup One", constant.RoleStartup),
			setupMock: func(f *jobFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(job, nil)
				f.repo.EXPECT().
					GetApplication(gomock.Any(), "job-1", "user-1").
					Return(model.Application{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "already resolved",
			ctx:  userContext("startup-1", "Startup One", constant.RoleStartup),
			setupMock: func(f *jobFixture) {
				resolved := pending
				resolved.Status = constant.ApplicationStatusRejected
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(job, nil)
				f.repo.EXPECT().
					GetApplication(gomock.Any(), "job-1", "user-1").
					Return(resolved, nil)
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newJobFixture(ctrl)
			f.allowAsyncSideEffects()
			tt.setupMock(f)

			err := f.svc.UpdateApplicationStatus(tt.ctx, req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestJobService_UpdateApplicationStatus_NotifiesApplicant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newJobFixture(ctrl)

	f.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(model.Job{ID: "job-1", StartupUsername: "startup-1"}, nil)
	f.repo.EXPECT().
		GetApplication(gomock.Any(), "job-1", "user-1").
		Return(model.Application{ID: "application-1", JobID: "job-1", ApplicantID: "user-1", Status: constant.ApplicationStatusPending}, nil)
	f.repo.EXPECT().
		UpdateApplication(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	routed := make(chan realtime.ApplicationStatusPayload, 1)
	f.router.EXPECT().
		Route(gomock.Any(), "user-1", realtime.EventApplicationStatusUpdated, gomock.Any()).
		Do(func(_ context.Context, _, _ string, payload any) {
			routed <- payload.(realtime.ApplicationStatusPayload)
		})
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	err := f.svc.UpdateApplicationStatus(
		userContext("startup-1", "Startup One", constant.RoleStartup),
		dto.UpdateApplicationStatusRequest{JobID: "job-1", ApplicantID: "user-1", Status: constant.ApplicationStatusAccepted},
	)
	assert.NoError(t, err)

	select {
	case payload := <-routed:
		assert.Equal(t, "job-1", payload.JobID)
		assert.Equal(t, constant.ApplicationStatusAccepted, payload.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("expected applicationStatusUpdated to be routed")
	}
}
