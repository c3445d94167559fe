package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"seva/infras/otel"
	"seva/infras/postgres"
	"seva/internal/domains/job/model"
	"seva/shared"
	gDto "seva/shared/dto"
	gRepo "seva/shared/repository"
)

type Job interface {
	Insert(ctx context.Context, job model.Job) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Job, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Job, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	InsertApplication(ctx context.Context, application model.Application) error
	GetApplication(ctx context.Context, jobID, applicantID string) (model.Application, error)
	UpdateApplication(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Job]
	applications gRepo.Repository[model.Application]
}

func New(db *postgres.Connection, otel otel.Otel) Job {
	return &repositoryImpl{
		Repository:   gRepo.NewRepository[model.Job](model.EntityName, model.TableName, model.FieldID, db, otel),
		applications: gRepo.NewRepository[model.Application](model.ApplicationEntityName, model.ApplicationTableName, model.ApplicationFieldID, db, otel),
	}
}

func (repo *repositoryImpl) InsertApplication(ctx context.Context, application model.Application) error {
	return repo.applications.Insert(ctx, application) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetApplication(ctx context.Context, jobID, applicantID string) (model.Application, error) {
	filter := shared.FilterByFields(model.ApplicationTableName, map[string]any{
		model.ApplicationFieldJobID:       jobID,
		model.ApplicationFieldApplicantID: applicantID,
	})

	return repo.applications.Get(ctx, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) UpdateApplication(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error {
	return repo.applications.Update(ctx, req, filter) //nolint:wrapcheck
}
