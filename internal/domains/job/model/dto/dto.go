package dto

import (
	"github.com/google/uuid"

	"seva/internal/domains/job/model"
	"seva/shared"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	gModel "seva/shared/model"
	"seva/shared/timezone"
)

type CreateJobRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location"    validate:"omitempty,max=200"`
	SalaryRange string `json:"salaryRange" validate:"omitempty,max=100"`
}

func (c *CreateJobRequest) ToModel(startupUsername string) model.Job {
	return model.Job{
		ID:              uuid.NewString(),
		StartupUsername: startupUsername,
		Title:           c.Title,
		Description:     c.Description,
		Location:        c.Location,
		SalaryRange:     c.SalaryRange,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  startupUsername,
			ModifiedBy: startupUsername,
		},
	}
}

type UpdateApplicationStatusRequest struct {
	JobID       string `json:"jobId"       validate:"required"`
	ApplicantID string `json:"applicantId" validate:"required"`
	Status      string `json:"status"      validate:"required,oneof=ACCEPTED REJECTED"`
}

type JobResponse struct {
	ID              string `json:"id"`
	StartupUsername string `json:"startupUsername"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	SalaryRange     string `json:"salaryRange"`
	gDto.Metadata
}

func (r *JobResponse) FromModel(model model.Job) {
	r.ID = model.ID
	r.StartupUsername = model.StartupUsername
	r.Title = model.Title
	r.Description = model.Description
	r.Location = model.Location
	r.SalaryRange = model.SalaryRange
	r.Metadata.FromModel(model.Metadata)
}

type GetJobsResponse struct {
	Jobs      []JobResponse `json:"jobs"`
	TotalPage int           `json:"total_page"`
	TotalData int           `json:"total_data"`
}

func (r *GetJobsResponse) FromModels(models []model.Job, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Jobs = make([]JobResponse, len(models))
	for i, mod := range models {
		r.Jobs[i].FromModel(mod)
	}
}

type ApplicationResponse struct {
	ID            string `json:"id"`
	JobID         string `json:"jobId"`
	ApplicantID   string `json:"applicantId"`
	ApplicantName string `json:"applicantName"`
	Status        string `json:"status"`
	AppliedAt     string `json:"appliedAt"`
}

func (r *ApplicationResponse) FromModel(model model.Application) {
	r.ID = model.ID
	r.JobID = model.JobID
	r.ApplicantID = model.ApplicantID
	r.ApplicantName = model.ApplicantName
	r.Status = model.Status
	r.AppliedAt = timezone.Format(model.AppliedAt, constant.DateFormat)
}
