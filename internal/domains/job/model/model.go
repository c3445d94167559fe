package model

import (
	"time"

	"seva/shared/model"
)

const (
	TableName  = "jobs"
	EntityName = "job"

	FieldID              = "id"
	FieldStartupUsername = "startup_username"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldLocation        = "location"
	FieldSalaryRange     = "salary_range"
)

const (
	ApplicationTableName  = "job_applications"
	ApplicationEntityName = "job_application"

	ApplicationFieldID            = "id"
	ApplicationFieldJobID         = "job_id"
	ApplicationFieldApplicantID   = "applicant_id"
	ApplicationFieldApplicantName = "applicant_name"
	ApplicationFieldStatus        = "status"
	ApplicationFieldAppliedAt     = "applied_at"
)

type Job struct {
	ID              string `db:"id"`
	StartupUsername string `db:"startup_username"`
	Title           string `db:"title"`
	Description     string `db:"description"`
	Location        string `db:"location"`
	SalaryRange     string `db:"salary_range"`
	model.Metadata
}

// Application is one individual's application to one job. The unique
// (job_id, applicant_id) index is what enforces at most one
// application per pair, regardless of request interleaving.
type Application struct {
	ID            string    `db:"id"`
	JobID         string    `db:"job_id"`
	ApplicantID   string    `db:"applicant_id"`
	ApplicantName string    `db:"applicant_name"`
	Status        string    `db:"status"`
	AppliedAt     time.Time `db:"applied_at"`
}
