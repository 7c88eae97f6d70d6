package dto

import (
	jobdomain "smartats/internal/domain/job"
	ucjob "smartats/internal/usecase/job"
)

type CreateJobRequest struct {
	Title          string   `json:"title" validate:"required,max=100"`
	Department     string   `json:"department" validate:"max=50"`
	Description    string   `json:"description" validate:"max=5000"`
	Requirements   string   `json:"requirements" validate:"max=5000"`
	RequiredSkills []string `json:"required_skills" validate:"omitempty,max=50,dive,max=50"`
	SalaryMin      *int     `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax      *int     `json:"salary_max" validate:"omitempty,min=0"`
	ExperienceMin  *int     `json:"experience_min" validate:"omitempty,min=0"`
	ExperienceMax  *int     `json:"experience_max" validate:"omitempty,min=0"`
	Education      string   `json:"education" validate:"max=50"`
	JobType        string   `json:"job_type" validate:"max=50"`
}

func (r CreateJobRequest) ToInput() ucjob.CreateInput {
	return ucjob.CreateInput{
		Title:          r.Title,
		Department:     r.Department,
		Description:    r.Description,
		Requirements:   r.Requirements,
		RequiredSkills: r.RequiredSkills,
		SalaryMin:      r.SalaryMin,
		SalaryMax:      r.SalaryMax,
		ExperienceMin:  r.ExperienceMin,
		ExperienceMax:  r.ExperienceMax,
		Education:      r.Education,
		JobType:        r.JobType,
	}
}

// UpdateJobRequest is a partial update; omitted fields keep their value.
type UpdateJobRequest struct {
	ID             int64    `json:"id" validate:"required,gt=0"`
	Title          *string  `json:"title" validate:"omitempty,max=100"`
	Department     *string  `json:"department" validate:"omitempty,max=50"`
	Description    *string  `json:"description" validate:"omitempty,max=5000"`
	Requirements   *string  `json:"requirements" validate:"omitempty,max=5000"`
	RequiredSkills []string `json:"required_skills" validate:"omitempty,max=50,dive,max=50"`
	SalaryMin      *int     `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax      *int     `json:"salary_max" validate:"omitempty,min=0"`
	ExperienceMin  *int     `json:"experience_min" validate:"omitempty,min=0"`
	ExperienceMax  *int     `json:"experience_max" validate:"omitempty,min=0"`
	Education      *string  `json:"education" validate:"omitempty,max=50"`
	JobType        *string  `json:"job_type" validate:"omitempty,max=50"`
}

func (r UpdateJobRequest) ToInput() ucjob.UpdateInput {
	return ucjob.UpdateInput{
		ID:             r.ID,
		Title:          r.Title,
		Department:     r.Department,
		Description:    r.Description,
		Requirements:   r.Requirements,
		RequiredSkills: r.RequiredSkills,
		SalaryMin:      r.SalaryMin,
		SalaryMax:      r.SalaryMax,
		ExperienceMin:  r.ExperienceMin,
		ExperienceMax:  r.ExperienceMax,
		Education:      r.Education,
		JobType:        r.JobType,
	}
}

type ListJobsQuery struct {
	Keyword        string `json:"keyword" validate:"max=100"`
	Department     string `json:"department"`
	JobType        string `json:"job_type"`
	Education      string `json:"education"`
	ExperienceMin  *int   `json:"experience_min" validate:"omitempty,min=0"`
	SalaryMin      *int   `json:"salary_min" validate:"omitempty,min=0"`
	Status         string `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED CLOSED"`
	OrderBy        string `json:"order_by"`
	OrderDirection string `json:"order_direction"`
	PageNum        int    `json:"page_num" validate:"omitempty,max=1000000"`
	PageSize       int    `json:"page_size"`
}

func (q ListJobsQuery) ToQuery() ucjob.ListQuery {
	return ucjob.ListQuery{
		Keyword:        q.Keyword,
		Department:     q.Department,
		JobType:        q.JobType,
		Education:      q.Education,
		ExperienceMin:  q.ExperienceMin,
		SalaryMin:      q.SalaryMin,
		Status:         jobdomain.Status(q.Status),
		OrderBy:        q.OrderBy,
		OrderDirection: q.OrderDirection,
		PageNum:        q.PageNum,
		PageSize:       q.PageSize,
	}
}
