package job

import (
	"time"

	jobdomain "smartats/internal/domain/job"
)

type CreateInput struct {
	Title          string
	Department     string
	Description    string
	Requirements   string
	RequiredSkills []string
	SalaryMin      *int
	SalaryMax      *int
	ExperienceMin  *int
	ExperienceMax  *int
	Education      string
	JobType        string
}

// UpdateInput is a partial update. Nil pointers and blank strings leave the
// stored value untouched; a non-nil RequiredSkills (even empty) replaces it.
type UpdateInput struct {
	ID             int64
	Title          *string
	Department     *string
	Description    *string
	Requirements   *string
	RequiredSkills []string
	SalaryMin      *int
	SalaryMax      *int
	ExperienceMin  *int
	ExperienceMax  *int
	Education      *string
	JobType        *string
}

type ListQuery struct {
	Keyword       string
	Department    string
	JobType       string
	Education     string
	ExperienceMin *int
	SalaryMin     *int
	Status        jobdomain.Status

	OrderBy        string
	OrderDirection string

	PageNum  int
	PageSize int
}

type Page[T any] struct {
	Records  []T   `json:"records"`
	Total    int64 `json:"total"`
	PageNum  int   `json:"page_num"`
	PageSize int   `json:"page_size"`
	Pages    int64 `json:"pages"`
}

// Response is the shaped job returned to callers and stored in the detail
// cache.
type Response struct {
	ID              int64            `json:"id"`
	Title           string           `json:"title"`
	Department      string           `json:"department"`
	Description     string           `json:"description"`
	Requirements    string           `json:"requirements"`
	RequiredSkills  []string         `json:"required_skills"`
	SalaryMin       *int             `json:"salary_min,omitempty"`
	SalaryMax       *int             `json:"salary_max,omitempty"`
	SalaryRange     string           `json:"salary_range,omitempty"`
	ExperienceMin   *int             `json:"experience_min,omitempty"`
	ExperienceMax   *int             `json:"experience_max,omitempty"`
	ExperienceRange string           `json:"experience_range,omitempty"`
	Education       string           `json:"education"`
	JobType         string           `json:"job_type"`
	Status          jobdomain.Status `json:"status"`
	StatusDesc      string           `json:"status_desc,omitempty"`
	CreatorID       int64            `json:"creator_id"`
	ViewCount       int              `json:"view_count"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

const (
	DefaultPageNum  = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPageNum keeps (page_num-1)*page_size well inside int range.
	MaxPageNum = 1_000_000

	DefaultHotLimit = 10
	MaxHotLimit     = 100
)
