package job

import "time"

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusClosed    Status = "CLOSED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusClosed:
		return true
	default:
		return false
	}
}

// Label is the human readable status shown to recruiters; unknown statuses
// have no label.
func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "草稿"
	case StatusPublished:
		return "已发布"
	case StatusClosed:
		return "已关闭"
	default:
		return ""
	}
}

// Job is a row of the jobs table. RequiredSkills holds the JSON encoded
// skills list and is empty when no list was ever stored.
type Job struct {
	ID             int64
	Title          string
	Department     string
	Description    string
	Requirements   string
	RequiredSkills string
	SalaryMin      *int
	SalaryMax      *int
	ExperienceMin  *int
	ExperienceMax  *int
	Education      string
	JobType        string
	Status         Status
	CreatorID      int64
	ViewCount      int
	Deleted        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (j Job) OwnedBy(userID int64) bool {
	return j.CreatorID == userID
}
