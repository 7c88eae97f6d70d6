package job

import (
	"fmt"

	jobdomain "smartats/internal/domain/job"

	"go.uber.org/zap"
)

const cacheKeyPrefix = "cache:job:"

func cacheKey(id int64) string {
	return fmt.Sprintf("%s%d", cacheKeyPrefix, id)
}

func (s *Service) toResponse(j jobdomain.Job) Response {
	r := Response{
		ID:            j.ID,
		Title:         j.Title,
		Department:    j.Department,
		Description:   j.Description,
		Requirements:  j.Requirements,
		SalaryMin:     j.SalaryMin,
		SalaryMax:     j.SalaryMax,
		ExperienceMin: j.ExperienceMin,
		ExperienceMax: j.ExperienceMax,
		Education:     j.Education,
		JobType:       j.JobType,
		Status:        j.Status,
		StatusDesc:    j.Status.Label(),
		CreatorID:     j.CreatorID,
		ViewCount:     j.ViewCount,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}

	skills, err := DecodeSkills(j.RequiredSkills)
	if err != nil {
		s.logger.Warn("decode required skills failed", zap.Int64("job_id", j.ID), zap.Error(err))
	} else {
		r.RequiredSkills = skills
	}

	if j.SalaryMin != nil && j.SalaryMax != nil {
		r.SalaryRange = fmt.Sprintf("%dK-%dK", *j.SalaryMin, *j.SalaryMax)
	}
	if j.ExperienceMin != nil && j.ExperienceMax != nil {
		r.ExperienceRange = fmt.Sprintf("%d-%d年", *j.ExperienceMin, *j.ExperienceMax)
	}
	return r
}

func (s *Service) toResponses(jobs []jobdomain.Job) []Response {
	out := make([]Response, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, s.toResponse(j))
	}
	return out
}
