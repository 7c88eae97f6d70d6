// Package job implements the job posting workflow: authoring, the status
// lifecycle, listing and the read-through detail cache.
package job

import (
	"context"
	"errors"
	"strings"
	"time"

	"smartats/internal/apperror"
	jobdomain "smartats/internal/domain/job"
	"smartats/internal/events"
	"smartats/internal/pkg/logger"
	"smartats/internal/repository"
	"smartats/internal/telemetry"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultDetailTTL = 30 * time.Minute

var tracer = telemetry.GetTracer("smartats/usecase/job")

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Usecase interface {
	Create(ctx context.Context, in CreateInput, creatorID int64) (int64, error)
	Update(ctx context.Context, in UpdateInput, operatorID int64) error
	GetDetail(ctx context.Context, id int64) (Response, error)
	List(ctx context.Context, q ListQuery) (Page[Response], error)
	Publish(ctx context.Context, id, operatorID int64) error
	Close(ctx context.Context, id, operatorID int64) error
	Delete(ctx context.Context, id, operatorID int64) error
	HotJobs(ctx context.Context, limit int) ([]Response, error)
}

type Option func(*Service)

func WithDetailTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.detailTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

type Service struct {
	jobs   repository.JobRepository
	cache  Cache
	events events.Publisher
	logger *zap.Logger

	detailTTL time.Duration
	now       func() time.Time
}

func NewService(jobs repository.JobRepository, cache Cache, publisher events.Publisher, lg *zap.Logger, opts ...Option) *Service {
	s := &Service{
		jobs:      jobs,
		cache:     cache,
		events:    publisher,
		logger:    logger.OrNop(lg).Named("job"),
		detailTTL: DefaultDetailTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, in CreateInput, creatorID int64) (id int64, err error) {
	ctx, span := tracer.Start(ctx, "job.Create")
	defer func() { endSpan(span, err) }()

	j := jobdomain.Job{
		Title:         in.Title,
		Department:    in.Department,
		Description:   in.Description,
		Requirements:  in.Requirements,
		SalaryMin:     in.SalaryMin,
		SalaryMax:     in.SalaryMax,
		ExperienceMin: in.ExperienceMin,
		ExperienceMax: in.ExperienceMax,
		Education:     in.Education,
		JobType:       in.JobType,
		Status:        jobdomain.StatusDraft,
		CreatorID:     creatorID,
		ViewCount:     0,
	}
	if len(in.RequiredSkills) > 0 {
		encoded, err := EncodeSkills(in.RequiredSkills)
		if err != nil {
			return 0, apperror.Internal("failed to encode required skills", err)
		}
		j.RequiredSkills = encoded
	}

	err = s.jobs.WithTx(ctx, func(repo repository.JobRepository) error {
		n, err := repo.Insert(ctx, &j)
		if err != nil {
			return apperror.Internal("failed to create job", err)
		}
		if n == 0 {
			return apperror.Internal("failed to create job", nil)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("job created", zap.Int64("job_id", j.ID), zap.Int64("creator_id", creatorID))
	s.emit(ctx, events.JobCreated, j.ID, creatorID, j.Status)
	return j.ID, nil
}

func (s *Service) Update(ctx context.Context, in UpdateInput, operatorID int64) (err error) {
	ctx, span := tracer.Start(ctx, "job.Update")
	span.SetAttributes(telemetry.Int64("job.id", in.ID))
	defer func() { endSpan(span, err) }()

	var status jobdomain.Status
	err = s.jobs.WithTx(ctx, func(repo repository.JobRepository) error {
		j, err := s.loadOwned(ctx, repo, in.ID, operatorID)
		if err != nil {
			return err
		}
		if err := applyUpdate(&j, in); err != nil {
			return err
		}
		status = j.Status
		return s.persist(ctx, repo, j, "failed to update job")
	})
	if err != nil {
		return err
	}

	s.afterMutation(ctx, events.JobUpdated, in.ID, operatorID, status)
	return nil
}

func (s *Service) GetDetail(ctx context.Context, id int64) (resp Response, err error) {
	ctx, span := tracer.Start(ctx, "job.GetDetail")
	span.SetAttributes(telemetry.Int64("job.id", id))
	defer func() { endSpan(span, err) }()

	key := cacheKey(id)
	if s.cache != nil {
		var cached Response
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case err != nil:
			s.logger.Warn("job cache read failed", zap.String("key", key), zap.Error(err))
		case hit:
			span.SetAttributes(telemetry.String("cache", "hit"))
			return cached, nil
		}
	}
	span.SetAttributes(telemetry.String("cache", "miss"))

	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return Response{}, mapLoadError(err)
	}

	resp = s.toResponse(j)
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, resp, s.detailTTL); err != nil {
			s.logger.Warn("job cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	if _, err := s.jobs.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn("increment view count failed", zap.Int64("job_id", id), zap.Error(err))
	}
	return resp, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (page Page[Response], err error) {
	ctx, span := tracer.Start(ctx, "job.List")
	defer func() { endSpan(span, err) }()

	pageNum, pageSize := normalizePage(q.PageNum, q.PageSize)
	status := q.Status
	if status == "" {
		status = jobdomain.StatusPublished
	}
	if !status.Valid() {
		return Page[Response]{}, apperror.Validation("invalid status", nil)
	}

	f := repository.JobFilter{
		Keyword:       q.Keyword,
		Department:    q.Department,
		JobType:       q.JobType,
		Education:     q.Education,
		ExperienceMin: q.ExperienceMin,
		SalaryMin:     q.SalaryMin,
		Status:        string(status),
		OrderBy:       q.OrderBy,
		Asc:           strings.EqualFold(strings.TrimSpace(q.OrderDirection), "asc"),
		Limit:         pageSize,
		Offset:        (pageNum - 1) * pageSize,
	}

	rows, total, err := s.jobs.List(ctx, f)
	if err != nil {
		return Page[Response]{}, apperror.Internal("failed to list jobs", err)
	}
	span.SetAttributes(telemetry.Int64("jobs.total", total))

	return Page[Response]{
		Records:  s.toResponses(rows),
		Total:    total,
		PageNum:  pageNum,
		PageSize: pageSize,
		Pages:    (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

func (s *Service) Publish(ctx context.Context, id, operatorID int64) error {
	return s.transition(ctx, "job.Publish", id, operatorID, jobdomain.StatusPublished, events.JobPublished)
}

func (s *Service) Close(ctx context.Context, id, operatorID int64) error {
	return s.transition(ctx, "job.Close", id, operatorID, jobdomain.StatusClosed, events.JobClosed)
}

func (s *Service) Delete(ctx context.Context, id, operatorID int64) (err error) {
	ctx, span := tracer.Start(ctx, "job.Delete")
	span.SetAttributes(telemetry.Int64("job.id", id))
	defer func() { endSpan(span, err) }()

	var status jobdomain.Status
	err = s.jobs.WithTx(ctx, func(repo repository.JobRepository) error {
		j, err := s.loadOwned(ctx, repo, id, operatorID)
		if err != nil {
			return err
		}
		status = j.Status
		n, err := repo.SoftDelete(ctx, id)
		if err != nil {
			return apperror.Internal("failed to delete job", err)
		}
		if n == 0 {
			return apperror.Internal("failed to delete job", nil)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterMutation(ctx, events.JobDeleted, id, operatorID, status)
	return nil
}

func (s *Service) HotJobs(ctx context.Context, limit int) (out []Response, err error) {
	ctx, span := tracer.Start(ctx, "job.HotJobs")
	defer func() { endSpan(span, err) }()

	if limit <= 0 {
		limit = DefaultHotLimit
	}
	if limit > MaxHotLimit {
		limit = MaxHotLimit
	}
	span.SetAttributes(telemetry.Int("limit", limit))

	rows, err := s.jobs.ListHot(ctx, limit)
	if err != nil {
		return nil, apperror.Internal("failed to list hot jobs", err)
	}
	return s.toResponses(rows), nil
}

func (s *Service) transition(ctx context.Context, op string, id, operatorID int64, target jobdomain.Status, evt events.JobEventType) (err error) {
	ctx, span := tracer.Start(ctx, op)
	span.SetAttributes(telemetry.Int64("job.id", id), telemetry.String("job.target_status", string(target)))
	defer func() { endSpan(span, err) }()

	err = s.jobs.WithTx(ctx, func(repo repository.JobRepository) error {
		j, err := s.loadOwned(ctx, repo, id, operatorID)
		if err != nil {
			return err
		}
		if j.Status == target {
			return apperror.Conflict("job is already " + strings.ToLower(string(target)))
		}
		j.Status = target
		return s.persist(ctx, repo, j, "failed to change job status")
	})
	if err != nil {
		return err
	}

	s.afterMutation(ctx, evt, id, operatorID, target)
	return nil
}

func (s *Service) loadOwned(ctx context.Context, repo repository.JobRepository, id, operatorID int64) (jobdomain.Job, error) {
	j, err := repo.GetByID(ctx, id)
	if err != nil {
		return jobdomain.Job{}, mapLoadError(err)
	}
	if !j.OwnedBy(operatorID) {
		return jobdomain.Job{}, apperror.Forbidden("no permission to modify this job")
	}
	return j, nil
}

func (s *Service) persist(ctx context.Context, repo repository.JobRepository, j jobdomain.Job, msg string) error {
	n, err := repo.Update(ctx, j)
	if err != nil {
		return apperror.Internal(msg, err)
	}
	if n == 0 {
		return apperror.Internal(msg, nil)
	}
	return nil
}

// afterMutation runs once the transaction has committed. The cached detail
// is dropped, never rewritten.
func (s *Service) afterMutation(ctx context.Context, typ events.JobEventType, id, operatorID int64, status jobdomain.Status) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
			s.logger.Warn("job cache invalidation failed", zap.Int64("job_id", id), zap.Error(err))
		}
	}
	s.logger.Info("job mutated", zap.String("event", string(typ)), zap.Int64("job_id", id), zap.Int64("operator_id", operatorID))
	s.emit(ctx, typ, id, operatorID, status)
}

func (s *Service) emit(ctx context.Context, typ events.JobEventType, id, operatorID int64, status jobdomain.Status) {
	if s.events == nil {
		return
	}
	evt := events.JobEvent{
		Type:       typ,
		JobID:      id,
		OperatorID: operatorID,
		Status:     string(status),
		Timestamp:  s.now().UTC(),
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("publish job event failed", zap.String("event", string(typ)), zap.Int64("job_id", id), zap.Error(err))
	}
}

func applyUpdate(j *jobdomain.Job, in UpdateInput) error {
	setText(&j.Title, in.Title)
	setText(&j.Department, in.Department)
	setText(&j.Description, in.Description)
	setText(&j.Requirements, in.Requirements)

	if in.RequiredSkills != nil {
		encoded, err := EncodeSkills(in.RequiredSkills)
		if err != nil {
			return apperror.Internal("failed to encode required skills", err)
		}
		j.RequiredSkills = encoded
	}

	if in.SalaryMin != nil {
		j.SalaryMin = in.SalaryMin
	}
	if in.SalaryMax != nil {
		j.SalaryMax = in.SalaryMax
	}
	if in.ExperienceMin != nil {
		j.ExperienceMin = in.ExperienceMin
	}
	if in.ExperienceMax != nil {
		j.ExperienceMax = in.ExperienceMax
	}
	if in.Education != nil {
		j.Education = *in.Education
	}
	if in.JobType != nil {
		j.JobType = *in.JobType
	}
	return nil
}

func setText(dst *string, v *string) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return
	}
	*dst = *v
}

func normalizePage(num, size int) (int, int) {
	if num < 1 {
		num = DefaultPageNum
	}
	if num > MaxPageNum {
		num = MaxPageNum
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return num, size
}

func mapLoadError(err error) error {
	if errors.Is(err, repository.ErrJobNotFound) {
		return apperror.NotFound("job not found")
	}
	return apperror.Internal("failed to load job", err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
