package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"smartats/internal/apperror"
	"smartats/internal/delivery/http/dto"
	"smartats/internal/delivery/http/middleware"
	"smartats/internal/pkg/response"
	ucjob "smartats/internal/usecase/job"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	uc ucjob.Usecase
}

func NewJobHandler(uc ucjob.Usecase) *JobHandler {
	return &JobHandler{uc: uc}
}

// RegisterRoutes mounts the job endpoints on r, which must already require
// authentication.
func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Put("/", h.Update)
	r.Get("/hot", h.Hot)
	r.Get("/", h.List)
	r.Get("/:id", h.Detail)
	r.Post("/:id/publish", h.Publish)
	r.Post("/:id/close", h.Close)
	r.Delete("/:id", h.Delete)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	var req dto.CreateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := dto.Validate(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}

	id, err := h.uc.Create(c.Context(), req.ToInput(), uid)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, id)
}

func (h *JobHandler) Update(c fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}

	var req dto.UpdateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := dto.Validate(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}

	if err := h.uc.Update(c.Context(), req.ToInput(), uid); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, nil)
}

func (h *JobHandler) Detail(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	out, err := h.uc.GetDetail(c.Context(), id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, out)
}

func (h *JobHandler) List(c fiber.Ctx) error {
	q, err := parseListQuery(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}
	if err := dto.Validate(q); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}

	page, err := h.uc.List(c.Context(), q.ToQuery())
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, page)
}

func (h *JobHandler) Hot(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", ucjob.DefaultHotLimit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	out, err := h.uc.HotJobs(c.Context(), limit)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, out)
}

func (h *JobHandler) Publish(c fiber.Ctx) error {
	return h.transition(c, h.uc.Publish)
}

func (h *JobHandler) Close(c fiber.Ctx) error {
	return h.transition(c, h.uc.Close)
}

func (h *JobHandler) Delete(c fiber.Ctx) error {
	return h.transition(c, h.uc.Delete)
}

type jobCommand func(ctx context.Context, id, operatorID int64) error

func (h *JobHandler) transition(c fiber.Ctx, cmd jobCommand) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := cmd(c.Context(), id, uid); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, nil)
}

func currentUser(c fiber.Ctx) (int64, error) {
	uid, ok := middleware.UserID(c)
	if !ok {
		return 0, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return uid, nil
}

func pathID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Params("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}
	return id, nil
}

func parseListQuery(c fiber.Ctx) (dto.ListJobsQuery, error) {
	q := dto.ListJobsQuery{
		Keyword:        strings.TrimSpace(c.Query("keyword")),
		Department:     strings.TrimSpace(c.Query("department")),
		JobType:        strings.TrimSpace(c.Query("job_type")),
		Education:      strings.TrimSpace(c.Query("education")),
		Status:         strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		OrderBy:        strings.TrimSpace(c.Query("order_by")),
		OrderDirection: strings.TrimSpace(c.Query("order_direction")),
	}

	var err error
	if q.PageNum, err = parseQueryIntStrict(c, "page_num", ucjob.DefaultPageNum); err != nil {
		return q, err
	}
	if q.PageSize, err = parseQueryIntStrict(c, "page_size", ucjob.DefaultPageSize); err != nil {
		return q, err
	}
	if q.ExperienceMin, err = parseQueryIntPtr(c, "experience_min"); err != nil {
		return q, err
	}
	if q.SalaryMin, err = parseQueryIntPtr(c, "salary_min"); err != nil {
		return q, err
	}
	return q, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return v, nil
}

func parseQueryIntPtr(c fiber.Ctx, key string) (*int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.New(key + " must be an integer")
	}
	return &v, nil
}

func mapJobUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	msg := apperror.MessageOf(err)
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return middleware.NewAppError(fiber.StatusNotFound, msg, nil, err)
	case apperror.KindForbidden:
		return middleware.NewAppError(fiber.StatusForbidden, msg, nil, err)
	case apperror.KindConflict:
		return middleware.NewAppError(fiber.StatusBadRequest, msg, nil, err)
	case apperror.KindValidation:
		return middleware.NewAppError(fiber.StatusBadRequest, msg, nil, err)
	case apperror.KindUnauthorized:
		return middleware.NewAppError(fiber.StatusUnauthorized, msg, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
