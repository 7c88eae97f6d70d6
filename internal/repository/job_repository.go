package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smartats/internal/database"
	"smartats/internal/domain/job"

	"github.com/jackc/pgx/v5"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	// Insert stores j, fills in its id and timestamps and reports rows affected.
	Insert(ctx context.Context, j *job.Job) (int64, error)
	GetByID(ctx context.Context, id int64) (job.Job, error)
	Update(ctx context.Context, j job.Job) (int64, error)
	SoftDelete(ctx context.Context, id int64) (int64, error)
	IncrementViewCount(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, f JobFilter) ([]job.Job, int64, error)
	ListHot(ctx context.Context, limit int) ([]job.Job, error)

	// WithTx runs fn against a repository bound to a single transaction.
	WithTx(ctx context.Context, fn func(repo JobRepository) error) error
}

const jobColumns = `id, title, department, description, requirements, required_skills,
	salary_min, salary_max, experience_min, experience_max, education, job_type,
	status, creator_id, view_count, deleted, created_at, updated_at`

type PostgresJobRepository struct {
	db database.DB
	q  database.Querier
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db, q: db}
}

func (r *PostgresJobRepository) WithTx(ctx context.Context, fn func(repo JobRepository) error) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		return fn(&PostgresJobRepository{db: r.db, q: tx})
	})
}

func (r *PostgresJobRepository) Insert(ctx context.Context, j *job.Job) (int64, error) {
	row := r.q.QueryRow(ctx,
		`INSERT INTO jobs (title, department, description, requirements, required_skills,
			salary_min, salary_max, experience_min, experience_max, education, job_type,
			status, creator_id, view_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at, updated_at`,
		j.Title, j.Department, j.Description, j.Requirements, nullableText(j.RequiredSkills),
		j.SalaryMin, j.SalaryMax, j.ExperienceMin, j.ExperienceMax, j.Education, j.JobType,
		string(j.Status), j.CreatorID, j.ViewCount,
	)
	if err := row.Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt); err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, err
	}
	return 1, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id int64) (job.Job, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND deleted = false`,
		id,
	)
	j, err := scanJob(row)
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) (int64, error) {
	return r.q.Exec(ctx,
		`UPDATE jobs SET
			title = $2, department = $3, description = $4, requirements = $5, required_skills = $6,
			salary_min = $7, salary_max = $8, experience_min = $9, experience_max = $10,
			education = $11, job_type = $12, status = $13, updated_at = now()
		 WHERE id = $1 AND deleted = false`,
		j.ID, j.Title, j.Department, j.Description, j.Requirements, nullableText(j.RequiredSkills),
		j.SalaryMin, j.SalaryMax, j.ExperienceMin, j.ExperienceMax,
		j.Education, j.JobType, string(j.Status),
	)
}

func (r *PostgresJobRepository) SoftDelete(ctx context.Context, id int64) (int64, error) {
	return r.q.Exec(ctx,
		`UPDATE jobs SET deleted = true, updated_at = now() WHERE id = $1 AND deleted = false`,
		id,
	)
}

func (r *PostgresJobRepository) IncrementViewCount(ctx context.Context, id int64) (int64, error) {
	return r.q.Exec(ctx,
		`UPDATE jobs SET view_count = view_count + 1 WHERE id = $1 AND deleted = false`,
		id,
	)
}

func (r *PostgresJobRepository) List(ctx context.Context, f JobFilter) ([]job.Job, int64, error) {
	where, args := buildJobWhere(f)

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(1) FROM jobs WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []job.Job{}, 0, nil
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	n := len(args)
	query := fmt.Sprintf(
		`SELECT %s FROM jobs WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		jobColumns, where, buildJobOrder(f.OrderBy, f.Asc), n+1, n+2,
	)
	args = append(args, limit, offset)

	out, err := r.queryJobs(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresJobRepository) ListHot(ctx context.Context, limit int) ([]job.Job, error) {
	where, args := buildJobWhere(JobFilter{Status: string(job.StatusPublished)})
	query := fmt.Sprintf(
		`SELECT %s FROM jobs WHERE %s ORDER BY %s LIMIT $%d`,
		jobColumns, where, buildJobOrder(OrderByViewCount, false), len(args)+1,
	)
	args = append(args, limit)
	return r.queryJobs(ctx, query, args...)
}

func (r *PostgresJobRepository) queryJobs(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var (
		j      job.Job
		skills sql.NullString
		status string
	)
	err := row.Scan(
		&j.ID, &j.Title, &j.Department, &j.Description, &j.Requirements, &skills,
		&j.SalaryMin, &j.SalaryMax, &j.ExperienceMin, &j.ExperienceMax, &j.Education, &j.JobType,
		&status, &j.CreatorID, &j.ViewCount, &j.Deleted, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return job.Job{}, err
	}
	j.RequiredSkills = skills.String
	j.Status = job.Status(status)
	return j, nil
}

func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
