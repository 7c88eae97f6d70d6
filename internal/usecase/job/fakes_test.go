package job

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	jobdomain "smartats/internal/domain/job"
	"smartats/internal/events"
	"smartats/internal/repository"
)

type memJobRepo struct {
	mu     sync.Mutex
	rows   map[int64]jobdomain.Job
	nextID int64

	insertAffected *int64
	updateAffected *int64
	deleteAffected *int64
	getErr         error

	increments int
	txCount    int
	lastFilter repository.JobFilter
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{rows: map[int64]jobdomain.Job{}}
}

func (r *memJobRepo) seed(j jobdomain.Job) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	j.ID = r.nextID
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(j.ID) * time.Minute)
	}
	j.UpdatedAt = j.CreatedAt
	r.rows[j.ID] = j
	return j.ID
}

func (r *memJobRepo) raw(id int64) (jobdomain.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.rows[id]
	return j, ok
}

func (r *memJobRepo) WithTx(_ context.Context, fn func(repository.JobRepository) error) error {
	r.mu.Lock()
	r.txCount++
	r.mu.Unlock()
	return fn(r)
}

func (r *memJobRepo) Insert(_ context.Context, j *jobdomain.Job) (int64, error) {
	if r.insertAffected != nil {
		return *r.insertAffected, nil
	}
	r.mu.Lock()
	r.nextID++
	j.ID = r.nextID
	j.CreatedAt = time.Now().UTC()
	j.UpdatedAt = j.CreatedAt
	r.rows[j.ID] = *j
	r.mu.Unlock()
	return 1, nil
}

func (r *memJobRepo) GetByID(_ context.Context, id int64) (jobdomain.Job, error) {
	if r.getErr != nil {
		return jobdomain.Job{}, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.rows[id]
	if !ok || j.Deleted {
		return jobdomain.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (r *memJobRepo) Update(_ context.Context, j jobdomain.Job) (int64, error) {
	if r.updateAffected != nil {
		return *r.updateAffected, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[j.ID]
	if !ok || cur.Deleted {
		return 0, nil
	}
	j.ViewCount = cur.ViewCount
	j.CreatedAt = cur.CreatedAt
	j.UpdatedAt = time.Now().UTC()
	r.rows[j.ID] = j
	return 1, nil
}

func (r *memJobRepo) SoftDelete(_ context.Context, id int64) (int64, error) {
	if r.deleteAffected != nil {
		return *r.deleteAffected, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.rows[id]
	if !ok || j.Deleted {
		return 0, nil
	}
	j.Deleted = true
	r.rows[id] = j
	return 1, nil
}

func (r *memJobRepo) IncrementViewCount(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.rows[id]
	if !ok || j.Deleted {
		return 0, nil
	}
	j.ViewCount++
	r.rows[id] = j
	r.increments++
	return 1, nil
}

func (r *memJobRepo) List(_ context.Context, f repository.JobFilter) ([]jobdomain.Job, int64, error) {
	r.mu.Lock()
	r.lastFilter = f
	var matched []jobdomain.Job
	for _, j := range r.rows {
		if matches(j, f) {
			matched = append(matched, j)
		}
	}
	r.mu.Unlock()

	sort.Slice(matched, func(a, b int) bool {
		less := matched[a].CreatedAt.Before(matched[b].CreatedAt)
		if f.OrderBy == repository.OrderByViewCount {
			less = matched[a].ViewCount < matched[b].ViewCount
		}
		if f.Asc {
			return less
		}
		return !less
	})

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []jobdomain.Job{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

func (r *memJobRepo) ListHot(ctx context.Context, limit int) ([]jobdomain.Job, error) {
	rows, _, err := r.List(ctx, repository.JobFilter{
		Status:  string(jobdomain.StatusPublished),
		OrderBy: repository.OrderByViewCount,
		Limit:   limit,
	})
	return rows, err
}

func matches(j jobdomain.Job, f repository.JobFilter) bool {
	if j.Deleted {
		return false
	}
	if f.Keyword != "" && !strings.Contains(j.Title, f.Keyword) &&
		!strings.Contains(j.Description, f.Keyword) && !strings.Contains(j.Requirements, f.Keyword) {
		return false
	}
	if f.Department != "" && j.Department != f.Department {
		return false
	}
	if f.Status != "" && string(j.Status) != f.Status {
		return false
	}
	if f.SalaryMin != nil && (j.SalaryMin == nil || *j.SalaryMin < *f.SalaryMin) {
		return false
	}
	if f.ExperienceMin != nil && (j.ExperienceMin == nil || *j.ExperienceMin > *f.ExperienceMin) {
		return false
	}
	return true
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	deletes []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	c.mu.Lock()
	b, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = b
	c.ttls[key] = ttl
	c.mu.Unlock()
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.deletes = append(c.deletes, key)
	c.mu.Unlock()
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

type recordingPublisher struct {
	mu   sync.Mutex
	got  []events.JobEvent
	fail bool
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.JobEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, evt)
	if p.fail {
		return errors.New("broker down")
	}
	return nil
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
