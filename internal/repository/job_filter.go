package repository

import (
	"strconv"
	"strings"
)

const (
	OrderByCreatedAt = "created_at"
	OrderBySalaryMax = "salary_max"
	OrderByViewCount = "view_count"
)

// JobFilter selects live job rows. Zero-valued fields are not filtered on.
type JobFilter struct {
	Keyword       string
	Department    string
	JobType       string
	Education     string
	ExperienceMin *int
	SalaryMin     *int
	Status        string

	OrderBy string
	Asc     bool

	Limit  int
	Offset int
}

type whereBuilder struct {
	clauses []string
	args    []any
}

// add appends a predicate whose single "?" placeholder is bound to arg.
// Every "?" in clause refers to the same argument.
func (b *whereBuilder) add(clause string, arg any) {
	b.args = append(b.args, arg)
	b.clauses = append(b.clauses, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(b.args))))
}

func (b *whereBuilder) sql() string {
	return strings.Join(b.clauses, " AND ")
}

func buildJobWhere(f JobFilter) (string, []any) {
	b := &whereBuilder{clauses: []string{"deleted = false"}}

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		b.add("(title LIKE ? OR description LIKE ? OR requirements LIKE ?)", "%"+escapeLike(kw)+"%")
	}
	if v := strings.TrimSpace(f.Department); v != "" {
		b.add("department = ?", v)
	}
	if v := strings.TrimSpace(f.JobType); v != "" {
		b.add("job_type = ?", v)
	}
	if v := strings.TrimSpace(f.Education); v != "" {
		b.add("education = ?", v)
	}
	if f.ExperienceMin != nil {
		b.add("experience_min <= ?", *f.ExperienceMin)
	}
	if f.SalaryMin != nil {
		b.add("salary_min >= ?", *f.SalaryMin)
	}
	if v := strings.TrimSpace(f.Status); v != "" {
		b.add("status = ?", v)
	}

	return b.sql(), b.args
}

// buildJobOrder falls back to created_at for unknown columns. id breaks ties
// so pages stay stable.
func buildJobOrder(orderBy string, asc bool) string {
	col := OrderByCreatedAt
	switch orderBy {
	case OrderBySalaryMax, OrderByViewCount:
		col = orderBy
	}
	dir := "DESC"
	if asc {
		dir = "ASC"
	}
	nulls := ""
	if col == OrderBySalaryMax {
		nulls = " NULLS LAST"
	}
	return col + " " + dir + nulls + ", id " + dir
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
