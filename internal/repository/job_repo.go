package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-job-board/internal/model"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

const jobColumns = `id, title, company, location, image, description, salary,
	job_type, experience, skills, apply_link, last_date, created_at, updated_at`

func scanJob(row pgx.Row) (model.Job, error) {
	var j model.Job
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Image,
		&j.Description, &j.Salary, &j.JobType, &j.Experience, &j.Skills,
		&j.ApplyLink, &j.LastDate, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

// List returns every job in insertion order; the 1-based view index is
// defined over this ordering.
func (r *JobRepository) List(ctx context.Context) ([]model.Job, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (model.Job, error) {
	job, err := scanJob(r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Job{}, model.ErrJobNotFound
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("find job by id: %w", err)
	}
	return job, nil
}

func (r *JobRepository) Create(ctx context.Context, j model.Job) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, company, location, image, description, salary,
		  job_type, experience, skills, apply_link, last_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		j.ID, j.Title, j.Company, j.Location, j.Image, j.Description, j.Salary,
		j.JobType, j.Experience, j.Skills, j.ApplyLink, j.LastDate, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, j model.Job) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE jobs SET title = $2, company = $3, location = $4, image = $5,
		  description = $6, salary = $7, job_type = $8, experience = $9,
		  skills = $10, apply_link = $11, last_date = $12, updated_at = $13
		 WHERE id = $1`,
		j.ID, j.Title, j.Company, j.Location, j.Image, j.Description, j.Salary,
		j.JobType, j.Experience, j.Skills, j.ApplyLink, j.LastDate, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}
