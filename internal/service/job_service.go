package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-job-board/internal/model"
	"go-job-board/pkg/apierror"
)

// JobStore is the posting-store contract; *repository.JobRepository
// satisfies it.
type JobStore interface {
	List(ctx context.Context) ([]model.Job, error)
	FindByID(ctx context.Context, id string) (model.Job, error)
	Create(ctx context.Context, j model.Job) error
	Update(ctx context.Context, j model.Job) error
	Delete(ctx context.Context, id string) error
}

type JobService struct {
	jobs JobStore
}

func NewJobService(jobs JobStore) *JobService {
	return &JobService{jobs: jobs}
}

func (s *JobService) List(ctx context.Context) ([]model.Job, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, wrapInternal("Internal Server Error", err)
	}
	return jobs, nil
}

func (s *JobService) Create(ctx context.Context, req model.CreateJobRequest) (model.Job, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return model.Job{}, apierror.New("BAD_REQUEST",
			"Missing required fields: "+strings.Join(missing, ", "), "", http.StatusBadRequest)
	}
	if err := req.Validate(); err != nil {
		return model.Job{}, apierror.New("BAD_REQUEST", err.Error(), "", http.StatusBadRequest)
	}

	now := time.Now().UTC()
	job := model.Job{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Image:       req.Image,
		Description: req.Description,
		Salary:      req.Salary,
		JobType:     req.JobType,
		Experience:  req.Experience,
		Skills:      req.Skills,
		ApplyLink:   req.ApplyLink,
		LastDate:    req.LastDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		// The original surfaced the raw store message on a failed create.
		return model.Job{}, apierror.New("INTERNAL", err.Error(), "", http.StatusInternalServerError)
	}
	return job, nil
}

// Update applies the provided fields to an existing job. A syntactically
// valid id that matches nothing yields a nil job and a 200 upstream, the
// same shape the original API produced.
func (s *JobService) Update(ctx context.Context, id string, req model.UpdateJobRequest) (*model.Job, error) {
	if err := validateJobID(id); err != nil {
		return nil, err
	}

	job, err := s.jobs.FindByID(ctx, id)
	if errors.Is(err, model.ErrJobNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapInternal("Server Error", err)
	}

	applyJobUpdate(&job, req)
	job.UpdatedAt = time.Now().UTC()

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, wrapInternal("Server Error", err)
	}
	return &job, nil
}

// Delete is idempotent: deleting an id that matches nothing still succeeds.
func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := validateJobID(id); err != nil {
		return err
	}

	if err := s.jobs.Delete(ctx, id); err != nil {
		return wrapInternal("Server Error", err)
	}
	return nil
}

func (s *JobService) Get(ctx context.Context, id string) (model.Job, error) {
	if err := validateJobID(id); err != nil {
		return model.Job{}, err
	}

	job, err := s.jobs.FindByID(ctx, id)
	if errors.Is(err, model.ErrJobNotFound) {
		return model.Job{}, apierror.New("NOT_FOUND", "Job not found", "", http.StatusNotFound)
	}
	if err != nil {
		return model.Job{}, wrapInternal("Internal Server Error", err)
	}
	return job, nil
}

// GetByIndex resolves a 1-based position in the full listing, the contract
// behind the public view URLs.
func (s *JobService) GetByIndex(ctx context.Context, index int) (model.Job, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return model.Job{}, wrapInternal("Internal Server Error", err)
	}

	if index < 1 || index > len(jobs) {
		return model.Job{}, apierror.New("NOT_FOUND", "Job not found", "", http.StatusNotFound)
	}
	return jobs[index-1], nil
}

// validateJobID mirrors the original object-id check, including its odd but
// load-bearing choice of 404 for a malformed id.
func validateJobID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apierror.New("NOT_FOUND", "Invalid job ID", "", http.StatusNotFound)
	}
	return nil
}

func applyJobUpdate(job *model.Job, req model.UpdateJobRequest) {
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Company != nil {
		job.Company = *req.Company
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Image != nil {
		job.Image = *req.Image
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Salary != nil {
		job.Salary = *req.Salary
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.Experience != nil {
		job.Experience = *req.Experience
	}
	if req.Skills != nil {
		job.Skills = *req.Skills
	}
	if req.ApplyLink != nil {
		job.ApplyLink = *req.ApplyLink
	}
	if req.LastDate != nil {
		job.LastDate = *req.LastDate
	}
}
