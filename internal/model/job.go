package model

import "time"

var (
	JobLocations = []string{"Remote", "On-site", "Hybrid"}
	JobTypes     = []string{"Full-time", "Part-time", "Contract", "Internship", "Freelance"}
)

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Salary      string    `json:"salary"`
	JobType     string    `json:"jobType"`
	Experience  string    `json:"experience"`
	Skills      []string  `json:"skills"`
	ApplyLink   string    `json:"applyLink"`
	LastDate    time.Time `json:"lastDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
