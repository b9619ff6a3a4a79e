package model

import (
	"errors"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// Pattern copied from the original apply-link validator.
var applyLinkPattern = regexp.MustCompile(`^(ftp|http|https)://[^ "]+$`)

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	AvatarURL string `json:"avatarUrl"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Phone, validation.Required, validation.By(validatePhone)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 100)),
	)
}

func validatePhone(value interface{}) error {
	raw, _ := value.(string)
	parsed, err := phonenumbers.Parse(raw, "US")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return errors.New("must be a valid phone number")
	}

	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type CreateJobRequest struct {
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
}

// MissingFields reports the required fields absent from the payload, in the
// original field order, so the aggregated error message matches the old API.
func (r CreateJobRequest) MissingFields() []string {
	missing := []string{}

	checks := []struct {
		name  string
		empty bool
	}{
		{"title", r.Title == ""},
		{"company", r.Company == ""},
		{"location", r.Location == ""},
		{"image", r.Image == ""},
		{"description", r.Description == ""},
		{"salary", r.Salary == ""},
		{"jobType", r.JobType == ""},
		{"experience", r.Experience == ""},
		{"skills", len(r.Skills) == 0},
		{"applyLink", r.ApplyLink == ""},
		{"lastDate", r.LastDate.IsZero()},
	}

	for _, check := range checks {
		if check.empty {
			missing = append(missing, check.name)
		}
	}

	return missing
}

func (r CreateJobRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Location, validation.In(toAnySlice(JobLocations)...).
			Error("must be either 'Remote', 'On-site', or 'Hybrid'")),
		validation.Field(&r.JobType, validation.In(toAnySlice(JobTypes)...).
			Error("must be one of: Full-time, Part-time, Contract, Internship, Freelance")),
		validation.Field(&r.ApplyLink, validation.Match(applyLinkPattern).
			Error("is not a valid URL")),
	)
}

// UpdateJobRequest carries a partial update; nil fields are left untouched,
// matching the original's $set semantics.
type UpdateJobRequest struct {
	Title       *string    `json:"title"`
	Company     *string    `json:"company"`
	Location    *string    `json:"location"`
	Image       *string    `json:"image"`
	Description *string    `json:"description"`
	Salary      *string    `json:"salary"`
	JobType     *string    `json:"jobType"`
	Experience  *string    `json:"experience"`
	Skills      *[]string  `json:"skills"`
	ApplyLink   *string    `json:"applyLink"`
	LastDate    *time.Time `json:"lastDate"`
}

func toAnySlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
