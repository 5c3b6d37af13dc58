package worklog

import (
	"time"
)

const dateLayout = "2006-01-02"

// CreateLogRequest is the JSON body for POST /logs.
// Date uses YYYY-MM-DD; times are RFC3339.
type CreateLogRequest struct {
	Date            string   `json:"date" validate:"required"`
	Project         string   `json:"project" validate:"required"`
	Employees       []string `json:"employees"`
	StartTime       string   `json:"start_time" validate:"required"`
	EndTime         string   `json:"end_time" validate:"required"`
	WorkDescription string   `json:"work_description" validate:"required"`
	Status          string   `json:"status" validate:"omitempty,oneof=draft submitted"`
}

func (r CreateLogRequest) toInput() (CreateInput, map[string]string) {
	details := map[string]string{}

	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		details["date"] = "must be YYYY-MM-DD"
	}
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		details["start_time"] = "must be RFC3339"
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		details["end_time"] = "must be RFC3339"
	}
	if len(details) > 0 {
		return CreateInput{}, details
	}

	return CreateInput{
		Date:            date,
		Project:         r.Project,
		Employees:       r.Employees,
		StartTime:       start,
		EndTime:         end,
		WorkDescription: r.WorkDescription,
		Status:          Status(r.Status),
	}, nil
}

// UpdateLogRequest is the JSON body for PUT /logs/:id. Absent fields are
// left unchanged.
type UpdateLogRequest struct {
	Date            *string   `json:"date"`
	Project         *string   `json:"project"`
	Employees       *[]string `json:"employees"`
	StartTime       *string   `json:"start_time"`
	EndTime         *string   `json:"end_time"`
	WorkDescription *string   `json:"work_description"`
}

func (r UpdateLogRequest) toInput() (UpdateInput, map[string]string) {
	details := map[string]string{}
	var in UpdateInput

	if r.Date != nil {
		d, err := time.Parse(dateLayout, *r.Date)
		if err != nil {
			details["date"] = "must be YYYY-MM-DD"
		} else {
			in.Date = &d
		}
	}
	if r.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *r.StartTime)
		if err != nil {
			details["start_time"] = "must be RFC3339"
		} else {
			in.StartTime = &t
		}
	}
	if r.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *r.EndTime)
		if err != nil {
			details["end_time"] = "must be RFC3339"
		} else {
			in.EndTime = &t
		}
	}
	in.Project = r.Project
	in.Employees = r.Employees
	in.WorkDescription = r.WorkDescription

	if len(details) > 0 {
		return UpdateInput{}, details
	}
	return in, nil
}
