package worklog

import (
	"context"
	"log"
	"strings"
	"time"

	"worklog/internal/domain/auth"
	"worklog/internal/storage"

	"github.com/google/uuid"
)

// Notifier delivers best-effort side notifications. Failures are logged,
// never propagated: a missed warning must not fail the primary request.
type Notifier interface {
	DuplicateLogWarning(ctx context.Context, userID int64, date time.Time, project string) error
	LogApproved(ctx context.Context, userID int64, logID, project string) error
}

// Service holds the work-log business logic.
type Service struct {
	repo     Repository
	notifier Notifier        // optional
	store    storage.Storage // optional, used to clean up objects on log delete
}

func NewService(repo Repository, notifier Notifier, store storage.Storage) *Service {
	return &Service{repo: repo, notifier: notifier, store: store}
}

// CreateInput carries the parsed fields for a new log.
type CreateInput struct {
	Date            time.Time
	Project         string
	Employees       []string
	StartTime       time.Time
	EndTime         time.Time
	WorkDescription string
	Status          Status // empty means draft
}

func (in *CreateInput) normalize() error {
	in.Project = strings.TrimSpace(in.Project)
	in.WorkDescription = strings.TrimSpace(in.WorkDescription)

	cleaned := make([]string, 0, len(in.Employees))
	for _, e := range in.Employees {
		e = strings.TrimSpace(e)
		if e != "" {
			cleaned = append(cleaned, e)
		}
	}
	in.Employees = cleaned

	if in.Status == "" {
		in.Status = StatusDraft
	}

	switch {
	case in.Project == "":
		return ErrValidation
	case in.WorkDescription == "":
		return ErrValidation
	case in.Date.IsZero():
		return ErrValidation
	case !in.EndTime.After(in.StartTime):
		return ErrValidation
	case in.Status == StatusApproved:
		// A log can never be born approved.
		return ErrValidation
	case !in.Status.Valid():
		return ErrValidation
	}
	return nil
}

// Create inserts a new draft/submitted log after the duplicate check for
// the (team leader, date, project) triple. On conflict, the warning
// notification is fired best-effort and ErrDuplicateLog is returned.
func (s *Service) Create(ctx context.Context, teamLeaderID int64, in CreateInput) (*WorkLog, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindDuplicate(ctx, teamLeaderID, in.Date, in.Project)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if s.notifier != nil {
			if nerr := s.notifier.DuplicateLogWarning(ctx, teamLeaderID, in.Date, in.Project); nerr != nil {
				log.Printf("worklog: duplicate warning notification failed: %v", nerr)
			}
		}
		return nil, ErrDuplicateLog
	}

	now := time.Now()
	l := &WorkLog{
		ID:              uuid.New().String(),
		Date:            DateOnly(in.Date),
		Project:         in.Project,
		Employees:       in.Employees,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		WorkDescription: in.WorkDescription,
		Status:          in.Status,
		TeamLeaderID:    teamLeaderID,
		Photos:          []Photo{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// GetByID returns a log visible to the actor.
func (s *Service) GetByID(ctx context.Context, actorID int64, role auth.Role, id string) (*WorkLog, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.EditableBy(actorID, role) {
		return nil, ErrForbidden
	}
	return l, nil
}

// List returns logs: team leaders see their own, managers see everything.
func (s *Service) List(ctx context.Context, actorID int64, role auth.Role, f ListFilter) ([]*WorkLog, error) {
	if role != auth.RoleManager {
		f.TeamLeaderID = actorID
	}
	return s.repo.List(ctx, f)
}

// UpdateInput carries the editable core fields. Nil pointers are untouched.
type UpdateInput struct {
	Date            *time.Time
	Project         *string
	Employees       *[]string
	StartTime       *time.Time
	EndTime         *time.Time
	WorkDescription *string
}

// Update edits core fields of a non-approved log.
func (s *Service) Update(ctx context.Context, actorID int64, role auth.Role, id string, in UpdateInput) (*WorkLog, error) {
	return Mutate(ctx, s.repo, id, func(l *WorkLog) error {
		if !l.EditableBy(actorID, role) {
			return ErrForbidden
		}
		if l.IsApproved() {
			return ErrLogApproved
		}

		if in.Date != nil {
			l.Date = DateOnly(*in.Date)
		}
		if in.Project != nil {
			l.Project = strings.TrimSpace(*in.Project)
		}
		if in.Employees != nil {
			cleaned := make([]string, 0, len(*in.Employees))
			for _, e := range *in.Employees {
				e = strings.TrimSpace(e)
				if e != "" {
					cleaned = append(cleaned, e)
				}
			}
			l.Employees = cleaned
		}
		if in.StartTime != nil {
			l.StartTime = *in.StartTime
		}
		if in.EndTime != nil {
			l.EndTime = *in.EndTime
		}
		if in.WorkDescription != nil {
			l.WorkDescription = strings.TrimSpace(*in.WorkDescription)
		}

		if l.Project == "" || l.WorkDescription == "" || !l.EndTime.After(l.StartTime) {
			return ErrValidation
		}
		return nil
	})
}

// Submit moves a draft to submitted. Only the owning team leader submits;
// managers review, they do not submit on a leader's behalf.
func (s *Service) Submit(ctx context.Context, actorID int64, role auth.Role, id string) (*WorkLog, error) {
	return Mutate(ctx, s.repo, id, func(l *WorkLog) error {
		if l.TeamLeaderID != actorID {
			return ErrForbidden
		}
		if l.Status != StatusDraft {
			return ErrInvalidStatusTransition
		}
		l.Status = StatusSubmitted
		return nil
	})
}

// Approve moves a submitted log to approved and records the approver.
// Manager only; the owner gets a best-effort notification.
func (s *Service) Approve(ctx context.Context, managerID int64, role auth.Role, id string) (*WorkLog, error) {
	if role != auth.RoleManager {
		return nil, ErrForbidden
	}

	l, err := Mutate(ctx, s.repo, id, func(l *WorkLog) error {
		if l.Status != StatusSubmitted {
			return ErrInvalidStatusTransition
		}
		now := time.Now()
		l.Status = StatusApproved
		l.ApprovedBy = &managerID
		l.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if nerr := s.notifier.LogApproved(ctx, l.TeamLeaderID, l.ID, l.Project); nerr != nil {
			log.Printf("worklog: approval notification failed: %v", nerr)
		}
	}
	return l, nil
}

// Delete removes a non-approved log and best-effort deletes its bucket
// objects. A dangling object is an acceptable leak; a dangling database
// reference is not, so the record goes first.
func (s *Service) Delete(ctx context.Context, actorID int64, role auth.Role, id string) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !l.EditableBy(actorID, role) {
		return ErrForbidden
	}
	if l.IsApproved() {
		return ErrLogApproved
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.store != nil {
		for _, key := range l.StorageKeys() {
			if derr := s.store.Delete(ctx, key); derr != nil {
				log.Printf("worklog: failed to delete object %s: %v", key, derr)
			}
		}
	}
	return nil
}
