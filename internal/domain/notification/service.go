package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID int64, t Type, title, message string, data map[string]any) error {
	n := &Notification{
		UserID:    userID,
		Type:      t,
		Title:     title,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		n.Data = raw
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// DuplicateLogWarning implements the worklog Notifier side channel.
func (s *Service) DuplicateLogWarning(ctx context.Context, userID int64, date time.Time, project string) error {
	return s.Create(
		ctx,
		userID,
		TypeDuplicateLog,
		"Duplicate log",
		fmt.Sprintf("A log already exists for %s on %s", project, date.Format("2006-01-02")),
		map[string]any{
			"date":    date.Format("2006-01-02"),
			"project": project,
		},
	)
}

// LogApproved tells the owning team leader their log was approved.
func (s *Service) LogApproved(ctx context.Context, userID int64, logID, project string) error {
	return s.Create(
		ctx,
		userID,
		TypeLogApproved,
		"Log approved",
		fmt.Sprintf("Your log for %s was approved", project),
		map[string]any{
			"log_id":  logID,
			"project": project,
		},
	)
}
