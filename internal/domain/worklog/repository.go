package worklog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	TeamLeaderID int64
	Status       Status
	From         time.Time
	To           time.Time
}

type Repository interface {
	Create(ctx context.Context, l *WorkLog) error
	GetByID(ctx context.Context, id string) (*WorkLog, error)
	// FindDuplicate looks up an existing log for the uniqueness triple.
	// Project is compared after trimming, case preserved.
	FindDuplicate(ctx context.Context, teamLeaderID int64, date time.Time, project string) (*WorkLog, error)
	List(ctx context.Context, f ListFilter) ([]*WorkLog, error)
	// Save persists the full record with an optimistic version check and
	// returns ErrVersionConflict when a concurrent writer got there first.
	Save(ctx context.Context, l *WorkLog) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *WorkLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*WorkLog, error) {
	var l WorkLog
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, err
	}
	l.NormalizeLegacy()
	return &l, nil
}

func (r *repository) FindDuplicate(ctx context.Context, teamLeaderID int64, date time.Time, project string) (*WorkLog, error) {
	var l WorkLog
	err := r.db.WithContext(ctx).
		Where("team_leader_id = ? AND date = ? AND project = ?", teamLeaderID, DateOnly(date), strings.TrimSpace(project)).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]*WorkLog, error) {
	q := r.db.WithContext(ctx).Model(&WorkLog{})
	if f.TeamLeaderID != 0 {
		q = q.Where("team_leader_id = ?", f.TeamLeaderID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("date >= ?", DateOnly(f.From))
	}
	if !f.To.IsZero() {
		q = q.Where("date <= ?", DateOnly(f.To))
	}

	var logs []*WorkLog
	if err := q.Order("date DESC, created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	for _, l := range logs {
		l.NormalizeLegacy()
	}
	return logs, nil
}

func (r *repository) Save(ctx context.Context, l *WorkLog) error {
	prev := l.Version
	l.Version = prev + 1
	l.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).Model(&WorkLog{}).
		Where("id = ? AND version = ?", l.ID, prev).
		Select("*").
		Updates(l)
	if res.Error != nil {
		l.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		l.Version = prev
		return ErrVersionConflict
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&WorkLog{}).Error
}

// Mutate runs a read-modify-write cycle against one log, retrying when a
// concurrent writer bumps the version first. fn is applied to a fresh copy
// on every attempt.
func Mutate(ctx context.Context, repo Repository, id string, fn func(*WorkLog) error) (*WorkLog, error) {
	const maxAttempts = 3

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		l, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(l); err != nil {
			return nil, err
		}
		lastErr = repo.Save(ctx, l)
		if lastErr == nil {
			return l, nil
		}
		if !errors.Is(lastErr, ErrVersionConflict) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}
