package worklog

import (
	"strings"
	"time"

	"worklog/internal/domain/auth"

	"github.com/google/uuid"
)

// Status is the review state of a daily log.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusSubmitted || s == StatusApproved
}

// Photo is one structured work-photo attachment. Entries migrated from the
// legacy path-string shape carry an empty StorageKey: there is no bucket
// object behind them, so detach skips the physical delete.
type Photo struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	StorageKey   string    `json:"storage_key,omitempty"`
	OriginalName string    `json:"original_name,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Certificate is the single delivery document attached to a log.
type Certificate struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	StorageKey   string    `json:"storage_key,omitempty"`
	OriginalName string    `json:"original_name,omitempty"`
	MimeType     string    `json:"mime_type,omitempty"`
	Size         int64     `json:"size,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// WorkLog records one team leader's work on one project on one day.
// At most one log may exist per (team leader, date, project).
type WorkLog struct {
	ID              string    `gorm:"column:id;primaryKey" json:"id"`
	Date            time.Time `gorm:"column:date;index" json:"date"`
	Project         string    `gorm:"column:project" json:"project"`
	Employees       []string  `gorm:"column:employees;serializer:json" json:"employees"`
	StartTime       time.Time `gorm:"column:start_time" json:"start_time"`
	EndTime         time.Time `gorm:"column:end_time" json:"end_time"`
	WorkDescription string    `gorm:"column:work_description" json:"work_description"`

	Status       Status     `gorm:"column:status;index" json:"status"`
	TeamLeaderID int64      `gorm:"column:team_leader_id;index" json:"team_leader_id"`
	ApprovedBy   *int64     `gorm:"column:approved_by" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`

	Photos      []Photo      `gorm:"column:photos;serializer:json" json:"photos"`
	Certificate *Certificate `gorm:"column:certificate;serializer:json" json:"certificate,omitempty"`

	// Legacy local-disk shapes kept from the old pipeline. Normalized into
	// Photos/Certificate on read; persisted back in the structured form on
	// the next save.
	LegacyCertificatePath string   `gorm:"column:legacy_certificate_path" json:"-"`
	LegacyPhotoPaths      []string `gorm:"column:legacy_photo_paths;serializer:json" json:"-"`

	Version   int       `gorm:"column:version" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (WorkLog) TableName() string { return "work_logs" }

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (l *WorkLog) IsApproved() bool {
	return l.Status == StatusApproved
}

// EditableBy reports whether the actor may mutate this log: managers always,
// team leaders only on their own logs.
func (l *WorkLog) EditableBy(userID int64, role auth.Role) bool {
	return role == auth.RoleManager || l.TeamLeaderID == userID
}

// NormalizeLegacy migrates legacy path-string attachments into structured
// entries. Ids are derived from the path so repeated reads of an unsaved
// record agree on them; the next save persists the structured form.
func (l *WorkLog) NormalizeLegacy() {
	for _, p := range l.LegacyPhotoPaths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		l.Photos = append(l.Photos, Photo{
			ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(p)).String(),
			URL:        p,
			UploadedAt: l.CreatedAt,
		})
	}
	l.LegacyPhotoPaths = nil

	if l.Certificate == nil && l.LegacyCertificatePath != "" {
		l.Certificate = &Certificate{
			ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(l.LegacyCertificatePath)).String(),
			URL:        l.LegacyCertificatePath,
			UploadedAt: l.CreatedAt,
		}
	}
	l.LegacyCertificatePath = ""
}

// AddPhotos appends entries to the photo list, preserving existing order.
func (l *WorkLog) AddPhotos(photos []Photo) {
	l.Photos = append(l.Photos, photos...)
}

// SetCertificate replaces the single certificate slot wholesale and returns
// the previous entry, if any, so its object can be cleaned up.
func (l *WorkLog) SetCertificate(c Certificate) *Certificate {
	prev := l.Certificate
	l.Certificate = &c
	return prev
}

// RemovePhoto deletes the photo with the given id, keeping the relative
// order of the remaining entries.
func (l *WorkLog) RemovePhoto(id string) (Photo, bool) {
	for i, p := range l.Photos {
		if p.ID == id {
			l.Photos = append(l.Photos[:i], l.Photos[i+1:]...)
			return p, true
		}
	}
	return Photo{}, false
}

// ClearCertificate empties the certificate slot and returns the removed entry.
func (l *WorkLog) ClearCertificate() *Certificate {
	prev := l.Certificate
	l.Certificate = nil
	return prev
}

// StorageKeys collects the bucket keys of every attachment that has one.
func (l *WorkLog) StorageKeys() []string {
	var keys []string
	for _, p := range l.Photos {
		if p.StorageKey != "" {
			keys = append(keys, p.StorageKey)
		}
	}
	if l.Certificate != nil && l.Certificate.StorageKey != "" {
		keys = append(keys, l.Certificate.StorageKey)
	}
	return keys
}
