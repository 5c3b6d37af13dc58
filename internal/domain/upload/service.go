package upload

import (
	"context"
	"log"
	"time"

	"worklog/internal/domain/auth"
	"worklog/internal/domain/worklog"
	"worklog/internal/storage"

	"github.com/google/uuid"
)

// TransferFailure reports one file whose bucket transfer failed. The
// database is only updated for files that transferred successfully.
type TransferFailure struct {
	Field    string `json:"field"`
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// AttachOutcome is the full per-file report of one upload request.
type AttachOutcome struct {
	Photos      []worklog.Photo      `json:"photos"`
	Certificate *worklog.Certificate `json:"certificate,omitempty"`
	Rejected    []Rejection          `json:"rejected,omitempty"`
	Failed      []TransferFailure    `json:"failed,omitempty"`
}

// Service orchestrates the upload pipeline: validate each file, transfer
// the accepted ones to the bucket, then attach the results to the log
// record under the authorization and mutability rules.
type Service struct {
	logs     worklog.Repository
	store    storage.Storage
	transfer *Transferrer
	policy   Policy
}

func NewService(logs worklog.Repository, store storage.Storage, policy Policy) *Service {
	return &Service{
		logs:     logs,
		store:    store,
		transfer: NewTransferrer(store),
		policy:   policy,
	}
}

// UploadFiles runs the pipeline for one request. Authorization and
// mutability are checked before any transfer so a rejected request never
// creates bucket objects.
func (s *Service) UploadFiles(ctx context.Context, logID string, actorID int64, role auth.Role, files []UploadedFile) (*AttachOutcome, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	l, err := s.logs.GetByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	if !l.EditableBy(actorID, role) {
		return nil, worklog.ErrForbidden
	}
	if l.IsApproved() {
		return nil, worklog.ErrLogApproved
	}

	accepted, rejected := s.policy.Validate(files)
	outcome := &AttachOutcome{Rejected: rejected}
	if len(accepted) == 0 {
		return outcome, ErrNoValidFiles
	}

	results := s.transfer.Transfer(ctx, accepted)

	now := time.Now()
	var photos []worklog.Photo
	var cert *worklog.Certificate
	for _, res := range results {
		if res.Err != nil {
			log.Printf("upload: transfer failed field=%s file=%s: %v", res.File.Field, res.File.OriginalName, res.Err)
			outcome.Failed = append(outcome.Failed, TransferFailure{
				Field:    res.File.Field,
				Filename: res.File.OriginalName,
				Error:    res.Err.Error(),
			})
			continue
		}

		switch res.File.Field {
		case FieldWorkPhotos:
			photos = append(photos, worklog.Photo{
				ID:           uuid.New().String(),
				URL:          res.URL,
				StorageKey:   res.Key,
				OriginalName: res.File.OriginalName,
				UploadedAt:   now,
			})
		case FieldDeliveryCertificate:
			cert = &worklog.Certificate{
				ID:           uuid.New().String(),
				URL:          res.URL,
				StorageKey:   res.Key,
				OriginalName: res.File.OriginalName,
				MimeType:     res.File.ContentType,
				Size:         res.File.Size,
				UploadedAt:   now,
			}
		}
	}

	if len(photos) == 0 && cert == nil {
		// Every transfer failed; nothing to commit.
		return outcome, nil
	}

	var replaced *worklog.Certificate
	_, err = worklog.Mutate(ctx, s.logs, logID, func(l *worklog.WorkLog) error {
		if !l.EditableBy(actorID, role) {
			return worklog.ErrForbidden
		}
		if l.IsApproved() {
			return worklog.ErrLogApproved
		}
		replaced = nil
		l.AddPhotos(photos)
		if cert != nil {
			replaced = l.SetCertificate(*cert)
		}
		return nil
	})
	if err != nil {
		// The record never referenced these objects; clean them up
		// best-effort rather than leaking them.
		s.deleteObjects(ctx, append(keysOf(photos), certKey(cert)...))
		return outcome, err
	}

	// The old certificate object is unreferenced now.
	if replaced != nil && replaced.StorageKey != "" {
		s.deleteObjects(ctx, []string{replaced.StorageKey})
	}

	outcome.Photos = photos
	outcome.Certificate = cert
	return outcome, nil
}

// DetachFile removes one attachment. The database record is persisted
// first; the bucket delete afterwards is best-effort — a dangling object
// is an acceptable leak, a dangling database reference is not.
func (s *Service) DetachFile(ctx context.Context, logID string, actorID int64, role auth.Role, fileType, fileID string) error {
	if fileType != FieldWorkPhotos && fileType != FieldDeliveryCertificate {
		return ErrInvalidFileType
	}

	var removedKey string
	_, err := worklog.Mutate(ctx, s.logs, logID, func(l *worklog.WorkLog) error {
		if !l.EditableBy(actorID, role) {
			return worklog.ErrForbidden
		}
		if l.IsApproved() {
			return worklog.ErrLogApproved
		}

		removedKey = ""
		switch fileType {
		case FieldWorkPhotos:
			photo, ok := l.RemovePhoto(fileID)
			if !ok {
				return worklog.ErrAttachmentNotFound
			}
			removedKey = photo.StorageKey
		case FieldDeliveryCertificate:
			cert := l.ClearCertificate()
			if cert == nil {
				return worklog.ErrAttachmentNotFound
			}
			removedKey = cert.StorageKey
		}
		return nil
	})
	if err != nil {
		return err
	}

	if removedKey != "" {
		s.deleteObjects(ctx, []string{removedKey})
	}
	return nil
}

func (s *Service) deleteObjects(ctx context.Context, keys []string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			log.Printf("upload: failed to delete object %s: %v", key, err)
		}
	}
}

func keysOf(photos []worklog.Photo) []string {
	keys := make([]string, 0, len(photos))
	for _, p := range photos {
		keys = append(keys, p.StorageKey)
	}
	return keys
}

func certKey(c *worklog.Certificate) []string {
	if c == nil {
		return nil
	}
	return []string{c.StorageKey}
}
