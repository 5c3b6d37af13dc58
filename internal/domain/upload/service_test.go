package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"worklog/internal/domain/auth"
	"worklog/internal/domain/worklog"
	"worklog/internal/storage"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the CGO-free "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

const (
	leaderID      int64 = 1
	otherLeaderID int64 = 2
	managerID     int64 = 9
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:upload_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&worklog.WorkLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, worklog.Repository, *storage.MemoryStorage) {
	t.Helper()
	repo := worklog.NewRepository(newTestDB(t))
	store := storage.NewMemory()
	return NewService(repo, store, DefaultPolicy()), repo, store
}

func seedLog(t *testing.T, repo worklog.Repository, status worklog.Status) *worklog.WorkLog {
	t.Helper()
	now := time.Now()
	l := &worklog.WorkLog{
		ID:              uuid.New().String(),
		Date:            worklog.DateOnly(now),
		Project:         "Riverside Substation",
		Employees:       []string{"D. Omarov", "A. Seitkali"},
		StartTime:       now.Add(-8 * time.Hour),
		EndTime:         now,
		WorkDescription: "Cable trench backfill",
		Status:          status,
		TeamLeaderID:    leaderID,
		Photos:          []worklog.Photo{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repo.Create(context.Background(), l); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	return l
}

func jpeg(name string) UploadedFile {
	return UploadedFile{
		Field:        FieldWorkPhotos,
		OriginalName: name,
		ContentType:  "image/jpeg",
		Size:         3,
		Data:         []byte("img"),
	}
}

func pdf(name string) UploadedFile {
	return UploadedFile{
		Field:        FieldDeliveryCertificate,
		OriginalName: name,
		ContentType:  "application/pdf",
		Size:         3,
		Data:         []byte("pdf"),
	}
}

func TestUploadFiles_AttachesPhotosAndCertificate(t *testing.T) {
	svc, repo, store := newTestService(t)
	l := seedLog(t, repo, worklog.StatusDraft)
	ctx := context.Background()

	outcome, err := svc.UploadFiles(ctx, l.ID, leaderID, auth.RoleTeamLeader, []UploadedFile{
		jpeg("first.jpg"), jpeg("second.jpg"), pdf("act.pdf"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(outcome.Photos) != 2 || outcome.Certificate == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 bucket objects, got %d", store.Len())
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.Photos) != 2 {
		t.Fatalf("expected 2 attached photos, got %d", len(got.Photos))
	}
	if got.Photos[0].OriginalName != "first.jpg" || got.Photos[1].OriginalName != "second.jpg" {
		t.Fatalf("photo order not preserved: %+v", got.Photos)
	}
	if got.Certificate == nil || got.Certificate.OriginalName != "act.pdf" {
		t.Fatalf("certificate not attached: %+v", got.Certificate)
	}
	if got.Version != 2 {
		t.Fatalf("expected version bump to 2, got %d", got.Version)
	}
	for _, p := range got.Photos {
		if !store.Has(p.StorageKey) {
			t.Fatalf("photo object %s missing from store", p.StorageKey)
		}
	}
}

func TestUploadFiles_ForbiddenForOtherLeader(t *testing.T) {
	svc, repo, store := newTestService(t)
	l := seedLog(t, repo, worklog.StatusDraft)

	_, err := svc.UploadFiles(context.Background(), l.ID, otherLeaderID, auth.RoleTeamLeader, []UploadedFile{jpeg("x.jpg")})
	if !errors.Is(err, worklog.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	// Authorization is checked before the transfer stage.
	if store.Len() != 0 {
		t.Fatalf("forbidden request created %d bucket objects", store.Len())
	}
}

func TestUploadFiles_ManagerMayAttachToAnyLog(t *testing.T) {
	svc, repo, _ := newTestService(t)
	l := seedLog(t, repo, worklog.StatusDraft)

	outcome, err := svc.UploadFiles(context.Background(), l.ID, managerID, auth.RoleManager, []UploadedFile{jpeg("m.jpg")})
	if err != nil {
		t.Fatalf("upload as manager: %v", err)
	}
	if len(outcome.Photos) != 1 {
		t.Fatalf("expected 1 photo, got %+v", outcome)
	}
}

func TestUploadFiles_ApprovedLogIsImmutable(t *testing.T) {
	svc, repo, store := newTestService(t)
	l := seedLog(t, repo, worklog.StatusApproved)

	_, err := svc.UploadFiles(context.Background(), l.ID, leaderID, auth.RoleTeamLeader, []UploadedFile{jpeg("x.jpg")})
	if !errors.Is(err, worklog.ErrLogApproved) {
		t.Fatalf("got %v, want ErrLogApproved", err)
	}
	if store.Len() != 0 {
		t.Fatalf("immutable log still got %d bucket objects", store.Len())
	}
}

func TestUploadFiles_NoValidFiles(t *testing.T) {
	svc, repo, _ := newTestService(t)
	l := seedLog(t, repo, worklog.StatusDraft)

	outcome, err := svc.UploadFiles(context.Background(), l.ID, leaderID, auth.RoleTeamLeader, []UploadedFile{
		{Field: FieldWorkPhotos, OriginalName: "notes.txt", ContentType: "text/plain", Size: 5, Data: []byte("hello")},
	})
	if !errors.Is(err, ErrNoValidFiles) {
		t.Fatalf("got %v, want ErrNoValidFiles", err)
	}
	if len(outcome.Rejected) != 1 {
		t.Fatalf("expected the rejection to be reported, got %+v", outcome)
	}

	_, err = svc.UploadFiles(context.Background(), l.ID, leaderID, auth.RoleTeamLeader, nil)
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("got %v, want ErrNoFiles", err)
	}
}

// flakyStore fails uploads whose key contains a marker substring, so a
// single file in a batch can be made to fail its transfer.
type flakyStore struct {
	*storage.MemoryStorage
	failSubstring string
}

func (s *flakyStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if strings.Contains(key, s.failSubstring) {
		return fmt.Errorf("storage: put %s: connection reset", key)
	}
	return s.MemoryStorage.Upload(ctx, key, r, size, contentType)
}

func TestUploadFiles_PartialTransferFailureCommitsSuccesses(t *testing.T) {
	repo := worklog.NewRepository(newTestDB(t))
	store := &flakyStore{MemoryStorage: storage.NewMemory(), failSubstring: "broken"}
	svc := NewService(repo, store, DefaultPolicy())
	l := seedLog(t, repo, worklog.StatusDraft)
	ctx := context.Background()

	outcome, err := svc.UploadFiles(ctx, l.ID, leaderID, auth.RoleTeamLeader, []UploadedFile{
		jpeg("good.jpg"), jpeg("broken.jpg"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(outcome.Photos) != 1 || outcome.Photos[0].OriginalName != "good.jpg" {
		t.Fatalf("expected only good.jpg committed, got %+v", outcome.Photos)
	}
	if len(outcome.Failed) != 1 || outcome.Failed[0].Filename != "broken.jpg" {
		t.Fatalf("expected broken.jpg reported failed, got %+v", outcome.Failed)
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.Photos) != 1 || got.Photos[0].OriginalName != "good.jpg" {
		t.Fatalf("record references a failed transfer: %+v", got.Photos)
	}
}

func TestUploadFiles_AllTransfersFailedNothingCommitted(t *testing.T) {
	repo := worklog.NewRepository(newTestDB(t))
	store := &flakyStore{MemoryStorage: storage.NewMemory(), failSubstring: "work-photos/"}
	svc := NewService(repo, store, DefaultPolicy())
	l := seedLog(t, repo, worklog.StatusDraft)
	ctx := context.Background()

	outcome, err := svc.UploadFiles(ctx, l.ID, leaderID, auth.RoleTeamLeader, []UploadedFile{jpeg("a.jpg")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(outcome.Failed) != 1 || len(outcome.Photos) != 0 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	got, _ := repo.GetByID(ctx, l.ID)
	if len(got.Photos) != 0 || got.Version != 1 {
		t.Fatalf("record mutated despite total transfer failure: %+v", got)
	}
}

func TestUploadFiles_CertificateReplacedWholesale(t *testing.T) {
	svc, repo, store := newTestService(t)
	l := seedLog(t, repo, worklog.StatusDraft)
	ctx := context.Background()

	first, err := svc.UploadFiles(ctx, l.ID, leaderID, auth.RoleTeamLeader, []UploadedFile{pdf("v1.pdf")})
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	oldKey := first.Certificate.StorageKey

	second, err := svc.UploadFiles(ctx, l.ID, leaderID, auth.RoleTeamLeader, []UploadedFile{pdf("v2.pdf")})
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	got, _ := repo.GetByID(ctx, l.ID)
	if got.Certificate == nil || got.Certificate.OriginalName != "v2.pdf" {
		t.Fatalf("certificate not replaced: %+v", got.Certificate)
	}
	if got.Certificate.ID != second.Certificate.ID {
		t.Fatalf("stored certificate does not match outcome")
	}
	if store.Has(oldKey) {
		t.Fatal("replaced certificate object was not cleaned up")
	}
	if !store.Has(got.Certificate.StorageKey) {
		t.Fatal("new certificate object missing from store")
	}
}

func TestDetachFile_RemovesPhotoPreservingOrder(t *testing.T) {
	svc, repo, store := newTestService(t)
	l := seedLog(t, repo, worklog.StatusDraft)
	ctx := context.Background()

	outcome, err := svc.UploadFiles(ctx, l.ID, leaderID, auth.RoleTeamLeader, []UploadedFile{
		jpeg("a.jpg"), jpeg("b.jpg"), jpeg("c.jpg"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	middle := outcome.Photos[1]
	if err := svc.DetachFile(ctx, l.ID, leaderID, auth.RoleTeamLeader, FieldWorkPhotos, middle.ID); err != nil {
		t.Fatalf("detach: %v", err)
	}

	got, _ := repo.GetByID(ctx, l.ID)
	if len(got.Photos) != 2 {
		t.Fatalf("expected 2 photos left, got %d", len(got.Photos))
	}
	if got.Photos[0].OriginalName != "a.jpg" || got.Photos[1].OriginalName != "c.jpg" {
		t.Fatalf("detach broke ordering: %+v", got.Photos)
	}
	if store.Has(middle.StorageKey) {
		t.Fatal("detached photo object still in store")
	}
}

func TestDetachFile_CertificateAndErrors(t *testing.T) {
	svc, repo, store := newTestService(t)
	l := seedLog(t, repo, worklog.StatusDraft)
	ctx := context.Background()

	outcome, err := svc.UploadFiles(ctx, l.ID, leaderID, auth.RoleTeamLeader, []UploadedFile{pdf("act.pdf")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	err = svc.DetachFile(ctx, l.ID, leaderID, auth.RoleTeamLeader, "attachments", "whatever")
	if !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("got %v, want ErrInvalidFileType", err)
	}

	err = svc.DetachFile(ctx, l.ID, leaderID, auth.RoleTeamLeader, FieldWorkPhotos, "no-such-id")
	if !errors.Is(err, worklog.ErrAttachmentNotFound) {
		t.Fatalf("got %v, want ErrAttachmentNotFound", err)
	}

	if err := svc.DetachFile(ctx, l.ID, leaderID, auth.RoleTeamLeader, FieldDeliveryCertificate, outcome.Certificate.ID); err != nil {
		t.Fatalf("detach certificate: %v", err)
	}
	got, _ := repo.GetByID(ctx, l.ID)
	if got.Certificate != nil {
		t.Fatalf("certificate still attached: %+v", got.Certificate)
	}
	if store.Has(outcome.Certificate.StorageKey) {
		t.Fatal("certificate object still in store")
	}

	err = svc.DetachFile(ctx, l.ID, leaderID, auth.RoleTeamLeader, FieldDeliveryCertificate, "anything")
	if !errors.Is(err, worklog.ErrAttachmentNotFound) {
		t.Fatalf("got %v, want ErrAttachmentNotFound for empty slot", err)
	}
}

func TestDetachFile_StorageDeleteFailureIsSwallowed(t *testing.T) {
	svc, repo, store := newTestService(t)
	l := seedLog(t, repo, worklog.StatusDraft)
	ctx := context.Background()

	outcome, err := svc.UploadFiles(ctx, l.ID, leaderID, auth.RoleTeamLeader, []UploadedFile{jpeg("a.jpg")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	key := outcome.Photos[0].StorageKey
	store.FailKeys[key] = true

	if err := svc.DetachFile(ctx, l.ID, leaderID, auth.RoleTeamLeader, FieldWorkPhotos, outcome.Photos[0].ID); err != nil {
		t.Fatalf("detach must succeed despite storage failure, got %v", err)
	}

	got, _ := repo.GetByID(ctx, l.ID)
	if len(got.Photos) != 0 {
		t.Fatalf("record still references the photo: %+v", got.Photos)
	}
	// The object leaks; the database reference does not.
	if !store.Has(key) {
		t.Fatal("object unexpectedly deleted by the failing store")
	}
}

func TestDetachFile_LegacyPhotoSkipsPhysicalDelete(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	now := time.Now()
	l := &worklog.WorkLog{
		ID:               uuid.New().String(),
		Date:             worklog.DateOnly(now),
		Project:          "Old Depot",
		StartTime:        now.Add(-4 * time.Hour),
		EndTime:          now,
		WorkDescription:  "Repainting",
		Status:           worklog.StatusDraft,
		TeamLeaderID:     leaderID,
		LegacyPhotoPaths: []string{"/uploads/2023/05/img001.jpg"},
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Photos) != 1 || got.Photos[0].URL != "/uploads/2023/05/img001.jpg" {
		t.Fatalf("legacy path not normalized: %+v", got.Photos)
	}
	if got.Photos[0].StorageKey != "" {
		t.Fatalf("legacy photo must not claim a bucket key: %+v", got.Photos[0])
	}

	if err := svc.DetachFile(ctx, l.ID, leaderID, auth.RoleTeamLeader, FieldWorkPhotos, got.Photos[0].ID); err != nil {
		t.Fatalf("detach legacy photo: %v", err)
	}
	after, _ := repo.GetByID(ctx, l.ID)
	if len(after.Photos) != 0 {
		t.Fatalf("legacy photo still present: %+v", after.Photos)
	}
	if store.Len() != 0 {
		t.Fatalf("store touched for a legacy entry: %d objects", store.Len())
	}
}
