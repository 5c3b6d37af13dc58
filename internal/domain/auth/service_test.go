package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the CGO-free "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

type staticIssuer struct{}

func (staticIssuer) GenerateToken(userID int64, role string) (string, error) {
	return fmt.Sprintf("token-%d-%s", userID, role), nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(NewRepository(db), staticIssuer{})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Lead@Example.COM ", "s3cret-pass", " Daniyar ", RoleTeamLeader)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "lead@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Name != "Daniyar" {
		t.Fatalf("name not trimmed: %q", user.Name)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Fatal("password stored in plain text")
	}

	result, err := svc.Login(ctx, "LEAD@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" || result.User.ID != user.ID {
		t.Fatalf("unexpected login result: %+v", result)
	}

	if _, err := svc.Login(ctx, "lead@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestRegister_DuplicateEmailAndRoles(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "lead@example.com", "s3cret-pass", "Daniyar", RoleTeamLeader); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "LEAD@example.com", "other-pass", "Imposter", RoleManager); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("got %v, want ErrEmailExists", err)
	}
	if _, err := svc.Register(ctx, "admin@example.com", "s3cret-pass", "Root", Role("admin")); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("got %v, want ErrInvalidRole", err)
	}
}
