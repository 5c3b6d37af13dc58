package main

import (
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"worklog/internal/database"
	"worklog/internal/domain/auth"
	"worklog/internal/domain/notification"
	"worklog/internal/domain/worklog"

	"github.com/google/uuid"
)

// Seeds a local database with two team leaders, one manager and a few
// example logs. Intended for development only.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "worklog.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db,
		&auth.User{},
		&worklog.WorkLog{},
		&notification.Notification{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM work_logs")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	managerHash, _ := bcrypt.GenerateFromPassword([]byte("manager123"), bcrypt.DefaultCost)
	manager := auth.User{
		Email:        "manager@example.com",
		PasswordHash: string(managerHash),
		Role:         auth.RoleManager,
		Name:         "Site Manager",
	}
	db.Create(&manager)
	log.Println("Manager created: manager@example.com / manager123")

	leaders := []auth.User{}
	for _, name := range []string{"Avi", "Dana"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("leader123"), bcrypt.DefaultCost)
		u := auth.User{
			Email:        strings.ToLower(name) + "@example.com",
			PasswordHash: string(hash),
			Role:         auth.RoleTeamLeader,
			Name:         name,
		}
		db.Create(&u)
		leaders = append(leaders, u)
		log.Printf("Team leader created: %s / leader123", u.Email)
	}

	log.Println("Creating logs...")

	projects := []string{"Site 7", "North Tower", "Warehouse B"}
	for i, leader := range leaders {
		for j, project := range projects {
			date := worklog.DateOnly(time.Now().AddDate(0, 0, -(i*3 + j)))
			start := date.Add(7 * time.Hour)
			end := date.Add(16 * time.Hour)

			l := worklog.WorkLog{
				ID:              uuid.New().String(),
				Date:            date,
				Project:         project,
				Employees:       []string{"Yossi", "Omar", "Natan"},
				StartTime:       start,
				EndTime:         end,
				WorkDescription: "Concrete pouring and formwork on level " + project,
				Status:          worklog.StatusDraft,
				TeamLeaderID:    leader.ID,
				Photos:          []worklog.Photo{},
				Version:         1,
			}
			if j == 0 {
				l.Status = worklog.StatusSubmitted
			}
			db.Create(&l)
		}
	}

	log.Println("Seed completed")
}
