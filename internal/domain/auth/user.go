package auth

import "time"

type Role string

const (
	RoleTeamLeader Role = "team_leader"
	RoleManager    Role = "manager"
)

// User is an account that can sign in: a team leader who writes daily
// logs for their own crew, or a manager who reviews and approves them.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex" json:"email" validate:"required,email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Name         string    `gorm:"column:name" json:"name"`
	Role         Role      `gorm:"column:role" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (r Role) Valid() bool {
	return r == RoleTeamLeader || r == RoleManager
}
