package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents a registered user in the system. Students additionally own
// devices and participate in friendship edges.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	FirstName    string         `gorm:"not null" json:"first_name"`
	LastName     string         `gorm:"not null" json:"last_name"`
	Role         string         `gorm:"type:varchar(20);default:'student'" json:"role"` // student, admin
	GoogleID     *string        `gorm:"uniqueIndex" json:"-"`                           // set for accounts created via Google sign-in
	TokenVersion int            `gorm:"default:0" json:"-"`                             // Increment to invalidate all user tokens

	// Relationships
	Devices        []Device            `gorm:"foreignKey:UserID" json:"devices,omitempty"`
	Friendships    []Friendship        `gorm:"foreignKey:UserID" json:"-"`
	Notifications  []UserNotification  `gorm:"foreignKey:UserID" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsStudent reports whether the user participates in the student-exchange
// features (friendships, devices).
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// FullName returns "FirstName LastName" as used in push notification bodies
// and friend-list name filtering.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Device is a push-notification target registered by a student. Devices are
// hard-deleted so a re-registered token does not collide with a soft-deleted
// row on the unique index.
type Device struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_devices_user_token" json:"user_id"`
	Token     string    `gorm:"not null;type:varchar(255);uniqueIndex:idx_devices_user_token" json:"token"`
	Platform  string    `gorm:"type:varchar(20)" json:"platform"` // android, ios, web

	User User `gorm:"foreignKey:UserID" json:"-"`
}
