package model

import (
	"time"
)

// FriendshipStatus is the state of a directed friendship edge
type FriendshipStatus string

const (
	FriendshipStatusRequested FriendshipStatus = "REQUESTED"
	FriendshipStatusAccepted  FriendshipStatus = "ACCEPTED"
	// FriendshipStatusDeclined is never persisted: a declined request is
	// deleted and the status only appears in the response.
	FriendshipStatusDeclined FriendshipStatus = "DECLINED"
)

// Friendship is a directed edge from UserID to FriendID. A pending request is
// a single REQUESTED row; an accepted friendship is a mirrored pair of
// ACCEPTED rows (A→B and B→A). Rows are hard-deleted on decline/unfriend so
// the unique index never blocks a later re-request.
type Friendship struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	UserID    uint             `gorm:"not null;index;uniqueIndex:idx_friendships_edge" json:"user_id"`
	FriendID  uint             `gorm:"not null;index;uniqueIndex:idx_friendships_edge" json:"friend_id"`
	Status    FriendshipStatus `gorm:"type:varchar(20);not null" json:"status"`

	// Relationships
	User   User `gorm:"foreignKey:UserID" json:"-"`
	Friend User `gorm:"foreignKey:FriendID" json:"friend,omitempty"`
}

// FriendResponse is the API shape of a friend or requester identity
type FriendResponse struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Since     time.Time `json:"since"`
}
