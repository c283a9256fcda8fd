package model

import (
	"time"

	"gorm.io/gorm"
)

// Post is an announcement published by a university
type Post struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UniversityID uint           `gorm:"not null;index" json:"university_id"`
	Title        string         `gorm:"not null" json:"title"`
	Content      string         `gorm:"type:text" json:"content"`

	University University `gorm:"foreignKey:UniversityID" json:"-"`
}

// Building is a physical campus building of a university
type Building struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UniversityID uint           `gorm:"not null;index" json:"university_id"`
	Name         string         `gorm:"not null" json:"name"`
	Address      string         `gorm:"type:varchar(255)" json:"address"`

	University University `gorm:"foreignKey:UniversityID" json:"-"`
}

// Employee is a staff member of a university
type Employee struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UniversityID uint           `gorm:"not null;index" json:"university_id"`
	FirstName    string         `gorm:"not null" json:"first_name"`
	LastName     string         `gorm:"not null" json:"last_name"`
	Email        string         `gorm:"type:varchar(255)" json:"email"`
	Position     string         `gorm:"type:varchar(100)" json:"position"`

	University University `gorm:"foreignKey:UniversityID" json:"-"`
}
