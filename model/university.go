package model

import (
	"time"

	"gorm.io/gorm"
)

// University is the root of the institutional hierarchy
type University struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null;uniqueIndex" json:"name"`
	Address      string         `gorm:"type:varchar(255)" json:"address"`
	City         string         `gorm:"type:varchar(100)" json:"city"`
	Country      string         `gorm:"type:varchar(100)" json:"country"`
	ContactEmail string         `gorm:"type:varchar(255)" json:"contact_email"`
	ContactPhone string         `gorm:"type:varchar(50)" json:"contact_phone"`
	Website      string         `gorm:"type:varchar(255)" json:"website"`
	LogoURL      string         `gorm:"type:text" json:"logo_url"`
	LogoKey      string         `gorm:"type:varchar(500)" json:"-"` // Spaces key, kept so the blob can be removed later
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Faculties []Faculty  `gorm:"foreignKey:UniversityID" json:"faculties,omitempty"`
	Posts     []Post     `gorm:"foreignKey:UniversityID" json:"posts,omitempty"`
	Buildings []Building `gorm:"foreignKey:UniversityID" json:"buildings,omitempty"`
	Employees []Employee `gorm:"foreignKey:UniversityID" json:"employees,omitempty"`
}

// Faculty belongs to exactly one University
type Faculty struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UniversityID uint           `gorm:"not null;index" json:"university_id"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`

	// Relationships
	University University `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	Programs   []Program  `gorm:"foreignKey:FacultyID" json:"programs,omitempty"`
}

// Program belongs to exactly one Faculty; its University is transitively the
// Faculty's University
type Program struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	FacultyID   uint           `gorm:"not null;index" json:"faculty_id"`
	Name        string         `gorm:"not null" json:"name"`
	Degree      string         `gorm:"type:varchar(50)" json:"degree"` // e.g., "BSc", "MSc"
	Description string         `gorm:"type:text" json:"description"`

	// Relationships
	Faculty Faculty  `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	Modules []Module `gorm:"foreignKey:ProgramID" json:"modules,omitempty"`
}

// Module belongs to exactly one Program
type Module struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	ProgramID   uint           `gorm:"not null;index" json:"program_id"`
	Name        string         `gorm:"not null" json:"name"`
	Credits     int            `gorm:"default:0" json:"credits"`
	Semester    int            `gorm:"default:1" json:"semester"`
	Description string         `gorm:"type:text" json:"description"`

	// Relationships
	Program Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}
