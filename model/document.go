package model

import (
	"time"

	"gorm.io/gorm"
)

// DocumentOwnerKind identifies which level of the hierarchy a document is
// attached to. It is resolved once when the document is created and never
// re-derived afterwards.
type DocumentOwnerKind string

const (
	DocumentOwnerUniversity DocumentOwnerKind = "university"
	DocumentOwnerProgram    DocumentOwnerKind = "program"
	DocumentOwnerModule     DocumentOwnerKind = "module"
)

// DocumentOwner is the resolved (kind, id) pair a document belongs to.
type DocumentOwner struct {
	Kind DocumentOwnerKind
	ID   uint
}

// Document represents an uploaded file attached to exactly one university,
// program, or module.
type Document struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	DeletedAt        gorm.DeletedAt    `gorm:"index" json:"-"`
	OwnerKind        DocumentOwnerKind `gorm:"type:varchar(20);not null;index:idx_documents_owner" json:"owner_kind"`
	OwnerID          uint              `gorm:"not null;index:idx_documents_owner" json:"owner_id"`
	Name             string            `gorm:"not null" json:"name"`
	Description      string            `gorm:"type:text" json:"description"`
	Filename         string            `gorm:"not null" json:"filename"`
	ContentType      string            `gorm:"type:varchar(100)" json:"content_type"`
	SpacesURL        string            `gorm:"not null" json:"spaces_url"`
	SpacesKey        string            `gorm:"not null" json:"-"`
	FileSize         int64             `gorm:"default:0" json:"file_size"`
	PageCount        int               `gorm:"default:0" json:"page_count"` // PDFs only
	UploadedByUserID uint              `gorm:"index" json:"uploaded_by_user_id"`

	// Relationships
	UploadedBy User `gorm:"foreignKey:UploadedByUserID;constraint:OnDelete:SET NULL" json:"uploaded_by,omitempty"`
}

// Owner returns the resolved owner of the document.
func (d *Document) Owner() DocumentOwner {
	return DocumentOwner{Kind: d.OwnerKind, ID: d.OwnerID}
}
