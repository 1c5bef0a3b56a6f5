package models

import (
	"time"

	"github.com/google/uuid"
)

// FileType is the four-way content classification assigned once at upload.
type FileType string

const (
	FileTypeDocs   FileType = "docs"
	FileTypeSheets FileType = "sheets"
	FileTypeMedia  FileType = "media"
	FileTypeOther  FileType = "other"
)

func (t FileType) Valid() bool {
	switch t {
	case FileTypeDocs, FileTypeSheets, FileTypeMedia, FileTypeOther:
		return true
	default:
		return false
	}
}

type File struct {
	BaseModel
	Name              string     `json:"name" gorm:"type:varchar(255);not null"`
	MimeType          string     `json:"mimeType" gorm:"type:varchar(255);not null"`
	Size              int64      `json:"size" gorm:"not null;default:0"`
	Type              FileType   `json:"type" gorm:"type:varchar(10);not null;default:'other';index"`
	OwnerID           uuid.UUID  `json:"creatorID" gorm:"type:uuid;not null;index"`
	StoragePath       string     `json:"-" gorm:"type:text;not null"`
	FileURL           string     `json:"fileURL" gorm:"type:text;not null"`
	PreviewPath       *string    `json:"-" gorm:"type:text"`
	PreviewURL        *string    `json:"previewURL,omitempty" gorm:"type:text"`
	ScheduledDeleteAt *time.Time `json:"scheduledDeleteDate,omitempty" gorm:"index"`

	Owner   *User    `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	Grants  []Grant  `json:"grants,omitempty" gorm:"foreignKey:FileID"`
	Invites []Invite `json:"invites,omitempty" gorm:"foreignKey:FileID"`
}
