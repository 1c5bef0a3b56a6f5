package models

import "github.com/google/uuid"

// Grant is a confirmed read permission for a user on a file. Permission
// checks consult grants only, never invites. The owner never appears here.
type Grant struct {
	BaseModel
	FileID uuid.UUID `json:"fileID" gorm:"type:uuid;not null;index;uniqueIndex:idx_grant_file_user"`
	UserID uuid.UUID `json:"userID" gorm:"type:uuid;not null;index;uniqueIndex:idx_grant_file_user"`
}

// Invite is a pending e-mail invitation created by the share-by-email flow.
// It is display-only until the address maps to a registered account.
type Invite struct {
	BaseModel
	FileID uuid.UUID `json:"fileID" gorm:"type:uuid;not null;index;uniqueIndex:idx_invite_file_email"`
	Email  string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_invite_file_email"`
}
