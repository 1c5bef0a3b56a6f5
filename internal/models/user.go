package models

type User struct {
	BaseModel
	Email        string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string `json:"name,omitempty" gorm:"type:varchar(255)"`
	PasswordHash string `json:"-" gorm:"type:text;not null"`
}

// DisplayName is what share notifications show for the sharer.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
