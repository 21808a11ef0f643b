package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the persisted identity record. VerificationToken and
// VerificationExpiry are always set or cleared together; a verified user
// never carries a token.
type User struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Email              string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name               string     `gorm:"size:255" json:"name"`
	PasswordHash       string     `gorm:"size:255;not null" json:"-"`
	Role               string     `gorm:"size:32;not null;default:user" json:"role"`
	IsVerified         bool       `gorm:"not null;default:false" json:"is_verified"`
	VerificationToken  *string    `gorm:"size:128;index" json:"-"`
	VerificationExpiry *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// UserView is the sanitized projection returned at the API boundary. It
// structurally excludes the password hash and verification token.
type UserView struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
}

func NewUserView(u *User) UserView {
	return UserView{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
}
