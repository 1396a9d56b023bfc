// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserType distinguishes the three account kinds on the platform.
type UserType string

const (
	UserTypeSeller UserType = "seller"
	UserTypeBuyer  UserType = "buyer"
	UserTypeAdmin  UserType = "admin"
)

// VerificationStatus is the admin-controlled account verification state.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type User struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Email              string             `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash       string             `gorm:"size:255;not null" json:"-"`
	Name               string             `gorm:"size:100;not null" json:"name"`
	CompanyName        string             `gorm:"size:255" json:"companyName,omitempty"`
	Phone              string             `gorm:"size:20" json:"phone,omitempty"`
	UserType           UserType           `gorm:"size:20;not null;index" json:"userType"`
	VerificationStatus VerificationStatus `gorm:"size:20;default:'pending'" json:"verificationStatus"`
	IsActive           bool               `gorm:"default:true" json:"isActive"`
	LastLogin          *time.Time         `json:"lastLogin,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
