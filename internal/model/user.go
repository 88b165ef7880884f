package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// User is the only entity of the service. Credential fields are hidden from
// default reads and never serialized to clients.
type User struct {
	ID           string    `json:"id" bson:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" bson:"username" gorm:"size:255;not null"`
	Slug         string    `json:"slug" bson:"slug" gorm:"size:255;index"`
	Email        string    `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" bson:"password_hash,omitempty" gorm:"size:255;not null"`
	OTPHash      string    `json:"-" bson:"otp_hash,omitempty" gorm:"size:255"`
	IsVerified   bool      `json:"-" bson:"is_verified" gorm:"default:false"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// HiddenFields lists the storage names of fields left out of default reads.
var HiddenFields = []string{"password_hash", "otp_hash", "is_verified"}

// AssignID sets a fresh identifier unless one is already present.
func (u *User) AssignID() {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
}

// Normalize trims user-supplied text and refreshes the username slug.
func (u *User) Normalize() {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	u.Slug = slug.Make(u.Username)
}

// Public returns a copy without credential fields, suitable for responses and caching.
func (u *User) Public() *User {
	return &User{
		ID:        u.ID,
		Username:  u.Username,
		Slug:      u.Slug,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// BeforeCreate sets the identifier before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.AssignID()
	return nil
}

// BeforeSave keeps derived fields in sync on every write.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Normalize()
	return nil
}
