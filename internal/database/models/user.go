package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account
type User struct {
	ID          uint      `gorm:"primarykey" json:"-"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Username    string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Password    string    `gorm:"not null" json:"-"`
	IsStaff     bool      `gorm:"not null" json:"-"`
	IsSuperuser bool      `gorm:"not null" json:"-"`
	IsActive    bool      `gorm:"not null" json:"-"`
	DateJoined  time.Time `gorm:"autoCreateTime;not null" json:"date_joined"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to generate the external identifier
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	return nil
}
