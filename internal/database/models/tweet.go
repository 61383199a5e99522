package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxTweetLength is the upper bound on tweet text, in characters
const MaxTweetLength = 250

// Tweet is a short text post owned by exactly one user
type Tweet struct {
	ID          uint      `gorm:"primarykey" json:"-"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Text        string    `gorm:"size:250;not null" json:"text"`
	Likes       int64     `gorm:"not null;default:0;check:chk_tweets_likes_non_negative,likes >= 0;index:idx_tweets_recent,priority:2,sort:desc" json:"likes"`
	Edited      bool      `gorm:"not null;default:false" json:"edited"`
	DateCreated time.Time `gorm:"autoCreateTime;not null;index:idx_tweets_recent,priority:1,sort:desc;index:idx_tweets_author_created,priority:2" json:"date_created"`
	AuthorID    uint      `gorm:"not null;index:idx_tweets_author_created,priority:1" json:"-"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
}

// TableName overrides the table name
func (Tweet) TableName() string {
	return "tweets"
}

// BeforeCreate hook to generate the external identifier
func (t *Tweet) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	return nil
}
