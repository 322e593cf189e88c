package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a post-trip rating left by one participant about another.
// UserID is the reviewed person; ReviewerID is the author. Ratings aggregate
// per reviewed user (see averageRatingForUser).
type Review struct {
	gorm.Model
	ReviewerID uint      `json:"reviewer_id" gorm:"index;not null"`
	Reviewer   User      `gorm:"foreignKey:ReviewerID" json:"-"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	TripID     uint      `json:"trip_id" gorm:"index;not null"`
	Trip       Trip      `gorm:"foreignKey:TripID" json:"-"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate time.Time `json:"review_date"`
}
