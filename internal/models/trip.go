package models

import (
	"time"

	"gorm.io/gorm"
)

type TripStatus string

const (
	TripStatusPending    TripStatus = "pending"
	TripStatusInProgress TripStatus = "in progress"
	TripStatusCompleted  TripStatus = "completed"
)

// Trip is one participant's record of a publication: one row for the driver,
// one per accepted passenger. Lifecycle is strictly
// pending -> in progress -> completed.
type Trip struct {
	gorm.Model
	PublicationID     uint        `json:"publication_id" gorm:"not null;uniqueIndex:idx_trips_publication_user"`
	Publication       Publication `gorm:"foreignKey:PublicationID" json:"-"`
	UserID            uint        `json:"user_id" gorm:"not null;uniqueIndex:idx_trips_publication_user"`
	User              User        `gorm:"foreignKey:UserID" json:"-"`
	Status            TripStatus  `json:"status" gorm:"not null;default:'pending'"`
	DepartureDateTime *time.Time  `json:"departure_date_time"`
	ArrivalDateTime   *time.Time  `json:"arrival_date_time"`
}
