package models

import (
	"time"

	"gorm.io/gorm"
)

// Publication is a driver's posted ride offer. Status is true while the
// publication accepts new requests; it flips to false when the last seat is
// taken or the driver closes/cancels it.
type Publication struct {
	gorm.Model
	DriverID       uint      `json:"driver_id" gorm:"index;not null"`
	Driver         User      `gorm:"foreignKey:DriverID" json:"-"`
	Origin         string    `json:"origin" binding:"required"`
	Destination    string    `json:"destination" binding:"required"`
	AvailableSeats int       `json:"available_seats"`
	Cost           int       `json:"cost"`
	Status         bool      `json:"status"`
	DepartureDate  time.Time `json:"departure_date"`

	Requests []Request `gorm:"foreignKey:PublicationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"requests,omitempty"`
	Trips    []Trip    `gorm:"foreignKey:PublicationID" json:"trips,omitempty"`
}
