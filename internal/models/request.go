package models

import (
	"time"

	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// Request is a passenger's bid to join a publication. A passenger can hold at
// most one request per publication, whatever its status.
type Request struct {
	gorm.Model
	PublicationID   uint          `json:"publication_id" gorm:"not null;uniqueIndex:idx_requests_publication_passenger"`
	Publication     Publication   `gorm:"foreignKey:PublicationID" json:"-"`
	PassengerID     uint          `json:"passenger_id" gorm:"not null;uniqueIndex:idx_requests_publication_passenger"`
	Passenger       User          `gorm:"foreignKey:PassengerID" json:"-"`
	ReservationDate time.Time     `json:"reservation_date"`
	Status          RequestStatus `json:"status" gorm:"not null;default:'pending'"`
}
