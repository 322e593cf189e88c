package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" gorm:"unique"`
	Password  string `json:"-"`
	Phone     string `json:"phone"`
	Verified  bool   `json:"verified"`
	Role      string `json:"role"` // "passenger", "driver", "admin"

	// Set when a passenger is upgraded to driver.
	LicenseNumber string `json:"license_number,omitempty"`

	Publications []Publication `gorm:"foreignKey:DriverID" json:"publications,omitempty"`
	Requests     []Request     `gorm:"foreignKey:PassengerID" json:"requests,omitempty"`
	Vehicles     []Vehicle     `gorm:"foreignKey:UserID" json:"vehicles,omitempty"`
}
