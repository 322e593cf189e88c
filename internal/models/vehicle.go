package models

import "gorm.io/gorm"

type Vehicle struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"index;not null"` // owning driver
	Brand        string `json:"brand"`
	VehicleModel string `json:"model" gorm:"column:model"`
	LicensePlate string `json:"license_plate"`
}
