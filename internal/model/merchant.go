package model

import (
	"time"
)

const (
	MerchantStatusActive   = "active"
	MerchantStatusInactive = "inactive"
)

// Merchant represents the merchant model stored in the database.
// Timestamps are stamped by the service, not by gorm.
type Merchant struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:varchar(20)"`
	Name               string     `json:"name" gorm:"type:varchar(100);not null"`
	Email              string     `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Phone              string     `json:"phone" gorm:"type:varchar(20)"`
	BusinessName       string     `json:"businessName" gorm:"type:varchar(150)"`
	RegistrationNumber string     `json:"registrationNumber" gorm:"type:varchar(50)"`
	Address            string     `json:"address" gorm:"type:text"`
	City               string     `json:"city" gorm:"type:varchar(100)"`
	Country            string     `json:"country" gorm:"type:varchar(100)"`
	Status             string     `json:"status" gorm:"type:varchar(20);index;not null"`
	CreatedAt          *time.Time `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt          *time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

func (Merchant) TableName() string {
	return "merchants"
}
