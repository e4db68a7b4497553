package ds

import "time"

// Типы лицензий
const (
	LicensePerpetual    = "perpetual"
	LicenseSubscription = "subscription"
	LicenseTrial        = "trial"
)

// Статусы актива
const (
	StatusActive  = "active"
	StatusExpired = "expired"
	StatusRetired = "retired" // логически удалён
)

// 1. Таблица программных активов (лицензии ПО)
type SoftwareAsset struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"type:varchar(100);not null"`
	Vendor      string     `gorm:"type:varchar(100);not null"`
	Description string     `gorm:"type:text"`
	LicenseType string     `gorm:"type:varchar(20);not null"`          // perpetual, subscription, trial
	SeatCount   int        `gorm:"type:int;not null"`                  // количество мест по лицензии
	CostPerSeat float64    `gorm:"type:decimal(12,2);not null"`        // стоимость одного места за период
	RenewalDate *time.Time `gorm:"default:null"`                       // обязательна для subscription
	Status      string     `gorm:"type:varchar(20);not null;default:'active'"` // active, expired, retired
	Version     uint       `gorm:"not null;default:1"`                 // счётчик версий для оптимистичной блокировки
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}
