package ds

import "time"

// 2. Таблица записей использования (потребление мест актива)
type UsageRecord struct {
	ID         uint      `gorm:"primaryKey"`
	AssetID    uint      `gorm:"not null;index"`
	UserID     *uint     `gorm:"default:null;index"` // пользователь или NULL если учёт по отделу
	Department string    `gorm:"type:varchar(100)"`
	Quantity   int       `gorm:"type:int;not null"` // сколько мест занято
	UsedAt     time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`

	Asset SoftwareAsset `gorm:"foreignKey:AssetID"`
	User  *User         `gorm:"foreignKey:UserID"`
}
