package ds

import "time"

// 3. Таблица пользователей
type User struct {
	ID        uint       `gorm:"primaryKey"`
	Login     string     `gorm:"type:varchar(50);unique;not null"`
	Password  string     `gorm:"type:varchar(255);not null"`
	Email     string     `gorm:"type:varchar(100)"`
	FullName  string     `gorm:"type:varchar(100)"`
	Role      int        `gorm:"type:int;not null;default:0"` // 0 - standard, 1 - admin
	CreatedAt time.Time  `gorm:"not null"`
	LastLogin *time.Time `gorm:"default:null"`
}
