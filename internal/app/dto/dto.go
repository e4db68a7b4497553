package dto

import "time"

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Программные активы (Software Assets) ============

type AssetResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Vendor      string     `json:"vendor"`
	Description string     `json:"description"`
	LicenseType string     `json:"license_type"` // perpetual, subscription, trial
	SeatCount   int        `json:"seat_count"`
	CostPerSeat float64    `json:"cost_per_seat"`
	TotalCost   float64    `json:"total_cost"`
	RenewalDate *time.Time `json:"renewal_date,omitempty"`
	Status      string     `json:"status"`
	Version     uint       `json:"version"`
}

type AssetListResponse struct {
	Assets []AssetResponse `json:"assets"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Pages  int             `json:"pages"`
}

type CreateAssetRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Vendor      string  `json:"vendor" binding:"required,max=100"`
	Description string  `json:"description"`
	LicenseType string  `json:"license_type" binding:"required,oneof=perpetual subscription trial"`
	SeatCount   int     `json:"seat_count" binding:"gte=0"`
	CostPerSeat float64 `json:"cost_per_seat" binding:"gte=0"`
	RenewalDate string  `json:"renewal_date"` // формат 2006-01-02, обязательна для subscription
}

type UpdateAssetRequest struct {
	Version     uint     `json:"version" binding:"required,gte=1"` // версия, прочитанная клиентом
	Name        string   `json:"name"`
	Vendor      string   `json:"vendor"`
	Description *string  `json:"description"`
	LicenseType string   `json:"license_type" binding:"omitempty,oneof=perpetual subscription trial"`
	SeatCount   *int     `json:"seat_count" binding:"omitempty,gte=0"`
	CostPerSeat *float64 `json:"cost_per_seat" binding:"omitempty,gte=0"`
	RenewalDate string   `json:"renewal_date"`
	Status      string   `json:"status" binding:"omitempty,oneof=active expired retired"`
}

// ============ Записи использования (Usage Records) ============

type UsageRecordResponse struct {
	ID         uint      `json:"id"`
	AssetID    uint      `json:"asset_id"`
	UserID     *uint     `json:"user_id,omitempty"`
	UserLogin  string    `json:"user_login,omitempty"`
	Department string    `json:"department,omitempty"`
	Quantity   int       `json:"quantity"`
	UsedAt     time.Time `json:"used_at"`
}

type UsageListResponse struct {
	Records []UsageRecordResponse `json:"records"`
	Total   int                   `json:"total"`
}

type CreateUsageRequest struct {
	AssetID    uint   `json:"asset_id" binding:"required"`
	UserID     *uint  `json:"user_id"` // только для администратора, обычный пользователь пишет за себя
	Department string `json:"department"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	UsedAt     string `json:"used_at"` // формат 2006-01-02, по умолчанию сегодня
}

// ============ Пользователи (Users) ============

type UserResponse struct {
	ID       uint   `json:"id"`
	Login    string `json:"login"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // admin | standard
}

type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Total      int64          `json:"total"`
	AdminCount int64          `json:"admin_count"`
}

type RegisterRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"omitempty,email"`
	FullName string `json:"full_name"`
}

type CreateUserRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"omitempty,email"`
	FullName string `json:"full_name"`
	Role     string `json:"role" binding:"omitempty,oneof=admin standard"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	FullName string `json:"full_name"`
	Password string `json:"password" binding:"omitempty,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin standard"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ============ Отчёты (Reports) ============

type RecommendationRequest struct {
	Question string `json:"question" binding:"required"`
}

type RecommendationResponse struct {
	Recommendation string `json:"recommendation"`
	Degraded       bool   `json:"degraded"` // true если внешний сервис был недоступен
}

type ExportResponse struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}
