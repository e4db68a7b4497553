package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"samurai/internal/app/advisor"
	"samurai/internal/app/apperr"
	"samurai/internal/app/config"
	"samurai/internal/app/ds"
	"samurai/internal/app/dto"
	"samurai/internal/app/redis"
	"samurai/internal/app/repository"
	"samurai/internal/app/role"
	"samurai/internal/app/storage"
)

// APIHandler объединяет зависимости обработчиков REST API
type APIHandler struct {
	Repository  *repository.Repository
	Config      *config.Config
	RedisClient *redis.Client
	MinIOClient *storage.MinIOClient
	Advisor     advisor.Advisor
	AuthHandler *AuthHandler
}

func NewAPIHandler(repo *repository.Repository, cfg *config.Config, redisClient *redis.Client,
	minioClient *storage.MinIOClient, adv advisor.Advisor) *APIHandler {
	return &APIHandler{
		Repository:  repo,
		Config:      cfg,
		RedisClient: redisClient,
		MinIOClient: minioClient,
		Advisor:     adv,
		AuthHandler: NewAuthHandler(repo, cfg, redisClient),
	}
}

// errorResponse отправляет унифицированный ответ с ошибкой
func (h *APIHandler) errorResponse(ctx *gin.Context, statusCode int, message string) {
	ctx.JSON(statusCode, dto.ErrorResponse{
		Status:  "error",
		Message: message,
	})
}

// domainError сопоставляет ошибку предметной области с HTTP статусом
func (h *APIHandler) domainError(ctx *gin.Context, err error) {
	code := apperr.StatusCode(err)
	if code == http.StatusInternalServerError {
		logrus.Errorf("internal error: %v", err)
		h.errorResponse(ctx, code, "внутренняя ошибка сервера")
		return
	}
	h.errorResponse(ctx, code, err.Error())
}

// successResponse отправляет унифицированный успешный ответ
func (h *APIHandler) successResponse(ctx *gin.Context, statusCode int, message string, data interface{}) {
	ctx.JSON(statusCode, dto.SuccessResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// getUserID достает ID авторизованного пользователя из контекста
func (h *APIHandler) getUserID(ctx *gin.Context) (uint, error) {
	v, ok := ctx.Get("userID")
	if !ok {
		return 0, errors.New("отсутствует контекст пользователя")
	}
	id, ok := v.(uint)
	if !ok {
		return 0, errors.New("некорректный контекст пользователя")
	}
	return id, nil
}

// getUserRole достает роль авторизованного пользователя из контекста
func (h *APIHandler) getUserRole(ctx *gin.Context) role.Role {
	v, ok := ctx.Get("userRole")
	if !ok {
		return role.Standard
	}
	r, ok := v.(role.Role)
	if !ok {
		return role.Standard
	}
	return r
}

func assetToResponse(a *ds.SoftwareAsset) dto.AssetResponse {
	return dto.AssetResponse{
		ID:          a.ID,
		Name:        a.Name,
		Vendor:      a.Vendor,
		Description: a.Description,
		LicenseType: a.LicenseType,
		SeatCount:   a.SeatCount,
		CostPerSeat: a.CostPerSeat,
		TotalCost:   float64(a.SeatCount) * a.CostPerSeat,
		RenewalDate: a.RenewalDate,
		Status:      a.Status,
		Version:     a.Version,
	}
}

func usageToResponse(rec *ds.UsageRecord) dto.UsageRecordResponse {
	resp := dto.UsageRecordResponse{
		ID:         rec.ID,
		AssetID:    rec.AssetID,
		UserID:     rec.UserID,
		Department: rec.Department,
		Quantity:   rec.Quantity,
		UsedAt:     rec.UsedAt,
	}
	if rec.User != nil {
		resp.UserLogin = rec.User.Login
	}
	return resp
}

func userToResponse(u *ds.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Login:    u.Login,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     role.Role(u.Role).String(),
	}
}

// Ping godoc
// @Summary      Проверка работоспособности сервиса
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": fmt.Sprintf("SAMurAI API on %s:%d", h.Config.ServiceHost, h.Config.ServicePort),
	})
}
