package handler

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"

	"samurai/internal/app/config"
	"samurai/internal/app/ds"
	"samurai/internal/app/dto"
	"samurai/internal/app/redis"
	"samurai/internal/app/repository"
	"samurai/internal/app/role"
)

// AuthHandler — регистрация, вход, выход и профиль пользователя
type AuthHandler struct {
	Repository  *repository.Repository
	Config      *config.Config
	RedisClient *redis.Client
}

func NewAuthHandler(repo *repository.Repository, cfg *config.Config, redisClient *redis.Client) *AuthHandler {
	return &AuthHandler{
		Repository:  repo,
		Config:      cfg,
		RedisClient: redisClient,
	}
}

func generateHashString(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func (ah *AuthHandler) generateToken(user *ds.User) (string, error) {
	now := time.Now()
	claims := &ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ah.Config.JWT.ExpiresIn).Unix(),
			Issuer:    "samurai-backend",
		},
		UserID: user.ID,
		Role:   role.Role(user.Role),
	}

	token := jwt.NewWithClaims(ah.Config.JWT.SigningMethod, claims)
	return token.SignedString([]byte(ah.Config.JWT.Token))
}

// Register godoc
// @Summary      Регистрация нового пользователя
// @Description  Создает пользователя с ролью standard. Роль admin назначается только администратором
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "Данные регистрации"
// @Success      201 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/auth/register [post]
func (ah *AuthHandler) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	// Саморегистрация всегда дает роль standard
	user, err := ah.Repository.CreateUser(req.Login, generateHashString(req.Password),
		req.Email, req.FullName, role.Standard)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	logrus.Infof("user %s registered", user.Login)

	ctx.JSON(http.StatusCreated, dto.SuccessResponse{
		Status:  "success",
		Message: "пользователь зарегистрирован",
		Data:    userToResponse(user),
	})
}

// Login godoc
// @Summary      Вход пользователя
// @Description  Проверяет логин и пароль, возвращает JWT токен
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Данные для входа"
// @Success      200 {object} dto.SuccessResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /api/auth/login [post]
func (ah *AuthHandler) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	user, err := ah.Repository.GetUserByLogin(req.Login)
	if err != nil || user.Password != generateHashString(req.Password) {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Status: "error", Message: "неверный логин или пароль"})
		return
	}

	tokenString, err := ah.generateToken(user)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Status: "error", Message: "не удалось создать токен"})
		return
	}

	if err := ah.Repository.UpdateLastLogin(user.ID); err != nil {
		logrus.Warnf("failed to update last login for %s: %v", user.Login, err)
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Status: "success",
		Data: gin.H{
			"access_token": tokenString,
			"token_type":   "Bearer",
			"expires_in":   int(ah.Config.JWT.ExpiresIn.Seconds()),
			"user":         userToResponse(user),
		},
	})
}

// Logout godoc
// @Summary      Выход пользователя
// @Description  Добавляет текущий JWT токен в blacklist до истечения его срока
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SuccessResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (ah *AuthHandler) Logout(ctx *gin.Context) {
	jwtStr := ctx.GetHeader("Authorization")
	if jwtStr == "" {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Status: "error", Message: "токен не передан"})
		return
	}
	jwtStr = strings.TrimPrefix(jwtStr, "Bearer ")

	err := ah.RedisClient.WriteJWTToBlacklist(ctx.Request.Context(), jwtStr, ah.Config.JWT.ExpiresIn)
	if err != nil {
		logrus.Errorf("failed to blacklist token: %v", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Status: "error", Message: "не удалось завершить сессию"})
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Status:  "success",
		Message: "сессия завершена",
	})
}

// GetProfile godoc
// @Summary      Профиль текущего пользователя
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SuccessResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /api/auth/profile [get]
func (ah *AuthHandler) GetProfile(ctx *gin.Context) {
	userID, ok := ctx.Get("userID")
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Status: "error", Message: "пользователь не авторизован"})
		return
	}

	user, err := ah.Repository.GetUserByID(userID.(uint))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Status: "success",
		Data:   userToResponse(user),
	})
}

// UpdateProfile godoc
// @Summary      Обновление профиля текущего пользователя
// @Description  Меняет email, имя и пароль. Роль через профиль менять нельзя
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateUserRequest true "Новые данные профиля"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/auth/profile [put]
func (ah *AuthHandler) UpdateProfile(ctx *gin.Context) {
	userID, ok := ctx.Get("userID")
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Status: "error", Message: "пользователь не авторизован"})
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	// Смена собственной роли через профиль запрещена
	if req.Role != "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Message: "роль меняет только администратор"})
		return
	}

	var email, fullName, password *string
	if req.Email != "" {
		email = &req.Email
	}
	if req.FullName != "" {
		fullName = &req.FullName
	}
	if req.Password != "" {
		hashed := generateHashString(req.Password)
		password = &hashed
	}

	if err := ah.Repository.UpdateUser(userID.(uint), email, fullName, password, nil); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	user, err := ah.Repository.GetUserByID(userID.(uint))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Status:  "success",
		Message: "профиль обновлён",
		Data:    userToResponse(user),
	})
}
