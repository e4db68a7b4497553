package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"samurai/internal/app/dto"
	"samurai/internal/app/role"
)

// Административные обработчики пользователей

// GetUsers godoc
// @Summary      Список пользователей
// @Description  Доступно только администратору
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.UserListResponse
// @Failure      403 {object} dto.ErrorResponse
// @Router       /api/users [get]
func (h *APIHandler) GetUsers(ctx *gin.Context) {
	users, admins, err := h.Repository.ListUsers()
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	resp := dto.UserListResponse{
		Users:      make([]dto.UserResponse, 0, len(users)),
		Total:      int64(len(users)),
		AdminCount: admins,
	}
	for i := range users {
		resp.Users = append(resp.Users, userToResponse(&users[i]))
	}

	ctx.JSON(http.StatusOK, resp)
}

// CreateUser godoc
// @Summary      Создание пользователя администратором
// @Description  В отличие от регистрации позволяет назначить роль admin
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateUserRequest true "Новый пользователь"
// @Success      201 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/users [post]
func (h *APIHandler) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Repository.CreateUser(req.Login, generateHashString(req.Password),
		req.Email, req.FullName, role.FromString(req.Role))
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	logrus.Infof("user %s created with role %s", user.Login, role.Role(user.Role))

	ctx.JSON(http.StatusCreated, dto.SuccessResponse{
		Status:  "success",
		Message: "пользователь создан",
		Data:    userToResponse(user),
	})
}

// UpdateUser godoc
// @Summary      Обновление пользователя администратором
// @Description  Меняет профиль и роль. Администратор не может менять собственную роль,
// @Description  последний администратор не может потерять роль
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID пользователя"
// @Param        request body dto.UpdateUserRequest true "Изменения"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/users/{id} [put]
func (h *APIHandler) UpdateUser(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, "некорректный ID пользователя")
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	callerID, _ := h.getUserID(ctx)
	if req.Role != "" && callerID == uint(id) {
		h.errorResponse(ctx, http.StatusBadRequest, "нельзя менять собственную роль")
		return
	}

	var email, fullName, password *string
	var newRole *role.Role
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
	if req.Role != "" {
		r := role.FromString(req.Role)
		newRole = &r
	}

	if err := h.Repository.UpdateUser(uint(id), email, fullName, password, newRole); err != nil {
		h.domainError(ctx, err)
		return
	}

	user, err := h.Repository.GetUserByID(uint(id))
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	h.successResponse(ctx, http.StatusOK, "пользователь обновлён", userToResponse(user))
}

// DeleteUser godoc
// @Summary      Удаление пользователя администратором
// @Description  Администратор не может удалить сам себя, последний администратор защищён
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID пользователя"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *APIHandler) DeleteUser(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, "некорректный ID пользователя")
		return
	}

	callerID, _ := h.getUserID(ctx)
	if callerID == uint(id) {
		h.errorResponse(ctx, http.StatusBadRequest, "нельзя удалить собственную учётную запись")
		return
	}

	if err := h.Repository.DeleteUser(uint(id)); err != nil {
		h.domainError(ctx, err)
		return
	}

	logrus.Infof("user %d deleted", id)

	h.successResponse(ctx, http.StatusOK, "пользователь удалён", nil)
}
