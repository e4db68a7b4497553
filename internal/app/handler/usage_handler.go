package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"samurai/internal/app/apperr"
	"samurai/internal/app/ds"
	"samurai/internal/app/dto"
	"samurai/internal/app/role"
)

// Обработчики записей использования

// GetAssetUsage godoc
// @Summary      История использования актива
// @Description  Возвращает записи потребления мест по активу, включая логически удалённые активы
// @Tags         usage
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID актива"
// @Param        date_from query string false "Начало окна (ГГГГ-ММ-ДД)"
// @Param        date_to query string false "Конец окна (ГГГГ-ММ-ДД)"
// @Success      200 {object} dto.UsageListResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/assets/{id}/usage [get]
func (h *APIHandler) GetAssetUsage(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, "некорректный ID актива")
		return
	}

	from, err := parseDateParam(ctx.Query("date_from"))
	if err != nil {
		h.domainError(ctx, err)
		return
	}
	to, err := parseDateParam(ctx.Query("date_to"))
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	records, err := h.Repository.GetUsageByAsset(uint(id), from, to)
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	resp := dto.UsageListResponse{
		Records: make([]dto.UsageRecordResponse, 0, len(records)),
		Total:   len(records),
	}
	for i := range records {
		resp.Records = append(resp.Records, usageToResponse(&records[i]))
	}

	ctx.JSON(http.StatusOK, resp)
}

// CreateUsageRecord godoc
// @Summary      Создание записи использования
// @Description  Обычный пользователь пишет только за себя, администратор может указать
// @Description  любого пользователя или отдел. Превышение числа мест не блокируется
// @Tags         usage
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateUsageRequest true "Запись использования"
// @Success      201 {object} dto.UsageRecordResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/usage [post]
func (h *APIHandler) CreateUsageRecord(ctx *gin.Context) {
	var req dto.CreateUsageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	callerID, err := h.getUserID(ctx)
	if err != nil {
		h.errorResponse(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	rec := ds.UsageRecord{
		AssetID:  req.AssetID,
		Quantity: req.Quantity,
	}

	if h.getUserRole(ctx) == role.Admin {
		// Администратор пишет за любого пользователя или за отдел
		rec.UserID = req.UserID
		rec.Department = req.Department
		if rec.UserID == nil && rec.Department == "" {
			rec.UserID = &callerID
		}
	} else {
		// Обычный пользователь пишет только за себя
		if req.UserID != nil && *req.UserID != callerID {
			h.domainError(ctx, fmt.Errorf("%w: запись за другого пользователя", apperr.ErrPermission))
			return
		}
		rec.UserID = &callerID
		rec.Department = req.Department
	}

	if req.UsedAt != "" {
		usedAt, err := parseDateParam(req.UsedAt)
		if err != nil {
			h.domainError(ctx, err)
			return
		}
		rec.UsedAt = *usedAt
	} else {
		rec.UsedAt = time.Now()
	}

	if err := h.Repository.CreateUsageRecord(&rec); err != nil {
		h.domainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, usageToResponse(&rec))
}

// DeleteUsageRecord godoc
// @Summary      Удаление записи использования
// @Description  Запись удаляет её автор или администратор. Удаление физическое
// @Tags         usage
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID записи"
// @Success      200 {object} dto.SuccessResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/usage/{id} [delete]
func (h *APIHandler) DeleteUsageRecord(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, "некорректный ID записи")
		return
	}

	rec, err := h.Repository.GetUsageRecordByID(uint(id))
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	callerID, err := h.getUserID(ctx)
	if err != nil {
		h.errorResponse(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	if h.getUserRole(ctx) != role.Admin {
		if rec.UserID == nil || *rec.UserID != callerID {
			h.domainError(ctx, fmt.Errorf("%w: чужая запись использования", apperr.ErrPermission))
			return
		}
	}

	if err := h.Repository.DeleteUsageRecord(uint(id)); err != nil {
		h.domainError(ctx, err)
		return
	}

	h.successResponse(ctx, http.StatusOK, "запись удалена", nil)
}
