package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"samurai/internal/app/apperr"
	"samurai/internal/app/ds"
	"samurai/internal/app/dto"
	"samurai/internal/app/repository"
)

// Обработчики программных активов

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("%w: некорректная дата %q, ожидается ГГГГ-ММ-ДД", apperr.ErrValidation, value)
	}
	return &t, nil
}

// GetAssets godoc
// @Summary      Список программных активов
// @Description  Возвращает страницу активов с фильтрами. Логически удалённые активы не включаются
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        vendor query string false "Фильтр по вендору"
// @Param        status query string false "Фильтр по статусу (active, expired, retired)"
// @Param        query query string false "Поиск по названию и вендору"
// @Param        renewal_from query string false "Продление не раньше (ГГГГ-ММ-ДД)"
// @Param        renewal_to query string false "Продление не позже (ГГГГ-ММ-ДД)"
// @Param        page query int false "Номер страницы"
// @Param        per_page query int false "Размер страницы"
// @Success      200 {object} dto.AssetListResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/assets [get]
func (h *APIHandler) GetAssets(ctx *gin.Context) {
	filter := repository.AssetFilter{
		Vendor: ctx.Query("vendor"),
		Status: ctx.Query("status"),
		Query:  ctx.Query("query"),
	}

	var err error
	if filter.RenewalFrom, err = parseDateParam(ctx.Query("renewal_from")); err != nil {
		h.domainError(ctx, err)
		return
	}
	if filter.RenewalTo, err = parseDateParam(ctx.Query("renewal_to")); err != nil {
		h.domainError(ctx, err)
		return
	}

	filter.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(ctx.DefaultQuery("per_page", "20"))

	assets, total, err := h.Repository.ListAssets(filter)
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	resp := dto.AssetListResponse{
		Assets: make([]dto.AssetResponse, 0, len(assets)),
		Total:  total,
		Page:   filter.Page,
	}
	if filter.PerPage > 0 {
		resp.Pages = int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))
	}
	for i := range assets {
		resp.Assets = append(resp.Assets, assetToResponse(&assets[i]))
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetAsset godoc
// @Summary      Программный актив по ID
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID актива"
// @Success      200 {object} dto.AssetResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/assets/{id} [get]
func (h *APIHandler) GetAsset(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, "некорректный ID актива")
		return
	}

	asset, err := h.Repository.GetAssetByID(uint(id))
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, assetToResponse(asset))
}

// CreateAsset godoc
// @Summary      Создание программного актива
// @Description  Доступно только администратору. Пара (название, вендор) уникальна среди неудалённых
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateAssetRequest true "Новый актив"
// @Success      201 {object} dto.AssetResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Router       /api/assets [post]
func (h *APIHandler) CreateAsset(ctx *gin.Context) {
	var req dto.CreateAssetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	renewalDate, err := parseDateParam(req.RenewalDate)
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	asset := ds.SoftwareAsset{
		Name:        req.Name,
		Vendor:      req.Vendor,
		Description: req.Description,
		LicenseType: req.LicenseType,
		SeatCount:   req.SeatCount,
		CostPerSeat: req.CostPerSeat,
		RenewalDate: renewalDate,
	}

	if err := h.Repository.CreateAsset(&asset); err != nil {
		h.domainError(ctx, err)
		return
	}

	logrus.Infof("asset %q (%s) created, id=%d", asset.Name, asset.Vendor, asset.ID)

	ctx.JSON(http.StatusCreated, assetToResponse(&asset))
}

// UpdateAsset godoc
// @Summary      Обновление программного актива
// @Description  Доступно только администратору. Клиент передает прочитанную версию записи,
// @Description  при устаревшей версии возвращается 409
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID актива"
// @Param        request body dto.UpdateAssetRequest true "Изменения актива"
// @Success      200 {object} dto.AssetResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /api/assets/{id} [put]
func (h *APIHandler) UpdateAsset(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, "некорректный ID актива")
		return
	}

	var req dto.UpdateAssetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	asset, err := h.Repository.GetAssetByID(uint(id))
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	// Частичное обновление поверх текущего состояния
	if req.Name != "" {
		asset.Name = req.Name
	}
	if req.Vendor != "" {
		asset.Vendor = req.Vendor
	}
	if req.Description != nil {
		asset.Description = *req.Description
	}
	if req.LicenseType != "" {
		asset.LicenseType = req.LicenseType
	}
	if req.SeatCount != nil {
		asset.SeatCount = *req.SeatCount
	}
	if req.CostPerSeat != nil {
		asset.CostPerSeat = *req.CostPerSeat
	}
	if req.RenewalDate != "" {
		renewalDate, err := parseDateParam(req.RenewalDate)
		if err != nil {
			h.domainError(ctx, err)
			return
		}
		asset.RenewalDate = renewalDate
	}
	if req.Status != "" {
		asset.Status = req.Status
	}

	if err := h.Repository.UpdateAsset(asset, req.Version); err != nil {
		h.domainError(ctx, err)
		return
	}

	updated, err := h.Repository.GetAssetByID(uint(id))
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, assetToResponse(updated))
}

// DeleteAsset godoc
// @Summary      Логическое удаление программного актива
// @Description  Доступно только администратору. Актив получает статус retired,
// @Description  история использования сохраняется
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID актива"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/assets/{id} [delete]
func (h *APIHandler) DeleteAsset(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, "некорректный ID актива")
		return
	}

	if err := h.Repository.DeleteAsset(uint(id)); err != nil {
		h.domainError(ctx, err)
		return
	}

	logrus.Infof("asset %d retired", id)

	h.successResponse(ctx, http.StatusOK, "актив удалён", nil)
}
