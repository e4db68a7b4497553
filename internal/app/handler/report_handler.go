package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"samurai/internal/app/dto"
	"samurai/internal/app/report"
	"samurai/internal/app/repository"
)

// Обработчики отчётов и рекомендаций

func (h *APIHandler) buildSummary(ctx *gin.Context) (report.Summary, error) {
	filter := repository.ReportFilter{
		Vendor: ctx.Query("vendor"),
		Status: ctx.Query("status"),
	}

	var err error
	if filter.From, err = parseDateParam(ctx.Query("date_from")); err != nil {
		return report.Summary{}, err
	}
	if filter.To, err = parseDateParam(ctx.Query("date_to")); err != nil {
		return report.Summary{}, err
	}

	data, err := h.Repository.GetAssetUsageData(filter)
	if err != nil {
		return report.Summary{}, err
	}

	opts := report.Options{
		Now:                  time.Now(),
		ExpiryThresholdDays:  h.Config.Report.ExpiryThresholdDays,
		UnderutilizedPercent: h.Config.Report.UnderutilizedPercent,
	}
	if v := ctx.Query("threshold"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			opts.ExpiryThresholdDays = days
		}
	}

	return report.BuildSummary(data, opts), nil
}

// GetReportSummary godoc
// @Summary      Сводный отчёт по инвентарю
// @Description  Агрегаты по активам: использование, сроки продления, стоимость,
// @Description  недоиспользуемые лицензии и возможная экономия
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        date_from query string false "Начало окна потребления (ГГГГ-ММ-ДД)"
// @Param        date_to query string false "Конец окна потребления (ГГГГ-ММ-ДД)"
// @Param        vendor query string false "Фильтр по вендору"
// @Param        status query string false "Фильтр по статусу"
// @Param        threshold query int false "Окно 'скоро истекает' в днях"
// @Success      200 {object} report.Summary
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *APIHandler) GetReportSummary(ctx *gin.Context) {
	summary, err := h.buildSummary(ctx)
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// ExportReport godoc
// @Summary      Экспорт отчёта в CSV
// @Description  Выгружает отчёт в MinIO и возвращает временную ссылку.
// @Description  Если хранилище не настроено, CSV отдается прямо в ответе
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        date_from query string false "Начало окна потребления (ГГГГ-ММ-ДД)"
// @Param        date_to query string false "Конец окна потребления (ГГГГ-ММ-ДД)"
// @Param        vendor query string false "Фильтр по вендору"
// @Success      200 {object} dto.ExportResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/reports/export [get]
func (h *APIHandler) ExportReport(ctx *gin.Context) {
	summary, err := h.buildSummary(ctx)
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, summary.Assets); err != nil {
		h.domainError(ctx, err)
		return
	}

	// Без MinIO отдаем файл напрямую
	if h.MinIOClient == nil {
		ctx.Header("Content-Disposition", `attachment; filename="software_assets_report.csv"`)
		ctx.Data(http.StatusOK, "text/csv", buf.Bytes())
		return
	}

	fileName, err := h.MinIOClient.UploadReport(buf.Bytes())
	if err != nil {
		logrus.Errorf("failed to upload report: %v", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "не удалось выгрузить отчёт")
		return
	}

	url, err := h.MinIOClient.GetFileURL(fileName)
	if err != nil {
		logrus.Errorf("failed to presign report url: %v", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "не удалось получить ссылку на отчёт")
		return
	}

	ctx.JSON(http.StatusOK, dto.ExportResponse{
		FileName: fileName,
		URL:      url,
	})
}

// GetRecommendations godoc
// @Summary      AI рекомендации по инвентарю
// @Description  Передает сводный отчёт и вопрос во внешний сервис. При недоступности
// @Description  сервиса возвращается 200 с degraded=true и пустой рекомендацией
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RecommendationRequest true "Вопрос пользователя"
// @Success      200 {object} dto.RecommendationResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/reports/recommendations [post]
func (h *APIHandler) GetRecommendations(ctx *gin.Context) {
	var req dto.RecommendationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.buildSummary(ctx)
	if err != nil {
		h.domainError(ctx, err)
		return
	}

	answer, err := h.Advisor.Recommend(ctx.Request.Context(), summary, req.Question)
	if err != nil {
		// Деградация: отчёты работают и без внешнего сервиса
		logrus.Warnf("advisor unavailable: %v", err)
		ctx.JSON(http.StatusOK, dto.RecommendationResponse{Degraded: true})
		return
	}

	ctx.JSON(http.StatusOK, dto.RecommendationResponse{Recommendation: answer})
}
