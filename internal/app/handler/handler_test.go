package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	goredis "github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"samurai/internal/app/apperr"
	"samurai/internal/app/config"
	"samurai/internal/app/middleware"
	"samurai/internal/app/redis"
	"samurai/internal/app/report"
	"samurai/internal/app/repository"
	"samurai/internal/app/role"
)

// stubAdvisor подменяет внешний AI сервис в тестах
type stubAdvisor struct {
	answer string
	err    error
}

func (s *stubAdvisor) Recommend(ctx context.Context, summary report.Summary, question string) (string, error) {
	return s.answer, s.err
}

type testServer struct {
	router *gin.Engine
	repo   *repository.Repository
	redis  *redis.Client
	adv    *stubAdvisor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo, err := repository.NewWithDB(db)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient := redis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	cfg := &config.Config{
		ServiceHost: "localhost",
		ServicePort: 8080,
		JWT: config.JWTConfig{
			Token:         "test-secret",
			ExpiresIn:     time.Hour,
			SigningMethod: jwt.SigningMethodHS256,
		},
		Report: config.ReportConfig{
			ExpiryThresholdDays:  30,
			UnderutilizedPercent: 30,
		},
	}

	adv := &stubAdvisor{answer: "Сократите места Adobe"}

	h := NewAPIHandler(repo, cfg, redisClient, nil, adv)
	am := middleware.NewAuthMiddleware(redisClient, cfg)

	router := gin.New()
	h.RegisterRoutes(router, am)

	return &testServer{router: router, repo: repo, redis: redisClient, adv: adv}
}

// createUserToken создает пользователя и возвращает его токен через login
func (ts *testServer) createUserToken(t *testing.T, login string, userRole role.Role) string {
	t.Helper()

	_, err := ts.repo.CreateUser(login, generateHashString("Secret@123"), "", "", userRole)
	require.NoError(t, err)

	return ts.login(t, login, "Secret@123")
}

func (ts *testServer) login(t *testing.T, login, password string) string {
	t.Helper()

	w := ts.do(http.MethodPost, "/api/auth/login", "", gin.H{"login": login, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}

func (ts *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) createAsset(t *testing.T, token string, body gin.H) uint {
	t.Helper()

	w := ts.do(http.MethodPost, "/api/assets", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func sampleAssetBody() gin.H {
	return gin.H{
		"name":          "Office Suite",
		"vendor":        "Microsoft",
		"license_type":  "subscription",
		"seat_count":    10,
		"cost_per_seat": 1000,
		"renewal_date":  "2026-12-01",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"login":    "ivanov",
		"password": "Secret@123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// саморегистрация дает роль standard
	user, err := ts.repo.GetUserByLogin("ivanov")
	require.NoError(t, err)
	assert.Equal(t, int(role.Standard), user.Role)

	token := ts.login(t, "ivanov", "Secret@123")

	w = ts.do(http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ivanov")
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.createUserToken(t, "ivanov", role.Standard)

	w := ts.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"login":    "ivanov",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	ts := newTestServer(t)
	token := ts.createUserToken(t, "ivanov", role.Standard)

	w := ts.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// токен больше не принимается
	w = ts.do(http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAssetCRUDByAdmin(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)

	id := ts.createAsset(t, admin, sampleAssetBody())

	w := ts.do(http.MethodGet, fmt.Sprintf("/api/assets/%d", id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_cost":10000`)
	assert.Contains(t, w.Body.String(), `"version":1`)

	w = ts.do(http.MethodDelete, fmt.Sprintf("/api/assets/%d", id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// удалённый актив не виден в списке
	w = ts.do(http.MethodGet, "/api/assets", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestAssetWriteForbiddenForStandard(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)
	standard := ts.createUserToken(t, "ivanov", role.Standard)

	id := ts.createAsset(t, admin, sampleAssetBody())

	// чтение доступно
	w := ts.do(http.MethodGet, fmt.Sprintf("/api/assets/%d", id), standard, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// запись и удаление — нет
	w = ts.do(http.MethodPost, "/api/assets", standard, sampleAssetBody())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodDelete, fmt.Sprintf("/api/assets/%d", id), standard, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateAssetValidation(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)

	body := sampleAssetBody()
	body["seat_count"] = -5
	w := ts.do(http.MethodPost, "/api/assets", admin, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// подписка без даты продления
	body = sampleAssetBody()
	delete(body, "renewal_date")
	w = ts.do(http.MethodPost, "/api/assets", admin, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAssetVersionConflict(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)

	id := ts.createAsset(t, admin, sampleAssetBody())

	w := ts.do(http.MethodPut, fmt.Sprintf("/api/assets/%d", id), admin, gin.H{
		"version":    1,
		"seat_count": 15,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"version":2`)

	// повтор со старой версией
	w = ts.do(http.MethodPut, fmt.Sprintf("/api/assets/%d", id), admin, gin.H{
		"version":    1,
		"seat_count": 20,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUsageOwnership(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)
	first := ts.createUserToken(t, "ivanov", role.Standard)
	second := ts.createUserToken(t, "petrova", role.Standard)

	id := ts.createAsset(t, admin, sampleAssetBody())

	w := ts.do(http.MethodPost, "/api/usage", first, gin.H{
		"asset_id": id,
		"quantity": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rec struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))

	// чужую запись удалить нельзя
	w = ts.do(http.MethodDelete, fmt.Sprintf("/api/usage/%d", rec.ID), second, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// автор удаляет свою
	w = ts.do(http.MethodDelete, fmt.Sprintf("/api/usage/%d", rec.ID), first, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUsageForOtherUserForbidden(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)
	standard := ts.createUserToken(t, "ivanov", role.Standard)

	id := ts.createAsset(t, admin, sampleAssetBody())

	other := uint(999)
	w := ts.do(http.MethodPost, "/api/usage", standard, gin.H{
		"asset_id": id,
		"quantity": 1,
		"user_id":  other,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserManagementAdminOnly(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)
	standard := ts.createUserToken(t, "ivanov", role.Standard)

	w := ts.do(http.MethodGet, "/api/users", standard, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodGet, "/api/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"admin_count":1`)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)

	me, err := ts.repo.GetUserByLogin("admin")
	require.NoError(t, err)

	w := ts.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", me.ID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportSummary(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)

	id := ts.createAsset(t, admin, sampleAssetBody())
	w := ts.do(http.MethodPost, "/api/usage", admin, gin.H{
		"asset_id": id,
		"quantity": 7,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(http.MethodGet, "/api/reports/summary", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary report.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))

	assert.Equal(t, 1, summary.TotalAssets)
	assert.Equal(t, 10, summary.TotalSeats)
	assert.Equal(t, 7, summary.UsedSeats)
	// 7 занятых из 10 мест
	assert.InDelta(t, 0.7, summary.Utilization, 0.0001)
}

func TestReportExportInlineCSV(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)
	standard := ts.createUserToken(t, "ivanov", role.Standard)

	ts.createAsset(t, admin, sampleAssetBody())

	// экспорт доступен только администратору
	w := ts.do(http.MethodGet, "/api/reports/export", standard, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// без MinIO экспорт отдает CSV напрямую
	w = ts.do(http.MethodGet, "/api/reports/export", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "Software Name")
	assert.Contains(t, w.Body.String(), "Office Suite")
}

func TestRecommendations(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)

	w := ts.do(http.MethodPost, "/api/reports/recommendations", admin, gin.H{
		"question": "Как сократить расходы?",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Сократите места Adobe")
	assert.Contains(t, w.Body.String(), `"degraded":false`)
}

func TestRecommendationsDegraded(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUserToken(t, "admin", role.Admin)

	ts.adv.answer = ""
	ts.adv.err = fmt.Errorf("%w: таймаут", apperr.ErrExternalService)

	// недоступность внешнего сервиса не ломает отчёты
	w := ts.do(http.MethodPost, "/api/reports/recommendations", admin, gin.H{
		"question": "Как сократить расходы?",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded":true`)
}

func TestUnauthenticatedAccess(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/assets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
