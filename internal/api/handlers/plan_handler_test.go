package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andresuchdata/replenish-go/internal/api"
	"github.com/andresuchdata/replenish-go/internal/config"
	"github.com/andresuchdata/replenish-go/internal/report"
	"github.com/andresuchdata/replenish-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	planService := service.NewPlanService(config.PlanConfig{WindowDays: 30, OpenStatus: "open"}, nil)
	return api.NewRouter(&api.Services{PlanService: planService}, nil)
}

type uploadField struct {
	field    string
	filename string
	content  string
}

func multipartBody(t *testing.T, files []uploadField, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func recentDate(daysAgo int) string {
	return time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
}

func validSalesCSV() string {
	return fmt.Sprintf(
		"date,product_id,quantity,status\n%s,P1,20,\n%s,P1,40,Open\n",
		recentDate(10), recentDate(5),
	)
}

const validInventoryCSV = "product_id,current_stock,safety_stock,lead_time_days\nP1,100,10,5\n"

func TestComputePlan(t *testing.T) {
	router := newTestRouter()

	body, contentType := multipartBody(t, []uploadField{
		{"sales", "sales.csv", validSalesCSV()},
		{"inventory", "inventory.csv", validInventoryCSV},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rep report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "p1", rep.Rows[0].ProductID)
	assert.Equal(t, "2.00", rep.Rows[0].AverageDailyDemand)
	assert.Equal(t, 40.0, rep.Rows[0].OpenOrders)
	assert.Equal(t, 1, rep.Summary.TotalProducts)
	assert.Equal(t, 30, rep.Summary.WindowDays)
}

func TestComputePlanMissingInventory(t *testing.T) {
	router := newTestRouter()

	body, contentType := multipartBody(t, []uploadField{
		{"sales", "sales.csv", validSalesCSV()},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "inventory dataset is required")
}

func TestComputePlanSchemaError(t *testing.T) {
	router := newTestRouter()

	body, contentType := multipartBody(t, []uploadField{
		{"sales", "sales.csv", validSalesCSV()},
		{"inventory", "inventory.csv", "product_id,current_stock\nP1,100\n"},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid dataset schema")
	assert.Contains(t, rec.Body.String(), "safety_stock")
}

func TestComputePlanBadInventoryValue(t *testing.T) {
	router := newTestRouter()

	body, contentType := multipartBody(t, []uploadField{
		{"sales", "sales.csv", validSalesCSV()},
		{"inventory", "inventory.csv", "product_id,current_stock,safety_stock,lead_time_days\nP1,oops,10,5\n"},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid inventory data")
}

func TestComputePlanInvalidWindowDays(t *testing.T) {
	router := newTestRouter()

	for _, raw := range []string{"0", "-3", "abc"} {
		body, contentType := multipartBody(t, []uploadField{
			{"sales", "sales.csv", validSalesCSV()},
			{"inventory", "inventory.csv", validInventoryCSV},
		}, map[string]string{"window_days": raw})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "window_days=%s", raw)
		assert.Contains(t, rec.Body.String(), "window_days must be a positive integer")
	}
}

func TestComputePlanCustomWindow(t *testing.T) {
	router := newTestRouter()

	body, contentType := multipartBody(t, []uploadField{
		{"sales", "sales.csv", validSalesCSV()},
		{"inventory", "inventory.csv", validInventoryCSV},
	}, map[string]string{"window_days": "15"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rep report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, 15, rep.Summary.WindowDays)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "4.00", rep.Rows[0].AverageDailyDemand)
}

func TestGetDefaults(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plan/defaults", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		WindowDays int    `json:"window_days"`
		OpenStatus string `json:"open_status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 30, resp.WindowDays)
	assert.Equal(t, "open", resp.OpenStatus)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
