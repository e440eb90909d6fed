package payslip_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/payslip"
	paysliperrors "go-payroll/internal/payslip/errors"
	payslipMock "go-payroll/internal/payslip/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var res map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := payslipMock.NewMockService(ctrl)
	handler := payslip.NewHandler(mockService)

	employeeID := uuid.NewString()
	actorID := uuid.NewString()
	body := `{"employee_id":"` + employeeID + `","period_start":"2026-01-01","period_end":"2026-01-31","submit":true}`

	newRouter := func(w *httptest.ResponseRecorder) *gin.Engine {
		_, r := gin.CreateTestContext(w)
		r.Use(func(c *gin.Context) {
			c.Set("user_id", actorID)
			c.Next()
		})
		r.POST("/payslips", handler.Create)
		return r
	}

	t.Run("Success", func(t *testing.T) {
		mockService.EXPECT().
			Generate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
				assert.Equal(t, employeeID, req.EmployeeID.String())
				assert.Equal(t, "2026-01-31", req.PeriodEnd.Format("2006-01-02"))
				assert.True(t, req.Submit)
				if assert.NotNil(t, req.ActorID) {
					assert.Equal(t, actorID, req.ActorID.String())
				}
				return payslip.PayslipResponse{ID: uuid.NewString(), PayslipNumber: "PS-202601-000001"}, nil
			})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/payslips", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		newRouter(w).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		res := decodeEnvelope(t, w)
		assert.Equal(t, "PS-202601-000001", res["data"].(map[string]interface{})["payslip_number"])
	})

	t.Run("Duplicate", func(t *testing.T) {
		mockService.EXPECT().
			Generate(gomock.Any(), gomock.Any()).
			Return(payslip.PayslipResponse{}, paysliperrors.ErrDuplicatePayslip)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/payslips", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		newRouter(w).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		res := decodeEnvelope(t, w)
		assert.Equal(t, false, res["ok"])
		assert.Equal(t, "DUPLICATE_PAYSLIP", res["error"].(map[string]interface{})["code"])
	})

	t.Run("Inverted period", func(t *testing.T) {
		inverted := `{"employee_id":"` + employeeID + `","period_start":"2026-02-01","period_end":"2026-01-31"}`

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/payslips", strings.NewReader(inverted))
		req.Header.Set("Content-Type", "application/json")
		newRouter(w).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing employee", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/payslips", strings.NewReader(`{"period_start":"2026-01-01","period_end":"2026-01-31"}`))
		req.Header.Set("Content-Type", "application/json")
		newRouter(w).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := payslipMock.NewMockService(ctrl)
	handler := payslip.NewHandler(mockService)

	employeeID := uuid.NewString()
	mockService.EXPECT().
		ListByEmployee(gomock.Any(), payslip.ListPayslipsRequest{EmployeeID: employeeID, FromYear: 2025, ToYear: 2026, Page: 2, PageSize: 20}).
		Return([]payslip.PayslipResponse{{ID: uuid.NewString()}}, int64(21), nil)

	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.GET("/payslips", handler.GetAll)

	req, _ := http.NewRequest(http.MethodGet, "/payslips?employee_id="+employeeID+"&from_year=2025&to_year=2026&page=2", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	meta := decodeEnvelope(t, w)["meta"].(map[string]interface{})
	assert.Equal(t, float64(21), meta["total"])
	assert.Equal(t, float64(2), meta["totalPages"])
}

func TestHandler_MarkPaid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := payslipMock.NewMockService(ctrl)
	handler := payslip.NewHandler(mockService)
	id := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		mockService.EXPECT().
			MarkPaid(gomock.Any(), id, gomock.Any(), "TRX-77").
			Return(payslip.PayslipResponse{ID: id, Status: payslip.StatusPaid}, nil)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/payslips/:id/mark-paid", handler.MarkPaid)

		req, _ := http.NewRequest(http.MethodPost, "/payslips/"+id+"/mark-paid", strings.NewReader(`{"payment_reference":"TRX-77"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid transition", func(t *testing.T) {
		mockService.EXPECT().
			MarkPaid(gomock.Any(), id, gomock.Any(), "TRX-77").
			Return(payslip.PayslipResponse{}, paysliperrors.ErrInvalidStatusTransition)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/payslips/:id/mark-paid", handler.MarkPaid)

		req, _ := http.NewRequest(http.MethodPost, "/payslips/"+id+"/mark-paid", strings.NewReader(`{"payment_reference":"TRX-77"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_STATE", decodeEnvelope(t, w)["error"].(map[string]interface{})["code"])
	})

	t.Run("Missing reference", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/payslips/:id/mark-paid", handler.MarkPaid)

		req, _ := http.NewRequest(http.MethodPost, "/payslips/"+id+"/mark-paid", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_GetDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := payslipMock.NewMockService(ctrl)
	handler := payslip.NewHandler(mockService)
	id := uuid.NewString()

	t.Run("Redirects to document", func(t *testing.T) {
		url := "https://files.example.test/PS-202601-000001.pdf"
		mockService.EXPECT().GetByID(gomock.Any(), id).Return(payslip.PayslipResponse{ID: id, DocumentURL: &url}, nil)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.GET("/payslips/:id/document", handler.GetDocument)

		req, _ := http.NewRequest(http.MethodGet, "/payslips/"+id+"/document", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, url, w.Header().Get("Location"))
	})

	t.Run("Not rendered yet", func(t *testing.T) {
		mockService.EXPECT().GetByID(gomock.Any(), id).Return(payslip.PayslipResponse{ID: id}, nil)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.GET("/payslips/:id/document", handler.GetDocument)

		req, _ := http.NewRequest(http.MethodGet, "/payslips/"+id+"/document", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
