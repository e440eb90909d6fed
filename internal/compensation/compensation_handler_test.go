package compensation_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/compensation"
	compensationerrors "go-payroll/internal/compensation/errors"
	compensationMock "go-payroll/internal/compensation/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_CreateEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := compensationMock.NewMockService(ctrl)
	handler := compensation.NewHandler(mockService)

	employeeID := uuid.NewString()
	componentID := uuid.NewString()
	body := `{"employee_id":"` + employeeID + `","component_id":"` + componentID + `","amount":"75","effective_from":"2026-01-01"}`

	t.Run("Success", func(t *testing.T) {
		mockService.EXPECT().
			CreateEntry(gomock.Any(), "actor-1", gomock.Any()).
			DoAndReturn(func(_ any, _ string, req compensation.CreateEntryRequest) (compensation.EntryResponse, error) {
				assert.Equal(t, employeeID, req.EmployeeID)
				assert.Equal(t, "75", req.Amount.String())
				return compensation.EntryResponse{ID: uuid.NewString(), EmployeeID: employeeID}, nil
			})

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.Use(func(c *gin.Context) {
			c.Set("user_id", "actor-1")
			c.Next()
		})
		r.POST("/compensation-entries", handler.CreateEntry)

		req, _ := http.NewRequest(http.MethodPost, "/compensation-entries", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Overlap", func(t *testing.T) {
		mockService.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(compensation.EntryResponse{}, compensationerrors.ErrOverlappingEntry)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/compensation-entries", handler.CreateEntry)

		req, _ := http.NewRequest(http.MethodPost, "/compensation-entries", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		var res map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &res)
		assert.Equal(t, false, res["ok"])
		assert.Equal(t, "OVERLAPPING_ENTRY", res["error"].(map[string]interface{})["code"])
	})

	t.Run("Missing effective_from", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/compensation-entries", handler.CreateEntry)

		req, _ := http.NewRequest(http.MethodPost, "/compensation-entries",
			strings.NewReader(`{"employee_id":"`+employeeID+`","component_id":"`+componentID+`"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_GetEmployeeCompensation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := compensationMock.NewMockService(ctrl)
	handler := compensation.NewHandler(mockService)
	employeeID := uuid.NewString()

	mockService.EXPECT().
		ListEntries(gomock.Any(), employeeID, compensation.ListEntriesRequest{AsOf: "2026-03-01"}).
		Return([]compensation.EntryResponse{{ID: "e1"}, {ID: "e2"}}, nil)

	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.GET("/employees/:employee_id/compensation", handler.GetEmployeeCompensation)

	req, _ := http.NewRequest(http.MethodGet, "/employees/"+employeeID+"/compensation?as_of=2026-03-01", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Ok   bool                         `json:"ok"`
		Data []compensation.EntryResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Data, 2)
}
