package loan_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/loan"
	loanerrors "go-payroll/internal/loan/errors"
	loanMock "go-payroll/internal/loan/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := loanMock.NewMockService(ctrl)
	handler := loan.NewHandler(mockService)

	employeeID := uuid.NewString()
	body := `{"employee_id":"` + employeeID + `","type":"loan","amount":"1200","installment_count":12,"start_date":"2026-02-01"}`

	t.Run("Success", func(t *testing.T) {
		mockService.EXPECT().
			Create(gomock.Any(), "actor-1", gomock.Any()).
			DoAndReturn(func(_ any, _ string, req loan.CreateLoanRequest) (loan.LoanResponse, error) {
				assert.Equal(t, employeeID, req.EmployeeID)
				assert.Equal(t, 12, req.InstallmentCount)
				assert.Equal(t, "1200", req.Amount.String())
				return loan.LoanResponse{ID: uuid.NewString(), Status: "pending"}, nil
			})

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.Use(func(c *gin.Context) {
			c.Set("user_id", "actor-1")
			c.Next()
		})
		r.POST("/loans", handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/loans", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Unknown type", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/loans", handler.Create)

		bad := strings.Replace(body, `"loan"`, `"mortgage"`, 1)
		req, _ := http.NewRequest(http.MethodPost, "/loans", strings.NewReader(bad))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Approve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := loanMock.NewMockService(ctrl)
	handler := loan.NewHandler(mockService)
	id := uuid.NewString()

	t.Run("Already decided", func(t *testing.T) {
		mockService.EXPECT().
			Approve(gomock.Any(), id, gomock.Any()).
			Return(loan.LoanResponse{}, loanerrors.ErrInvalidStatusTransition)

		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/loans/:id/approve", handler.Approve)

		req, _ := http.NewRequest(http.MethodPost, "/loans/"+id+"/approve", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var res map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &res)
		assert.Equal(t, "INVALID_STATE", res["error"].(map[string]interface{})["code"])
	})
}
