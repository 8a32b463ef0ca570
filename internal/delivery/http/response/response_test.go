package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lion-connect-backend/internal/delivery/http/response"
	"lion-connect-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success echoes the request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set(string(domain.KeyRequestID), "req-7")

		response.Success(c, http.StatusCreated, "Created", gin.H{"id": 1})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"success":true,"message":"Created","data":{"id":1},"request_id":"req-7"}`, w.Body.String())
	})

	t.Run("error without request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		response.Error(c, http.StatusNotFound, "Not found", gin.H{"kind": "not_found"})

		assert.JSONEq(t, `{"success":false,"message":"Not found","error":{"kind":"not_found"}}`, w.Body.String())
	})
}
