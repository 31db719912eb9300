package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/uom/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unitPayload struct {
	Code     string `json:"code" binding:"required,unitcode"`
	Name     string `json:"name" binding:"required,max=10"`
	Decimals int    `json:"decimals" binding:"min=0,max=12"`
}

func TestValidationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	r := gin.New()
	r.POST("/units", func(c *gin.Context) {
		var p unitPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			HandleValidationError(c, "req-1", err)
			return
		}
		c.String(http.StatusOK, "ok")
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantFields map[string]string
	}{
		{
			name:       "valid",
			body:       `{"code":"kg","name":"Kilogram","decimals":3}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing fields",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantFields: map[string]string{"code": "This field is required", "name": "This field is required"},
		},
		{
			name:       "bad unit code and long name",
			body:       `{"code":"   ","name":"Much too long a name"}`,
			wantStatus: http.StatusBadRequest,
			wantFields: map[string]string{"code": "Invalid unit code", "name": "Must be at most 10 characters"},
		},
		{
			name:       "decimals out of range",
			body:       `{"code":"kg","name":"Kilogram","decimals":13}`,
			wantStatus: http.StatusBadRequest,
			wantFields: map[string]string{"decimals": "Must be at most 12"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/units", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantFields == nil {
				return
			}

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)

			got := make(map[string]string, len(resp.Error.Details))
			for _, d := range resp.Error.Details {
				got[d.Field] = d.Message
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}
