package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/quickkart/internal/logging"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "quickkart", "info")))

	var sawLogger bool
	e.GET("/ok", func(c echo.Context) error {
		sawLogger = logging.FromContext(c.Request().Context()) != nil
		return c.String(http.StatusOK, "fine")
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	tests := []struct {
		path   string
		status int
		level  string
	}{
		{"/ok", http.StatusOK, "INFO"},
		{"/missing", http.StatusNotFound, "WARN"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			buf.Reset()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set(echo.HeaderXRequestID, "rid-1")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, tc.level, line["level"])
			assert.EqualValues(t, tc.status, line["status"])
			assert.Equal(t, "rid-1", line["request_id"])
			assert.Equal(t, tc.path, line["path"])
		})
	}
	assert.True(t, sawLogger)
}
