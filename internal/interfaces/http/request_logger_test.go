package http_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/rfid-access-api/internal/interfaces/http"
	"github.com/jhoicas/rfid-access-api/pkg/logger"
)

// decodeLines una entrada JSON por línea.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestLogger_IncluyeSubject(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	app.Get("/privado", func(c *fiber.Ctx) error {
		c.Locals(apphttp.LocalSubject, "admin")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/publico", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/privado", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/publico", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "admin", lines[0]["subject"])
	assert.Equal(t, "/privado", lines[0]["path"])
	assert.EqualValues(t, fiber.StatusNoContent, lines[0]["status"])
	_, ok := lines[1]["subject"]
	assert.False(t, ok, "sin subject en rutas públicas")
}
