package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/rfid-access-api/internal/application/audit"
	"github.com/jhoicas/rfid-access-api/internal/application/auth"
	"github.com/jhoicas/rfid-access-api/internal/application/badge"
	"github.com/jhoicas/rfid-access-api/internal/application/dto"
	"github.com/jhoicas/rfid-access-api/internal/application/scan"
	"github.com/jhoicas/rfid-access-api/internal/domain/access"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/infrastructure/memory"
	"github.com/jhoicas/rfid-access-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/rfid-access-api/internal/interfaces/http"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "rfid-access-api-test"
	testAdmin     = "admin"
	testPassword  = "s3cr3t-pass"
)

var (
	testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	siteTZ  = time.FixedZone("CET", 3600)
)

func newAuthUseCase(t *testing.T) *auth.UseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	uc, err := auth.NewUseCase(
		auth.AdminConfig{Username: testAdmin, PasswordHash: string(hash)},
		auth.JWTConfig{Secret: testJWTSecret, TTL: 4 * time.Hour, Issuer: testIssuer},
	)
	require.NoError(t, err)
	return uc.WithClock(func() time.Time { return testNow })
}

func issueToken(t *testing.T, uc *auth.UseCase) string {
	t.Helper()
	tok, err := uc.Authenticate(testAdmin, testPassword)
	require.NoError(t, err, "debe generarse un token válido")
	return tok.AccessToken
}

// testEnv API completa sobre los adaptadores en memoria.
type testEnv struct {
	app      *fiber.App
	scanUC   *scan.UseCase
	recorder *audit.Recorder
	token    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	badgeRepo := memory.NewBadgeRepository(store)
	logRepo := memory.NewAccessLogRepository(store)

	recorder := audit.NewRecorder(logRepo, siteTZ, 64, nil)
	recorder.Start()
	t.Cleanup(func() { _ = recorder.Close(context.Background()) })

	badgeUC := badge.NewUseCase(memory.NewTxRunner(store), badgeRepo)
	policy, err := access.NewPolicy(access.DefaultWindows(), access.FullDay)
	require.NoError(t, err)
	scanUC := scan.NewUseCase(badgeUC, policy, siteTZ, recorder, nil).
		WithClock(func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, siteTZ) })
	authUC := newAuthUseCase(t)

	app := apphttp.NewApp("rfid-access-api-test")
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:  authUC,
		BadgeUC: badgeUC,
		ScanUC:  scanUC,
		LogSvc:  audit.NewLogService(logRepo),
		Report:  audit.NewReportUseCase(logRepo, pdf.NewAccessReportGenerator(), "rfid-access-api-test", siteTZ),
		Auditor: recorder,
		Service: "rfid-access-api-test",
	})
	return &testEnv{app: app, scanUC: scanUC, recorder: recorder, token: issueToken(t, authUC)}
}

// do lanza una petición autenticada con cuerpo JSON (body puede ser nil).
func (e *testEnv) do(t *testing.T, method, target string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+e.token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func (e *testEnv) register(t *testing.T, identifier, name string, role interface{}) {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/badge", map[string]interface{}{"identifier": identifier, "name": name, "role": role})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas públicas
// ──────────────────────────────────────────────────────────────────────────────

func TestHomeYHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("sin conexión") }

func TestHealth_BDCaida(t *testing.T) {
	app := fiber.New()
	app.Get("/health", apphttp.Health("svc", failingPinger{}))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func postForm(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestToken_Formulario(t *testing.T) {
	env := newTestEnv(t)

	resp := postForm(t, env.app, url.Values{"username": {testAdmin}, "password": {testPassword}})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tok dto.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
	assert.Equal(t, "bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	resp = postForm(t, env.app, url.Values{"username": {testAdmin}, "password": {"mala"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, resp))
	resp.Body.Close()

	resp = postForm(t, env.app, url.Values{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestToken_JSON(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/token",
		strings.NewReader(`{"username":"admin","password":"s3cr3t-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de badges
// ──────────────────────────────────────────────────────────────────────────────

func TestRutasProtegidas_SinToken(t *testing.T) {
	env := newTestEnv(t)
	routes := []struct{ method, path string }{
		{http.MethodPost, "/badge"},
		{http.MethodGet, "/badge/abc"},
		{http.MethodPut, "/badge/abc"},
		{http.MethodDelete, "/badge/abc"},
		{http.MethodGet, "/badges"},
		{http.MethodGet, "/scan/abc"},
		{http.MethodGet, "/logs"},
	}
	for _, r := range routes {
		resp, err := env.app.Test(httptest.NewRequest(r.method, r.path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, r.method+" "+r.path)
	}
}

func TestBadge_CicloCompleto(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/badge", map[string]interface{}{"identifier": "ABC 123", "name": "Alice", "role": "2"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decode[dto.BadgeResponse](t, body)
	assert.Equal(t, "abc123", created.Identifier)
	assert.Equal(t, "Badge registrado", created.Message)
	assert.False(t, created.CreatedAt.IsZero())

	resp, body = env.do(t, http.MethodPost, "/badge", map[string]interface{}{"identifier": "abc123", "name": "Bob", "role": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_IDENTIFIER", decode[dto.ErrorResponse](t, body).Code)

	resp, body = env.do(t, http.MethodGet, "/badge/ABC%20123", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice", decode[dto.BadgeResponse](t, body).Name)

	resp, body = env.do(t, http.MethodPut, "/badge/abc123", map[string]interface{}{"name": "Alice B.", "role": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated := decode[dto.BadgeResponse](t, body)
	assert.Equal(t, "Alice B.", updated.Name)
	assert.Equal(t, "1", updated.Role)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	resp, body = env.do(t, http.MethodDelete, "/badge/abc123", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc123", decode[dto.DeleteBadgeResponse](t, body).Identifier)

	resp, body = env.do(t, http.MethodDelete, "/badge/abc123", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)

	resp, _ = env.do(t, http.MethodGet, "/badge/abc123", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBadge_Validaciones(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/badge", map[string]interface{}{"identifier": "x", "name": "X", "role": "9"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, body).Code)

	resp, body = env.do(t, http.MethodPost, "/badge", map[string]interface{}{"identifier": "   ", "name": "X", "role": "2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, body).Code)

	resp, body = env.do(t, http.MethodPut, "/badge/nope", map[string]interface{}{"name": "X", "role": "2"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)

	req := httptest.NewRequest(http.MethodPost, "/badge", strings.NewReader(`{"identifier":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.token)
	r, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, r))
}

func TestBadge_Listado(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a1", "A", "2")
	env.register(t, "b2", "B", "1")

	resp, body := env.do(t, http.MethodGet, "/badges?limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.BadgeListResponse](t, body)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 2, list.Page.Total)
	assert.Equal(t, 1, list.Page.Limit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escaneo
// ──────────────────────────────────────────────────────────────────────────────

func TestScan_Escenarios(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ABC 123", "Alice", "2")

	resp, body := env.do(t, http.MethodGet, "/scan/%20abc123%20", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	granted := decode[dto.ScanResponse](t, body)
	assert.Equal(t, "granted", granted.Status)
	assert.Equal(t, "abc123", granted.Identifier)
	assert.Equal(t, "Alice", granted.Name)
	assert.Equal(t, "2", granted.Role)

	env.scanUC.WithClock(func() time.Time { return time.Date(2026, 3, 2, 19, 0, 0, 0, siteTZ) })
	resp, body = env.do(t, http.MethodGet, "/scan/abc123", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	denied := decode[dto.ScanResponse](t, body)
	assert.Equal(t, "denied", denied.Status)
	assert.Equal(t, "19:00:00", denied.CurrentTime)
	assert.Equal(t, "08:00 - 18:00", denied.AllowedWindow)

	resp, body = env.do(t, http.MethodGet, "/scan/zzz999", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "un badge desconocido no es un error")
	assert.Equal(t, "unrecognized", decode[dto.ScanResponse](t, body).Status)
}

type brokenFinder struct{}

func (brokenFinder) Find(context.Context, string) (*entity.Badge, error) {
	return nil, errors.New("conexión rechazada")
}

func TestScan_FalloDeAlmacenamiento_Retorna500(t *testing.T) {
	authUC := newAuthUseCase(t)
	policy, err := access.NewPolicy(access.DefaultWindows(), access.FullDay)
	require.NoError(t, err)
	app := apphttp.NewApp("test")
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: authUC,
		ScanUC: scan.NewUseCase(brokenFinder{}, policy, siteTZ, nil, nil),
	})

	req := httptest.NewRequest(http.MethodGet, "/scan/abc123", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, authUC))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "conexión rechazada", "la causa solo se registra en el log")
}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestLogs_RegistraPeticionesYEscaneos(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "abc123", "Alice", "2")
	env.do(t, http.MethodGet, "/scan/abc123", nil)
	env.do(t, http.MethodGet, "/scan/zzz999", nil)

	// Close espera a que la goroutine escritora vacíe la cola.
	require.NoError(t, env.recorder.Close(context.Background()))

	resp, body := env.do(t, http.MethodGet, "/logs?limit=100", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.AccessLogListResponse](t, body)

	var messages []string
	for _, e := range list.Items {
		messages = append(messages, e.Message)
		assert.Len(t, e.Date, len("2006-01-02"))
		assert.Len(t, e.Time, len("15:04:05"))
	}
	assert.Contains(t, messages, "POST /badge - status 201")
	assert.Contains(t, messages, "Scan abc123: granted")
	assert.Contains(t, messages, "Scan zzz999: unrecognized")
	assert.Contains(t, messages, "GET /scan/zzz999 - status 200")
}

func TestLogs_InformePDF(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "abc123", "Alice", "2")
	env.do(t, http.MethodGet, "/scan/abc123", nil)
	require.NoError(t, env.recorder.Close(context.Background()))

	resp, body := env.do(t, http.MethodGet, "/logs/report.pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "registro_accesos_")
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))

	req := httptest.NewRequest(http.MethodGet, "/logs/report.pdf", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRutaInexistente_404JSON(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/no-existe", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}
