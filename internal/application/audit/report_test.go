package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rfid-access-api/internal/application/audit"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/infrastructure/memory"
)

type captureGenerator struct {
	got audit.Report
	err error
}

func (g *captureGenerator) GenerateAccessReport(_ context.Context, r audit.Report) ([]byte, error) {
	g.got = r
	return []byte("%PDF-fake"), g.err
}

func TestReportUseCase_Download(t *testing.T) {
	repo := memory.NewAccessLogRepository(memory.NewStore())
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, &entity.AccessLog{Date: "2026-03-02", Time: "09:00:00", Message: "Scan a: granted"}))
	require.NoError(t, repo.Append(ctx, &entity.AccessLog{Date: "2026-03-02", Time: "09:01:00", Message: "Scan b: denied"}))

	gen := &captureGenerator{}
	uc := audit.NewReportUseCase(repo, gen, "sitio", time.UTC).
		WithClock(func() time.Time { return time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC) })

	doc, name, err := uc.Download(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(doc))
	assert.Equal(t, "registro_accesos_20260302_1030.pdf", name)
	require.Len(t, gen.got.Entries, 2)
	assert.Equal(t, "Scan b: denied", gen.got.Entries[0].Message)
	assert.Equal(t, "sitio", gen.got.Site)
}

func TestReportUseCase_ErrorDelGenerador(t *testing.T) {
	repo := memory.NewAccessLogRepository(memory.NewStore())
	uc := audit.NewReportUseCase(repo, &captureGenerator{err: errors.New("sin fuente")}, "sitio", nil)
	_, _, err := uc.Download(context.Background(), 10)
	assert.Error(t, err)
}

func TestIsDenial(t *testing.T) {
	assert.True(t, audit.IsDenial("Scan abc: denied"))
	assert.True(t, audit.IsDenial("Scan zzz: unrecognized"))
	assert.False(t, audit.IsDenial("Scan abc: granted"))
	assert.False(t, audit.IsDenial("GET /logs - status 200"))
}
