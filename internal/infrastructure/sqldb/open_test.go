package sqldb

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rfid-access-api/pkg/logger"
)

func TestMySQLLogger_ComponenteFijo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})

	l := mysqlLogger{zl: log.With().Str("component", "mysql").Logger()}
	l.Print("packets.go:36: ", "unexpected EOF")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "mysql", line["component"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "packets.go:36: unexpected EOF", line["message"])
}
