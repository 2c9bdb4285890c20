package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rfid-access-api/internal/domain"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want entity.Role
	}{
		{"1", entity.RoleAdmin},
		{"2", entity.RoleEmployee},
		{" 02 ", entity.RoleEmployee},
		{"Admin", entity.RoleAdmin},
		{"administrateur", entity.RoleAdmin},
		{"EMPLEADO", entity.RoleEmployee},
		{"employé", entity.RoleEmployee},
	}
	for _, tc := range cases {
		got, err := entity.ParseRole(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseRole_Invalido(t *testing.T) {
	for _, in := range []string{"", "  ", "3", "0", "-1", "root"} {
		_, err := entity.ParseRole(in)
		assert.ErrorIs(t, err, domain.ErrInvalidRole, in)
	}
}

func TestRoleCode(t *testing.T) {
	code, err := entity.RoleEmployee.Code()
	require.NoError(t, err)
	assert.Equal(t, int16(2), code)
	assert.Equal(t, entity.RoleEmployee, entity.RoleFromCode(code))

	legacy := entity.RoleFromCode(7)
	assert.False(t, legacy.Known(), "un código heredado fuera del conjunto se conserva como desconocido")
	assert.Equal(t, "unknown", legacy.Label())

	_, err = entity.Role("admin").Code()
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}
