package main

import (
	"testing"

	"github.com/asistencia-qr/attendance-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "1")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
}

func TestRun_ReturnsStartupErrors(t *testing.T) {
	t.Run("invalid default schedule", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("MORNING_CUTOFF", "25:99")

		err := run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MORNING_CUTOFF")
	})

	t.Run("unreachable database", func(t *testing.T) {
		setRequiredEnv(t)

		err := run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to database")
	})
}

func TestParseDefaultSchedule(t *testing.T) {
	s, err := parseDefaultSchedule(config.AttendanceConfig{
		MorningExpectedIn:   "06:50",
		AfternoonExpectedIn: "13:00",
		MorningCutoff:       "12:45",
	})
	require.NoError(t, err)
	assert.Equal(t, "06:50:00", s.MorningExpectedIn.String())
	assert.Equal(t, "12:45:00", s.MorningCutoff.String())

	_, err = parseDefaultSchedule(config.AttendanceConfig{
		MorningExpectedIn:   "06:50",
		AfternoonExpectedIn: "1pm",
		MorningCutoff:       "12:45",
	})
	assert.ErrorContains(t, err, "AFTERNOON_EXPECTED_IN")
}
