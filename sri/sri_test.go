package sri

import (
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey = "1810202401179214673900110010010000000011234567813"
	prodKey = "1810202401179214673900210010010000000011234567810"
)

func TestParseAccessKey(t *testing.T) {
	ak, err := ParseAccessKey(testKey)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.October, 18, 0, 0, 0, 0, time.UTC), ak.IssueDate)
	assert.Equal(t, "01", ak.DocumentType)
	assert.Equal(t, "1792146739001", ak.RUC)
	assert.Equal(t, Test, ak.Environment)
	assert.Equal(t, "001001", ak.Series)
	assert.Equal(t, "000000001", ak.Sequential)
	assert.Equal(t, "12345678", ak.NumericCode)
	assert.Equal(t, "1", ak.EmissionType)
	assert.Equal(t, 3, ak.CheckDigit)

	ak, err = ParseAccessKey(prodKey)
	require.NoError(t, err)
	assert.Equal(t, Prod, ak.Environment)
}

func TestParseAccessKey_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"too short", "123"},
		{"letters", "181020240117921467390011001001000000001123456781X"},
		{"bad check digit", "1810202401179214673900110010010000000011234567814"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccessKey(tt.key)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAccessKey))
		})
	}
}

func TestCheckDigit(t *testing.T) {
	assert.Equal(t, 3, CheckDigit(testKey[:48]))
	assert.Equal(t, 0, CheckDigit(prodKey[:48]))
}

func TestEnvironment_UnmarshalText(t *testing.T) {
	var e Environment

	require.NoError(t, e.UnmarshalText([]byte(" PROD ")))
	assert.Equal(t, Prod, e)
	assert.Equal(t, "https://cel.sri.gob.ec/comprobantes-electronicos-ws/RecepcionComprobantesOffline", e.ReceptionURL())

	require.NoError(t, e.UnmarshalText([]byte("pruebas")))
	assert.Equal(t, Test, e)
	assert.Equal(t, "https://celcer.sri.gob.ec/comprobantes-electronicos-ws/AutorizacionComprobantesOffline", e.AuthorizationURL())

	assert.Error(t, e.UnmarshalText([]byte("demo")))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SRI_ENV", "prod")
	t.Setenv("SRI_MAX_ATTEMPTS", "3")
	t.Setenv("SRI_RETRY_DELAY", "250ms")
	t.Setenv("SRI_SEND_DELAY", "2")
	t.Setenv("SRI_READ_TIMEOUT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Prod, cfg.Environment)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 2*time.Second, cfg.SendDelay)
	assert.Equal(t, DefaultTimeout, cfg.ReadTimeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("SRI_MAX_ATTEMPTS", "many")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfig_Normalized(t *testing.T) {
	cfg := Config{MaxAttempts: -1, RetryDelay: -time.Second}.Normalized()

	assert.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, DefaultRetryDelay, cfg.RetryDelay)
	assert.Equal(t, DefaultSendDelay, cfg.SendDelay)
	assert.Equal(t, DefaultTimeout, cfg.ConnectTimeout)
}

func TestConfig_Normalized_ZeroValue(t *testing.T) {
	cfg := Config{Environment: Prod}.Normalized()

	assert.Equal(t, Prod, cfg.Environment)
	assert.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, DefaultRetryDelay, cfg.RetryDelay)
	assert.Equal(t, DefaultSendDelay, cfg.SendDelay)
	assert.Equal(t, DefaultTimeout, cfg.ReadTimeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
}

func TestLoadConfig_ZeroDelayFallsBackToDefault(t *testing.T) {
	t.Setenv("SRI_RETRY_DELAY", "0")
	t.Setenv("SRI_SEND_DELAY", "0s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultRetryDelay, cfg.RetryDelay)
	assert.Equal(t, DefaultSendDelay, cfg.SendDelay)
}
