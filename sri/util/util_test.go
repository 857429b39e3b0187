package util

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestIsDebugEnabled_False(t *testing.T) {
	t.Setenv("SRI_DEBUG", "")
	res := DebugEnabled()
	assert.False(t, res, "debug should be false")
}

func TestIsDebugEnabled_True(t *testing.T) {
	t.Setenv("SRI_DEBUG", "true")

	res := DebugEnabled()
	assert.True(t, res, "debug should be true")
}

func TestConfigureLogger(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	t.Setenv("SRI_DEBUG", "true")
	t.Setenv("SRI_HTTP_TRACE", "false")
	ConfigureLogger()
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	t.Setenv("SRI_HTTP_TRACE", "1")
	ConfigureLogger()
	assert.Equal(t, log.TraceLevel, log.GetLevel())
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("SRI_XML_FILE", "factura.xml")
	assert.Equal(t, "factura.xml", GetEnvOrDefault("SRI_XML_FILE", "x"))
	assert.Equal(t, "x", GetEnvOrDefault("SRI_NOT_SET_ANYWHERE", "x"))
}
