package util

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "sri.util")

func DebugEnabled() bool {
	return etb("SRI_DEBUG")
}

// HttpTraceEnabled dumps SOAP envelopes and responses at trace level
func HttpTraceEnabled() bool {
	return etb("SRI_HTTP_TRACE")
}

func etb(envName string) bool {
	v, ok := os.LookupEnv(envName)
	if !ok {
		return false
	}

	bv, err := strconv.ParseBool(v)

	return err == nil && bv
}

func GetEnvOrFailed(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		logger.Fatal(key, " environment variable is not set")
	}
	return v
}

// GetEnvOrDefault returns the variable value or def when unset.
func GetEnvOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// ConfigureLogger sets the standard logrus formatter and level from SRI_DEBUG
// and SRI_HTTP_TRACE.
func ConfigureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableColors: false,
		FullTimestamp: true,
	})

	switch {
	case HttpTraceEnabled():
		logrus.SetLevel(logrus.TraceLevel)
	case DebugEnabled():
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}
