package sri

import (
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "sri")

// Service status tokens returned in the "estado" fields.
const (
	StatusReceived   = "RECIBIDA"
	StatusReturned   = "DEVUELTA"
	StatusAuthorized = "AUTORIZADO"
	StatusRejected   = "NO AUTORIZADO"
	StatusError      = "ERROR"
)

var ErrInvalidAccessKey = errors.New("invalid access key")

// ConnectionErrorMessage formats the message reported to callers when the
// remote call could not complete.
func ConnectionErrorMessage(err error) string {
	return "Error de conexión con el SRI: " + err.Error()
}
