// Package qr renders the authorization number of an authorized document as
// a PNG QR code, as printed on the RIDE.
package qr

import (
	"github.com/alapierre/go-sri-client/sri/model"
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

var logger = logrus.WithField("component", "sri.qr")

const DefaultSize = 300

var ErrNoAuthorizationNumber = errors.New("authorized document has no authorization number")

// PNG encodes content with medium error recovery.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	data, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(err, "encode qr code")
	}
	return data, nil
}

// AuthorizationPNG renders doc.AccessKey, the authorization number returned
// by the SRI.
func AuthorizationPNG(doc *model.AuthorizedDocument) ([]byte, error) {
	if doc == nil || doc.AccessKey.Or("") == "" {
		return nil, ErrNoAuthorizationNumber
	}
	logger.Debugf("rendering qr code for %s", doc.AccessKey.Value)
	return PNG(doc.AccessKey.Value, DefaultSize)
}
