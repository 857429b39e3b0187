package sri

import (
	"strconv"
	"time"

	"github.com/go-faster/errors"
)

const AccessKeyLength = 49

// AccessKey decoded "clave de acceso" of an electronic document.
type AccessKey struct {
	Raw          string
	IssueDate    time.Time
	DocumentType string // 01 factura, 04 nota de crédito, 05 nota de débito, 06 guía, 07 retención
	RUC          string
	Environment  Environment
	Series       string // establecimiento + punto de emisión
	Sequential   string
	NumericCode  string
	EmissionType string
	CheckDigit   int
}

// ParseAccessKey validates the length, digits and modulo 11 check digit of
// key and decodes its fields.
func ParseAccessKey(key string) (*AccessKey, error) {
	if len(key) != AccessKeyLength {
		return nil, errors.Wrapf(ErrInvalidAccessKey, "expected %d digits, got %d", AccessKeyLength, len(key))
	}
	for i, r := range key {
		if r < '0' || r > '9' {
			return nil, errors.Wrapf(ErrInvalidAccessKey, "non digit %q at position %d", r, i+1)
		}
	}

	check := int(key[48] - '0')
	if expected := CheckDigit(key[:48]); expected != check {
		return nil, errors.Wrapf(ErrInvalidAccessKey, "check digit %d, expected %d", check, expected)
	}

	date, err := time.Parse("02012006", key[0:8])
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAccessKey, "issue date %q", key[0:8])
	}

	var env Environment
	if err := env.UnmarshalText([]byte(key[23:24])); err != nil {
		return nil, errors.Wrapf(ErrInvalidAccessKey, "environment %q", key[23:24])
	}

	ak := &AccessKey{
		Raw:          key,
		IssueDate:    date,
		DocumentType: key[8:10],
		RUC:          key[10:23],
		Environment:  env,
		Series:       key[24:30],
		Sequential:   key[30:39],
		NumericCode:  key[39:47],
		EmissionType: key[47:48],
		CheckDigit:   check,
	}
	logger.WithField("access_key", key).Debugf("parsed access key: %s %s-%s", ak.DocumentType, ak.Series, ak.Sequential)
	return ak, nil
}

// CheckDigit computes the modulo 11 digit for the first 48 digits of an
// access key: weights 2..7 applied from the right, 11 maps to 0 and 10 to 1.
func CheckDigit(digits string) int {
	sum, weight := 0, 2
	for i := len(digits) - 1; i >= 0; i-- {
		d, err := strconv.Atoi(digits[i : i+1])
		if err != nil {
			return -1
		}
		sum += d * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}

	switch r := 11 - sum%11; r {
	case 11:
		return 0
	case 10:
		return 1
	default:
		return r
	}
}
