package sri

import (
	"fmt"
	"strings"
)

type Environment int

const (
	Test Environment = iota
	Prod
)

const (
	testHost = "https://celcer.sri.gob.ec"
	prodHost = "https://cel.sri.gob.ec"

	receptionPath     = "/comprobantes-electronicos-ws/RecepcionComprobantesOffline"
	authorizationPath = "/comprobantes-electronicos-ws/AutorizacionComprobantesOffline"

	ReceptionNamespace     = "http://ec.gob.sri.ws.recepcion"
	AuthorizationNamespace = "http://ec.gob.sri.ws.autorizacion"
)

func (e Environment) BaseURL() string {
	switch e {
	case Prod:
		return prodHost
	case Test:
		return testHost
	}
	panic("Invalid environment")
}

// ReceptionURL endpoint of the RecepcionComprobantesOffline service
func (e Environment) ReceptionURL() string {
	return e.BaseURL() + receptionPath
}

// AuthorizationURL endpoint of the AutorizacionComprobantesOffline service
func (e Environment) AuthorizationURL() string {
	return e.BaseURL() + authorizationPath
}

// Code is the value SRI uses for the environment inside access keys and
// documents (campo "ambiente").
func (e Environment) Code() string {
	switch e {
	case Prod:
		return "2"
	case Test:
		return "1"
	}
	panic("Invalid environment")
}

func (e Environment) Name() string {
	switch e {
	case Prod:
		return "prod"
	case Test:
		return "test"
	}
	panic("Invalid environment")
}

func (e Environment) String() string {
	return e.Name()
}

func (e *Environment) UnmarshalText(text []byte) error {
	val := strings.ToLower(strings.TrimSpace(string(text)))

	switch val {
	case "prod", "produccion", "2":
		*e = Prod
	case "test", "pruebas", "1":
		*e = Test
	default:
		return fmt.Errorf("invalid SRI_ENV: %q (allowed: prod, test)", val)
	}
	return nil
}
