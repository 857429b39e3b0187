// Package message normalizes reception and authorization responses into a
// status token and a flat list of service messages. All functions are pure
// and tolerate missing or differently shaped nodes.
package message

import (
	"github.com/alapierre/go-sri-client/sri"
	"github.com/alapierre/go-sri-client/sri/model"
	"github.com/alapierre/go-sri-client/sri/tree"
)

type Kind int

const (
	Reception Kind = iota
	Authorization
)

func (k Kind) String() string {
	switch k {
	case Reception:
		return "reception"
	case Authorization:
		return "authorization"
	}
	return "unknown"
}

// SuccessToken status meaning the operation succeeded.
func (k Kind) SuccessToken() string {
	if k == Authorization {
		return sri.StatusAuthorized
	}
	return sri.StatusReceived
}

// Defaults for message fields the service left out. The text default is
// shared by both services.
const (
	DefaultType = "ERROR"
	DefaultCode = "0"
	DefaultText = "Error en recepción"
)

// Status extracts the "estado" token. Ok is false when any node on the way
// is missing, which never means a particular status.
func Status(resp tree.Value, kind Kind) (string, bool) {
	switch kind {
	case Reception:
		return resp.Path("RespuestaRecepcionComprobante", "estado").String()
	case Authorization:
		return authorization(resp).Get("estado").String()
	}
	return "", false
}

// OptStatus is Status as model.OptString.
func OptStatus(resp tree.Value, kind Kind) model.OptString {
	if s, ok := Status(resp, kind); ok {
		return model.NewOptString(s)
	}
	return model.OptString{}
}

// IsSuccessful reports whether the status equals the success token of kind.
func IsSuccessful(resp tree.Value, kind Kind) bool {
	s, ok := Status(resp, kind)
	return ok && s == kind.SuccessToken()
}

// Messages returns the structured messages in document order.
func Messages(resp tree.Value, kind Kind) []model.ServiceMessage {
	var groups []tree.Value

	switch kind {
	case Reception:
		for _, c := range resp.Path("RespuestaRecepcionComprobante", "comprobantes", "comprobante").Items() {
			groups = append(groups, c.Get("mensajes"))
		}
	case Authorization:
		groups = append(groups, authorization(resp).Get("mensajes"))
	}

	out := make([]model.ServiceMessage, 0)
	for _, g := range groups {
		for _, e := range entries(g) {
			out = append(out, format(e))
		}
	}
	return out
}

// Lines returns the messages in text form, "{type} {code}: {text} {info}".
func Lines(resp tree.Value, kind Kind) []string {
	msgs := Messages(resp, kind)
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Line())
	}
	return out
}

// AuthorizedDocument extracts the authorization number, document and date
// from the first "autorizacion". Nil when that node is absent; individual
// fields stay unset when missing.
func AuthorizedDocument(resp tree.Value) *model.AuthorizedDocument {
	a := authorization(resp)
	if a.IsAbsent() {
		return nil
	}
	return &model.AuthorizedDocument{
		AccessKey:         optText(a.Get("numeroAutorizacion")),
		XML:               optText(a.Get("comprobante")),
		AuthorizationDate: optText(a.Get("fechaAutorizacion")),
	}
}

// authorization is the first "autorizacion", the service may return several.
func authorization(resp tree.Value) tree.Value {
	return resp.Path("RespuestaAutorizacionComprobante", "autorizaciones", "autorizacion").First()
}

// entries flattens a "mensajes" value by exactly one level. The value may be
// a single message, a node wrapping one or many "mensaje" elements, a
// collection of messages or of message collections, or a collection of
// "mensajes" wrappers when the group repeats.
func entries(v tree.Value) []tree.Value {
	if isEntry(v) {
		return []tree.Value{v}
	}

	var out []tree.Value
	for _, m := range v.Members() {
		for _, e := range m.Items() {
			switch {
			case isEntry(e):
				out = append(out, e)
			case e.Kind() == tree.Node:
				// a repeated "mensajes" wrapper, one per group
				out = append(out, wrapped(e)...)
			}
		}
	}
	return out
}

// wrapped returns the messages held by a wrapper node without descending
// any further.
func wrapped(w tree.Value) []tree.Value {
	var out []tree.Value
	for _, m := range w.Members() {
		for _, e := range m.Items() {
			if isEntry(e) {
				out = append(out, e)
			}
		}
	}
	return out
}

// isEntry is true for a node made only of scalar fields, i.e. a message
// itself rather than a wrapper around messages.
func isEntry(v tree.Value) bool {
	if v.Kind() != tree.Node || v.Len() == 0 {
		return false
	}
	for _, f := range v.Fields() {
		if f.Value.Kind() != tree.Scalar {
			return false
		}
	}
	return true
}

func format(e tree.Value) model.ServiceMessage {
	return model.ServiceMessage{
		Type:           e.Get("tipo").StringOr(DefaultType),
		Code:           e.Get("identificador").StringOr(DefaultCode),
		Message:        e.Get("mensaje").StringOr(DefaultText),
		AdditionalInfo: e.Get("informacionAdicional").StringOr(""),
	}
}

func optText(v tree.Value) model.OptString {
	if s, ok := v.String(); ok {
		return model.NewOptString(s)
	}
	return model.OptString{}
}
