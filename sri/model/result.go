// Package model holds the result shapes returned to callers of the SRI
// clients. They are plain values, built once per call and never persisted.
package model

import "strings"

// OptString optional string, absent differs from empty.
type OptString struct {
	Value string
	Set   bool
}

func NewOptString(v string) OptString {
	return OptString{Value: v, Set: true}
}

func (o OptString) IsSet() bool { return o.Set }

func (o OptString) Get() (string, bool) { return o.Value, o.Set }

func (o OptString) Or(def string) string {
	if o.Set {
		return o.Value
	}
	return def
}

// ServiceMessage informational or error entry returned by reception or
// authorization ("mensaje").
type ServiceMessage struct {
	Type           string
	Code           string
	Message        string
	AdditionalInfo string
}

// Line renders the message in the text form "{type} {code}: {text} {info}".
func (m ServiceMessage) Line() string {
	return m.Type + " " + m.Code + ": " + m.Message + " " + m.AdditionalInfo
}

// AuthorizedDocument fields of a successful "autorizacion". Each may be
// unset when the service response is partially malformed.
type AuthorizedDocument struct {
	AccessKey         OptString
	XML               OptString
	AuthorizationDate OptString
}

// OperationResult outcome of a single reception or authorization call.
type OperationResult struct {
	Success  bool
	Status   OptString
	Messages []ServiceMessage
	Error    OptString

	// authorization only
	AuthorizedDocument *AuthorizedDocument
	Attempts           int
	State              string
}

// CombinedResult outcome of reception followed by authorization.
// Authorization is nil when reception failed and was never attempted.
type CombinedResult struct {
	Success       bool
	Status        OptString
	Validation    *OperationResult
	Authorization *OperationResult
	Error         OptString
}

// JoinLines joins text mode messages the way errors are reported.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
