// Package soap is a minimal SOAP 1.1 client for the SRI offline web
// services. Envelopes are built and parsed with etree; response bodies are
// handed out as tree values so callers never depend on a fixed schema.
package soap

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/alapierre/go-sri-client/sri"
	"github.com/alapierre/go-sri-client/sri/tree"
	"github.com/alapierre/go-sri-client/sri/util"
	"github.com/beevik/etree"
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
)

var logger = logrus.WithField("component", "sri.soap")

const (
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

	OperationValidate  = "validarComprobante"
	OperationAuthorize = "autorizacionComprobante"
)

// Caller invokes a remote operation and returns its response body.
type Caller interface {
	Call(ctx context.Context, operation string, params ...Param) (tree.Value, error)
}

// Param operation argument, serialized as an unqualified child element.
type Param struct {
	Name   string
	Value  string
	Base64 bool // xsd:base64Binary
}

// Service endpoint and target namespace of one SRI web service.
type Service struct {
	URL       string
	Namespace string
}

func ReceptionService(env sri.Environment) Service {
	return Service{URL: env.ReceptionURL(), Namespace: sri.ReceptionNamespace}
}

func AuthorizationService(env sri.Environment) Service {
	return Service{URL: env.AuthorizationURL(), Namespace: sri.AuthorizationNamespace}
}

// Fault SOAP fault returned by the service.
type Fault struct {
	Code   string
	String string
	Detail string
}

func (f *Fault) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("SOAP fault %s: %s (%s)", f.Code, f.String, f.Detail)
	}
	return fmt.Sprintf("SOAP fault %s: %s", f.Code, f.String)
}

// HTTPError non 2xx answer without a SOAP fault in the body.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("SRI returns http status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	service    Service
	httpClient *http.Client
	userAgent  string
}

type Option func(*Client)

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func NewClient(service Service, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{service: service, httpClient: httpClient, userAgent: sri.DefaultUserAgent}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewHTTPClient http.Client honoring the connect and read timeouts of cfg.
func NewHTTPClient(cfg sri.Config) *http.Client {
	cfg = cfg.Normalized()

	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = dialer.DialContext
	tr.TLSHandshakeTimeout = cfg.ConnectTimeout
	tr.ResponseHeaderTimeout = cfg.ReadTimeout

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.ConnectTimeout + cfg.ReadTimeout,
	}
}

// Call posts the operation envelope and returns the content of the
// "<operation>Response" element.
func (c *Client) Call(ctx context.Context, operation string, params ...Param) (tree.Value, error) {
	body, err := Envelope(c.service.Namespace, operation, params...)
	if err != nil {
		return tree.Value{}, errors.Wrap(err, "build envelope")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.service.URL, bytes.NewReader(body))
	if err != nil {
		return tree.Value{}, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `""`)
	req.Header.Set("User-Agent", c.userAgent)

	log := logger.WithFields(logrus.Fields{"operation": operation, "url": c.service.URL})
	if util.HttpTraceEnabled() {
		log.Tracef("request:\n%s", body)
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return tree.Value{}, errors.Wrap(err, operation)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return tree.Value{}, errors.Wrapf(err, "%s: read response", operation)
	}

	log.WithFields(logrus.Fields{"status": res.StatusCode, "elapsed": time.Since(start)}).Debug("SOAP call finished")
	if util.HttpTraceEnabled() {
		log.Tracef("response:\n%s", raw)
	}

	value, err := parseResponse(raw)

	var fault *Fault
	switch {
	case errors.As(err, &fault):
		return tree.Value{}, errors.Wrap(err, operation)
	case res.StatusCode/100 != 2:
		return tree.Value{}, errors.Wrap(&HTTPError{StatusCode: res.StatusCode, Body: snippet(raw)}, operation)
	case err != nil:
		return tree.Value{}, errors.Wrap(err, operation)
	}
	return value, nil
}

// Envelope builds the SOAP 1.1 request for operation in namespace ns.
func Envelope(ns, operation string, params ...Param) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", EnvelopeNamespace)
	env.CreateAttr("xmlns:ec", ns)
	env.CreateElement("soapenv:Header")

	op := env.CreateElement("soapenv:Body").CreateElement("ec:" + operation)
	for _, p := range params {
		v := p.Value
		if p.Base64 {
			v = base64.StdEncoding.EncodeToString([]byte(p.Value))
		}
		op.CreateElement(p.Name).SetText(v)
	}

	return doc.WriteToBytes()
}

func parseResponse(raw []byte) (tree.Value, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(raw); err != nil {
		return tree.Value{}, errors.Wrap(err, "parse response")
	}

	root := doc.Root()
	if root == nil || root.Tag != "Envelope" {
		return tree.Value{}, errors.New("response is not a SOAP envelope")
	}

	body := child(root, "Body")
	if body == nil {
		return tree.Value{}, errors.New("SOAP envelope without body")
	}

	if f := child(body, "Fault"); f != nil {
		return tree.Value{}, &Fault{
			Code:   text(child(f, "faultcode")),
			String: text(child(f, "faultstring")),
			Detail: text(child(f, "detail")),
		}
	}

	content := body.ChildElements()
	if len(content) == 0 {
		return tree.Value{}, errors.New("empty SOAP body")
	}
	return tree.FromElement(content[0]), nil
}

func child(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func text(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return el.Text()
}

func snippet(raw []byte) string {
	const limit = 512
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}
	return string(raw)
}
