// Package authorization polls the SRI authorization service
// (AutorizacionComprobantesOffline) until a received document is
// authorized or the attempt budget runs out.
package authorization

import (
	"context"
	"fmt"
	"time"

	"github.com/alapierre/go-sri-client/sri"
	"github.com/alapierre/go-sri-client/sri/delay"
	"github.com/alapierre/go-sri-client/sri/message"
	"github.com/alapierre/go-sri-client/sri/model"
	"github.com/alapierre/go-sri-client/sri/soap"
	"github.com/alapierre/go-sri-client/sri/tree"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "sri.authorization")

type State int

const (
	Attempting State = iota
	Waiting
	Authorized
	Failed    // transport failure on the last attempt
	Exhausted // every attempt answered without authorization
)

func (s State) String() string {
	switch s {
	case Attempting:
		return "ATTEMPTING"
	case Waiting:
		return "WAITING"
	case Authorized:
		return "AUTHORIZED"
	case Failed:
		return "FAILED"
	case Exhausted:
		return "EXHAUSTED"
	}
	return "UNKNOWN"
}

func (s State) Terminal() bool {
	return s == Authorized || s == Failed || s == Exhausted
}

// Client keeps the response of its latest attempt. It must not be shared
// between goroutines.
type Client struct {
	caller      soap.Caller
	maxAttempts int
	retryDelay  time.Duration
	sleep       delay.Sleeper
	onState     func(state State, attempt int)

	lastResponse tree.Value
}

type Option func(*Client)

func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

func WithSleeper(s delay.Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// WithStateHook registers fn to be called on every state the poll enters.
func WithStateHook(fn func(state State, attempt int)) Option {
	return func(c *Client) { c.onState = fn }
}

// WithConfig applies the retry settings of cfg, zero values taking the
// defaults. Use WithRetryDelay(0) after it to poll without pauses.
func WithConfig(cfg sri.Config) Option {
	return func(c *Client) {
		cfg = cfg.Normalized()
		c.maxAttempts = cfg.MaxAttempts
		c.retryDelay = cfg.RetryDelay
	}
}

func NewClient(caller soap.Caller, opts ...Option) *Client {
	c := &Client{
		caller:      caller,
		maxAttempts: sri.DefaultMaxAttempts,
		retryDelay:  sri.DefaultRetryDelay,
		sleep:       delay.Sleep,
	}
	for _, o := range opts {
		o(c)
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = sri.DefaultMaxAttempts
	}
	if c.retryDelay < 0 {
		c.retryDelay = sri.DefaultRetryDelay
	}
	return c
}

// Authorize queries autorizacionComprobante for accessKey. Transport
// failures and answers other than AUTORIZADO share one budget of
// maxAttempts calls, with retryDelay between consecutive calls.
func (c *Client) Authorize(ctx context.Context, accessKey string) *model.OperationResult {
	c.lastResponse = tree.Value{}

	log := logger.WithField("access_key", accessKey)

	var (
		attempts int
		lastErr  error
		state    = Attempting
	)

	for {
		c.enter(state, attempts)

		switch state {
		case Attempting:
			attempts++
			resp, err := c.caller.Call(ctx, soap.OperationAuthorize, soap.Param{Name: "claveAccesoComprobante", Value: accessKey})
			if err != nil {
				lastErr = err
				log.WithError(err).WithField("attempt", attempts).Warn("authorization call failed")
				if attempts >= c.maxAttempts {
					state = Failed
				} else {
					state = Waiting
				}
				continue
			}

			c.lastResponse = resp
			if message.IsSuccessful(resp, message.Authorization) {
				state = Authorized
				continue
			}

			log.WithFields(logrus.Fields{
				"attempt": attempts,
				"status":  message.OptStatus(resp, message.Authorization).Or("<absent>"),
			}).Debug("document not authorized yet")

			if attempts < c.maxAttempts {
				state = Waiting
			} else {
				state = Exhausted
			}

		case Waiting:
			if err := c.sleep(ctx, c.retryDelay); err != nil {
				lastErr = err
				state = Failed
				continue
			}
			state = Attempting

		case Authorized:
			log.WithField("attempts", attempts).Info("document authorized")
			return &model.OperationResult{
				Success:            true,
				Status:             message.OptStatus(c.lastResponse, message.Authorization),
				AuthorizedDocument: message.AuthorizedDocument(c.lastResponse),
				Messages:           message.Messages(c.lastResponse, message.Authorization),
				Attempts:           attempts,
				State:              state.String(),
			}

		case Failed:
			log.WithError(lastErr).WithField("attempts", attempts).Error("authorization failed")
			return &model.OperationResult{
				Success:  false,
				Status:   model.NewOptString(sri.StatusError),
				Messages: []model.ServiceMessage{},
				Error:    model.NewOptString(sri.ConnectionErrorMessage(lastErr)),
				Attempts: attempts,
				State:    state.String(),
			}

		case Exhausted:
			lines := message.Lines(c.lastResponse, message.Authorization)
			errMsg := model.JoinLines(lines)
			if len(lines) == 0 {
				errMsg = fmt.Sprintf("No se recibió una respuesta de autorización válida del SRI después de %d intentos.", attempts)
			}
			log.WithField("attempts", attempts).Info("authorization attempts exhausted")
			return &model.OperationResult{
				Success:  false,
				Status:   message.OptStatus(c.lastResponse, message.Authorization),
				Messages: message.Messages(c.lastResponse, message.Authorization),
				Error:    model.NewOptString(errMsg),
				Attempts: attempts,
				State:    state.String(),
			}
		}
	}
}

func (c *Client) enter(state State, attempts int) {
	if c.onState != nil {
		c.onState(state, attempts)
	}
}

func (c *Client) MaxAttempts() int { return c.maxAttempts }

func (c *Client) RetryDelay() time.Duration { return c.retryDelay }

// LastStatus status of the latest answered attempt.
func (c *Client) LastStatus() model.OptString {
	return message.OptStatus(c.lastResponse, message.Authorization)
}

func (c *Client) LastMessages() []model.ServiceMessage {
	return message.Messages(c.lastResponse, message.Authorization)
}

func (c *Client) LastMessageLines() []string {
	return message.Lines(c.lastResponse, message.Authorization)
}

// LastResponse raw response of the latest answered attempt, tree.Absent when none.
func (c *Client) LastResponse() tree.Value {
	return c.lastResponse
}

func (c *Client) WasLastSuccessful() bool {
	return message.IsSuccessful(c.lastResponse, message.Authorization)
}

// AuthorizedDocument document fields of the latest response, nil when absent.
func (c *Client) AuthorizedDocument() *model.AuthorizedDocument {
	return message.AuthorizedDocument(c.lastResponse)
}
