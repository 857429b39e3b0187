// Package sender runs the full SRI submission: reception of the signed
// document followed by authorization polling.
package sender

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alapierre/go-sri-client/sri"
	"github.com/alapierre/go-sri-client/sri/authorization"
	"github.com/alapierre/go-sri-client/sri/delay"
	"github.com/alapierre/go-sri-client/sri/model"
	"github.com/alapierre/go-sri-client/sri/reception"
	"github.com/alapierre/go-sri-client/sri/soap"
	"github.com/alapierre/go-sri-client/sri/tree"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "sri.sender")

type Sender struct {
	reception     *reception.Client
	authorization *authorization.Client
	sendDelay     time.Duration
	sleep         delay.Sleeper
}

type Option func(*Sender)

// WithSendDelay pause between reception and authorization, 3s by default.
func WithSendDelay(d time.Duration) Option {
	return func(s *Sender) { s.sendDelay = d }
}

// WithSleeper replaces the pause implementation of the sender and of its
// authorization client.
func WithSleeper(sl delay.Sleeper) Option {
	return func(s *Sender) { s.sleep = sl }
}

// New builds a Sender over explicit callers. Retry settings and the send
// delay come from cfg unless overridden by opts.
func New(receptionCaller, authorizationCaller soap.Caller, cfg sri.Config, opts ...Option) *Sender {
	cfg = cfg.Normalized()

	s := &Sender{
		sendDelay: cfg.SendDelay,
		sleep:     delay.Sleep,
	}
	for _, o := range opts {
		o(s)
	}

	s.reception = reception.NewClient(receptionCaller)
	s.authorization = authorization.NewClient(authorizationCaller,
		authorization.WithConfig(cfg),
		authorization.WithSleeper(s.sleep),
	)
	return s
}

// NewForEnvironment builds a Sender talking SOAP to the endpoints of
// cfg.Environment. A nil httpClient gets one built from the cfg timeouts.
func NewForEnvironment(cfg sri.Config, httpClient *http.Client, opts ...Option) *Sender {
	cfg = cfg.Normalized()
	if httpClient == nil {
		httpClient = soap.NewHTTPClient(cfg)
	}

	ua := soap.WithUserAgent(cfg.UserAgent)
	return New(
		soap.NewClient(soap.ReceptionService(cfg.Environment), httpClient, ua),
		soap.NewClient(soap.AuthorizationService(cfg.Environment), httpClient, ua),
		cfg,
		opts...,
	)
}

// Validate submits xml to the reception service.
func (s *Sender) Validate(ctx context.Context, xml string) *model.OperationResult {
	return s.reception.Validate(ctx, xml)
}

// Authorize polls the authorization service for accessKey.
func (s *Sender) Authorize(ctx context.Context, accessKey string) *model.OperationResult {
	return s.authorization.Authorize(ctx, accessKey)
}

// Send validates xml, waits the send delay and authorizes accessKey. It
// never panics; unexpected faults are reported in the result.
func (s *Sender) Send(ctx context.Context, accessKey, xml string) (res *model.CombinedResult) {
	log := logger.WithField("access_key", accessKey)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("unexpected error while sending document")
			res = &model.CombinedResult{
				Success: false,
				Status:  model.NewOptString(sri.StatusError),
				Error:   model.NewOptString(fmt.Sprintf("Unexpected error: %v", r)),
			}
		}
	}()

	validation := s.Validate(ctx, xml)
	if !validation.Success {
		log.Info("validation failed, authorization skipped")
		return &model.CombinedResult{
			Success:    false,
			Status:     s.reception.LastStatus(),
			Validation: validation,
			Error:      model.NewOptString("Validation failed: " + validation.Error.Or("Unknown error")),
		}
	}

	if err := s.sleep(ctx, s.sendDelay); err != nil {
		return &model.CombinedResult{
			Success:    false,
			Status:     model.NewOptString(sri.StatusError),
			Validation: validation,
			Error:      model.NewOptString("Unexpected error: " + err.Error()),
		}
	}

	auth := s.Authorize(ctx, accessKey)
	if !auth.Success {
		return &model.CombinedResult{
			Success:       false,
			Status:        s.authorization.LastStatus(),
			Validation:    validation,
			Authorization: auth,
			Error:         model.NewOptString("Authorization failed: " + auth.Error.Or("Unknown error")),
		}
	}

	return &model.CombinedResult{
		Success:       true,
		Status:        s.authorization.LastStatus(),
		Validation:    validation,
		Authorization: auth,
	}
}

func (s *Sender) ReceptionMessages() []model.ServiceMessage {
	return s.reception.LastMessages()
}

func (s *Sender) ReceptionMessageLines() []string {
	return s.reception.LastMessageLines()
}

func (s *Sender) AuthorizationMessages() []model.ServiceMessage {
	return s.authorization.LastMessages()
}

func (s *Sender) AuthorizationMessageLines() []string {
	return s.authorization.LastMessageLines()
}

func (s *Sender) ReceptionStatus() model.OptString {
	return s.reception.LastStatus()
}

func (s *Sender) AuthorizationStatus() model.OptString {
	return s.authorization.LastStatus()
}

func (s *Sender) WasLastAuthorizationSuccessful() bool {
	return s.authorization.WasLastSuccessful()
}

func (s *Sender) LastReceptionResponse() tree.Value {
	return s.reception.LastResponse()
}

func (s *Sender) LastAuthorizationResponse() tree.Value {
	return s.authorization.LastResponse()
}
