// Package reception submits signed documents to the SRI reception service
// (RecepcionComprobantesOffline). The service answers synchronously, so a
// call is never retried here.
package reception

import (
	"context"

	"github.com/alapierre/go-sri-client/sri"
	"github.com/alapierre/go-sri-client/sri/message"
	"github.com/alapierre/go-sri-client/sri/model"
	"github.com/alapierre/go-sri-client/sri/soap"
	"github.com/alapierre/go-sri-client/sri/tree"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "sri.reception")

// Client keeps the response of its latest call. It must not be shared
// between goroutines.
type Client struct {
	caller       soap.Caller
	lastResponse tree.Value
}

func NewClient(caller soap.Caller) *Client {
	return &Client{caller: caller}
}

// Validate sends signedXML to validarComprobante.
func (c *Client) Validate(ctx context.Context, signedXML string) *model.OperationResult {
	c.lastResponse = tree.Value{}

	resp, err := c.caller.Call(ctx, soap.OperationValidate, soap.Param{Name: "xml", Value: signedXML, Base64: true})
	if err != nil {
		logger.WithError(err).Warn("reception call failed")
		return &model.OperationResult{
			Success:  false,
			Messages: []model.ServiceMessage{},
			Error:    model.NewOptString(sri.ConnectionErrorMessage(err)),
		}
	}
	c.lastResponse = resp

	status := message.OptStatus(resp, message.Reception)
	log := logger.WithField("status", status.Or("<absent>"))

	if !message.IsSuccessful(resp, message.Reception) {
		lines := message.Lines(resp, message.Reception)
		log.WithField("messages", len(lines)).Info("document not received")
		return &model.OperationResult{
			Success:  false,
			Status:   status,
			Messages: message.Messages(resp, message.Reception),
			Error:    model.NewOptString(model.JoinLines(lines)),
		}
	}

	log.Info("document received")
	return &model.OperationResult{
		Success:  true,
		Status:   status,
		Messages: message.Messages(resp, message.Reception),
	}
}

// LastStatus status of the latest response, unset before any call or after a
// transport failure.
func (c *Client) LastStatus() model.OptString {
	return message.OptStatus(c.lastResponse, message.Reception)
}

func (c *Client) LastMessages() []model.ServiceMessage {
	return message.Messages(c.lastResponse, message.Reception)
}

func (c *Client) LastMessageLines() []string {
	return message.Lines(c.lastResponse, message.Reception)
}

// LastResponse raw response of the latest call, tree.Absent when none.
func (c *Client) LastResponse() tree.Value {
	return c.lastResponse
}
