package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kithly/kithly-backend/models"
	awspkg "github.com/kithly/kithly-backend/pkg/aws"

	"go.uber.org/zap"
)

// SMSSender delivers one SMS. Provider integration lives behind this
// interface; delivery retry policy belongs to the queue, not the sender.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSMSSender writes the message to the log instead of a gateway. Used
// until a provider is wired in, and in every non-production environment.
type LogSMSSender struct {
	Logger *zap.Logger
}

func (s *LogSMSSender) Send(ctx context.Context, phone, message string) error {
	s.Logger.Info("SMS (log sender)",
		zap.String("phone", phone),
		zap.String("message", message),
	)
	return nil
}

// SMSDispatcher consumes order_created events from the SMS queue and sends
// the recipient their collection link. Failures leave the message on the
// queue for redelivery after the visibility timeout.
type SMSDispatcher struct {
	consumer *awspkg.SQSConsumer
	sender   SMSSender
	logger   *zap.Logger
}

func NewSMSDispatcher(consumer *awspkg.SQSConsumer, sender SMSSender, logger *zap.Logger) *SMSDispatcher {
	return &SMSDispatcher{consumer: consumer, sender: sender, logger: logger}
}

// Start polls the queue until the context is cancelled.
func (d *SMSDispatcher) Start(ctx context.Context) {
	if err := d.consumer.StartPolling(ctx, d.handleMessage); err != nil && ctx.Err() == nil {
		d.logger.Error("SMS dispatcher stopped unexpectedly", zap.Error(err))
	}
}

// snsEnvelope unwraps the SNS -> SQS message wrapper.
type snsEnvelope struct {
	Message string `json:"Message"`
}

func (d *SMSDispatcher) handleMessage(ctx context.Context, body string) error {
	payload := body
	var envelope snsEnvelope
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && envelope.Message != "" {
		payload = envelope.Message
	}

	var event models.OrderCreatedEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		// Unparseable; returning nil deletes it rather than looping forever.
		d.logger.Error("Dropping malformed SMS event", zap.Error(err))
		return nil
	}
	if event.EventType != models.EventOrderCreated {
		return nil
	}

	message := FormatGiftSMS(&event)
	if err := d.sender.Send(ctx, event.RecipientPhone, message); err != nil {
		d.logger.Error("SMS send failed",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return err
	}

	d.logger.Info("Gift SMS sent", zap.String("order_id", event.OrderID))
	return nil
}

// FormatGiftSMS renders the collection message for the recipient.
func FormatGiftSMS(event *models.OrderCreatedEvent) string {
	kwacha := event.TotalAmountNgwee / 100
	ngwee := event.TotalAmountNgwee % 100
	return fmt.Sprintf(
		"You have a gift waiting at %s worth K%d.%02d! Show this link at the shop to collect it: %s",
		event.ShopName, kwacha, ngwee, event.CollectionLink,
	)
}
