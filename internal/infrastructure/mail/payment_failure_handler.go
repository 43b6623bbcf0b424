package mail

import (
	"context"
	"fmt"

	"github.com/teasupply/backend/internal/domain/payment"
	"github.com/teasupply/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentFailureHandler mails the finance team when a payment fails, so a
// stuck settlement gets eyes on it before the supplier calls.
type PaymentFailureHandler struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewPaymentFailureHandler creates a new PaymentFailureHandler
func NewPaymentFailureHandler(notifier Notifier, logger *zap.Logger) *PaymentFailureHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentFailureHandler{notifier: notifier, logger: logger}
}

// Handle processes a payment status change and notifies on failure
func (h *PaymentFailureHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	changed, ok := evt.(*payment.PaymentStatusChangedEvent)
	if !ok || changed.ToStatus != payment.StatusFailed {
		return nil
	}

	subject := fmt.Sprintf("Payment %s failed", changed.PaymentID)
	body := fmt.Sprintf("Payment %s moved from %s to %s at %s.",
		changed.PaymentID, changed.FromStatus, changed.ToStatus,
		changed.OccurredAt().Format("2006-01-02 15:04:05"))

	if err := h.notifier.Notify(ctx, subject, body); err != nil {
		h.logger.Error("failed to send payment failure notification",
			zap.String("payment_id", changed.PaymentID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *PaymentFailureHandler) EventTypes() []string {
	return []string{payment.EventTypePaymentStatusChanged}
}

// Ensure PaymentFailureHandler implements EventHandler
var _ shared.EventHandler = (*PaymentFailureHandler)(nil)
