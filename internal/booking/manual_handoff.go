package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leadline-ai/leadline/pkg/logging"
)

// Notifier abstracts the channel used to tell the merchant about a completed
// lead; the SendGrid implementation lives in the notify package.
type Notifier interface {
	NotifyLead(ctx context.Context, lead LeadSummary) error
}

// ManualHandoffAdapter implements Adapter for merchants without a booking
// integration. It notifies the merchant with a lead summary so they can
// reach out themselves.
type ManualHandoffAdapter struct {
	notifier Notifier
	logger   *logging.Logger
}

// NewManualHandoffAdapter creates a manual handoff adapter. A nil notifier is
// allowed; the handoff then only produces the customer-facing message.
func NewManualHandoffAdapter(notifier Notifier, logger *logging.Logger) *ManualHandoffAdapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &ManualHandoffAdapter{
		notifier: notifier,
		logger:   logger,
	}
}

// Name returns "manual".
func (a *ManualHandoffAdapter) Name() string { return "manual" }

// Schedule notifies the merchant and returns a handoff message for the
// customer. Notification failures are reported but the handoff message is
// still produced so the conversation can close cleanly.
func (a *ManualHandoffAdapter) Schedule(ctx context.Context, lead LeadSummary) (*Result, error) {
	result := &Result{
		Booked:         false,
		HandoffMessage: HandoffMessage(lead.MerchantName),
	}

	if a.notifier == nil {
		a.logger.Warn("manual handoff: no notifier configured",
			"merchant_id", lead.MerchantID,
			"session_id", lead.SessionID,
		)
		return result, nil
	}

	if err := a.notifier.NotifyLead(ctx, lead); err != nil {
		a.logger.Error("manual handoff: notification failed",
			"error", err,
			"merchant_id", lead.MerchantID,
			"session_id", lead.SessionID,
		)
		return result, fmt.Errorf("booking: manual handoff notification: %w", err)
	}

	a.logger.Info("manual handoff: merchant notified",
		"merchant_id", lead.MerchantID,
		"session_id", lead.SessionID,
	)
	return result, nil
}

// HandoffMessage is the customer-facing confirmation for a manual handoff.
func HandoffMessage(merchantName string) string {
	if merchantName == "" {
		merchantName = "our team"
	}
	return fmt.Sprintf(
		"Thank you! I've shared your details with %s and they'll reach out shortly to arrange your consultation.",
		merchantName,
	)
}

// FormatLeadSummary renders the plain-text summary sent to the merchant.
func FormatLeadSummary(lead LeadSummary) string {
	var b strings.Builder

	writeLine := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", label, value))
	}

	writeLine("Name", lead.Name)
	writeLine("Phone", lead.Phone)
	writeLine("Email", lead.Email)
	writeLine("Location", lead.Location)
	writeLine("Style", lead.Style)
	writeLine("Scope", lead.Scope)
	writeLine("Budget", lead.Budget)
	writeLine("Notes", lead.Notes)
	b.WriteString(fmt.Sprintf("Collected: %s\n", lead.CollectedAt.Format(time.RFC1123)))

	return b.String()
}

var _ Adapter = (*ManualHandoffAdapter)(nil)
