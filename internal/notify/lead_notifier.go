package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/leadline-ai/leadline/internal/booking"
	"github.com/leadline-ai/leadline/pkg/logging"
)

// LeadNotifier emails the merchant when a conversation completes with a
// captured lead. It satisfies the booking package's Notifier so the manual
// handoff adapter can use it directly.
type LeadNotifier struct {
	sender EmailSender
	emails []string
	logger *logging.Logger
}

// NewLeadNotifier builds a notifier that fans out to the given addresses.
func NewLeadNotifier(sender EmailSender, emails []string, logger *logging.Logger) *LeadNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadNotifier{
		sender: sender,
		emails: emails,
		logger: logger,
	}
}

// NotifyLead sends the lead summary to every configured address. Partial
// failures are collected; delivery to at least one address still counts as
// progress for the merchant, so all sends are attempted.
func (n *LeadNotifier) NotifyLead(ctx context.Context, lead booking.LeadSummary) error {
	if n.sender == nil || len(n.emails) == 0 {
		n.logger.Warn("lead notification skipped: no sender or recipients",
			"merchant_id", lead.MerchantID,
			"session_id", lead.SessionID,
		)
		return nil
	}

	subject := fmt.Sprintf("New lead — %s", lead.Name)
	if lead.Location != "" {
		subject = fmt.Sprintf("New lead — %s (%s)", lead.Name, lead.Location)
	}
	body := booking.FormatLeadSummary(lead)
	htmlBody := leadSummaryHTML(lead)

	var failed []string
	for _, to := range n.emails {
		if err := n.sender.Send(ctx, EmailMessage{
			To:      to,
			Subject: subject,
			Body:    body,
			HTML:    htmlBody,
		}); err != nil {
			n.logger.Error("lead notification failed", "error", err, "to", to, "merchant_id", lead.MerchantID)
			failed = append(failed, to)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("notify: lead email failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

func leadSummaryHTML(lead booking.LeadSummary) string {
	var rows strings.Builder
	writeRow := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		rows.WriteString(fmt.Sprintf(
			`<tr><td style="padding:6px 12px;font-weight:bold;">%s</td><td style="padding:6px 12px;">%s</td></tr>`,
			label, html.EscapeString(value),
		))
	}

	writeRow("Name", lead.Name)
	writeRow("Phone", lead.Phone)
	writeRow("Email", lead.Email)
	writeRow("Location", lead.Location)
	writeRow("Style", lead.Style)
	writeRow("Scope", lead.Scope)
	writeRow("Budget", lead.Budget)
	writeRow("Notes", lead.Notes)

	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:600px;">
<h2 style="color:#333;">New Qualified Lead</h2>
<table style="border-collapse:collapse;width:100%%;">
%s
</table>
<p style="color:#666;font-size:12px;">Captured by your LeadLine assistant. Please reach out to confirm the consultation.</p>
</div>`, rows.String())
}

var _ booking.Notifier = (*LeadNotifier)(nil)
