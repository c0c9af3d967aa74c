package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mockNotifier records lead notifications.
type mockNotifier struct {
	calls []LeadSummary
	err   error
}

func (m *mockNotifier) NotifyLead(_ context.Context, lead LeadSummary) error {
	m.calls = append(m.calls, lead)
	return m.err
}

func sampleLead() LeadSummary {
	return LeadSummary{
		MerchantID:   "m1",
		SessionID:    "s1",
		MerchantName: "Studio Aina",
		Name:         "Mei",
		Phone:        "+60123456789",
		Location:     "Mont Kiara",
		Style:        "japandi",
		Budget:       "50000",
		CollectedAt:  time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	}
}

func TestManualHandoffName(t *testing.T) {
	adapter := NewManualHandoffAdapter(nil, nil)
	require.Equal(t, "manual", adapter.Name())
}

func TestManualHandoffNotifiesMerchant(t *testing.T) {
	notifier := &mockNotifier{}
	adapter := NewManualHandoffAdapter(notifier, nil)

	result, err := adapter.Schedule(context.Background(), sampleLead())
	require.NoError(t, err)
	require.False(t, result.Booked)
	require.Contains(t, result.HandoffMessage, "Studio Aina")
	require.Len(t, notifier.calls, 1)
	require.Equal(t, "Mei", notifier.calls[0].Name)
}

func TestManualHandoffNotificationFailureStillProducesMessage(t *testing.T) {
	notifier := &mockNotifier{err: errors.New("smtp down")}
	adapter := NewManualHandoffAdapter(notifier, nil)

	result, err := adapter.Schedule(context.Background(), sampleLead())
	require.Error(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.HandoffMessage)
}

func TestManualHandoffWithoutNotifier(t *testing.T) {
	adapter := NewManualHandoffAdapter(nil, nil)

	result, err := adapter.Schedule(context.Background(), sampleLead())
	require.NoError(t, err)
	require.Contains(t, result.HandoffMessage, "consultation")
}

func TestHandoffMessageFallbackName(t *testing.T) {
	require.Contains(t, HandoffMessage(""), "our team")
}

func TestFormatLeadSummarySkipsEmptyFields(t *testing.T) {
	lead := sampleLead()
	lead.Email = ""
	lead.Scope = ""

	summary := FormatLeadSummary(lead)
	require.Contains(t, summary, "Name: Mei")
	require.Contains(t, summary, "Budget: 50000")
	require.NotContains(t, summary, "Email:")
	require.NotContains(t, summary, "Scope:")
}
