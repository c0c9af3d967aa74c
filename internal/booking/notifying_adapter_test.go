package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	result *Result
	err    error
}

func (s *stubAdapter) Name() string { return "stub" }

func (s *stubAdapter) Schedule(context.Context, LeadSummary) (*Result, error) {
	return s.result, s.err
}

func TestNotifyingAdapterNotifiesOnSuccess(t *testing.T) {
	notifier := &mockNotifier{}
	adapter := NewNotifyingAdapter(&stubAdapter{result: &Result{Booked: true, Reference: "bk-1"}}, notifier, nil)

	result, err := adapter.Schedule(context.Background(), sampleLead())
	require.NoError(t, err)
	require.True(t, result.Booked)
	require.Equal(t, "bk-1", result.Reference)
	require.Len(t, notifier.calls, 1)
	require.Equal(t, "Mei", notifier.calls[0].Name)
}

func TestNotifyingAdapterNotifiesOnBookingFailure(t *testing.T) {
	notifier := &mockNotifier{}
	adapter := NewNotifyingAdapter(&stubAdapter{err: errors.New("backend down")}, notifier, nil)

	_, err := adapter.Schedule(context.Background(), sampleLead())
	require.Error(t, err)
	require.Len(t, notifier.calls, 1, "merchant still gets the lead for manual follow-up")
}

func TestNotifyingAdapterSwallowsNotificationFailure(t *testing.T) {
	notifier := &mockNotifier{err: errors.New("smtp down")}
	adapter := NewNotifyingAdapter(&stubAdapter{result: &Result{Booked: true}}, notifier, nil)

	result, err := adapter.Schedule(context.Background(), sampleLead())
	require.NoError(t, err)
	require.True(t, result.Booked)
}

func TestNotifyingAdapterName(t *testing.T) {
	adapter := NewNotifyingAdapter(&stubAdapter{}, &mockNotifier{}, nil)
	require.Equal(t, "stub", adapter.Name())
}
