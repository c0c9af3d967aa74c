package intent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		message string
		primary Intent
		also    []Intent
	}{
		{"greeting only", "Hi there!", Greeting, nil},
		{"pricing", "how much do you charge for a full reno?", Pricing, nil},
		{"portfolio", "can i see your past projects?", Portfolio, nil},
		{"consultation", "can we schedule a site visit?", Consultation, nil},
		{"malay pricing", "berapa for a 3 bedroom condo?", Pricing, nil},
		{"generic fallback", "my condo is in Bangsar", Generic, nil},
		{"empty", "   ", Generic, nil},
		{"portfolio beats pricing", "show me examples and how much it costs", Portfolio, []Intent{Pricing}},
		{"greeting plus pricing", "Hello! What are your rates?", Pricing, []Intent{Greeting}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := c.Classify(tc.message)
			require.Equal(t, tc.primary, res.Primary())
			for _, in := range tc.also {
				require.True(t, res.Has(in), "expected intent %s", in)
			}
		})
	}
}

func TestClassifyOrderIsStable(t *testing.T) {
	c := NewClassifier()

	res := c.Classify("hi, show me your portfolio, how much does it cost, and can we book a consultation?")
	require.Equal(t, []Intent{Portfolio, Pricing, Consultation, Greeting}, res.Intents)
}

func TestResultGenericWhenEmpty(t *testing.T) {
	require.Equal(t, Generic, Result{}.Primary())
	require.False(t, Result{}.Has(Pricing))
}
