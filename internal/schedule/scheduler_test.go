package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leadline-ai/leadline/internal/fields"
	"github.com/leadline-ai/leadline/internal/session"
)

func TestNextFollowsPriorityOrder(t *testing.T) {
	s := New(2, 3)
	state := session.NewState("m1", "s1")
	state.TurnIndex = 1
	reg := fields.DefaultRegistry()

	spec, ok := s.Next(state, reg)
	require.True(t, ok)
	require.Equal(t, "name", spec.Key)

	state.Values["name"] = session.Value{Value: "Mei", Confidence: 0.9, Turn: 1}
	spec, ok = s.Next(state, reg)
	require.True(t, ok)
	require.Equal(t, "phone", spec.Key)
}

func TestNextDoneWhenRequiredFilled(t *testing.T) {
	s := New(2, 3)
	state := session.NewState("m1", "s1")
	reg := fields.DefaultRegistry()

	for _, spec := range reg.Required() {
		state.Values[spec.Key] = session.Value{Value: "x", Confidence: 0.9, Turn: 1}
	}

	_, ok := s.Next(state, reg)
	require.False(t, ok, "optional fields alone never schedule a question")
}

func TestNextCooldownSkipsJustAsked(t *testing.T) {
	s := New(2, 3)
	state := session.NewState("m1", "s1")
	reg := fields.DefaultRegistry()

	state.TurnIndex = 1
	spec, _ := s.Next(state, reg)
	require.Equal(t, "name", spec.Key)
	state.RecordAsk(spec.Key)

	// Next turn: name is cooling down, phone comes up instead.
	state.TurnIndex = 2
	spec, ok := s.Next(state, reg)
	require.True(t, ok)
	require.Equal(t, "phone", spec.Key)
	state.RecordAsk(spec.Key)

	// Two turns after the first ask, name is eligible again.
	state.TurnIndex = 3
	spec, ok = s.Next(state, reg)
	require.True(t, ok)
	require.Equal(t, "name", spec.Key)
}

func TestNextNeverRepeatsImmediately(t *testing.T) {
	s := New(2, 3)
	state := session.NewState("m1", "s1")
	reg := fields.DefaultRegistry()

	var lastKey string
	for turn := 1; turn <= 12; turn++ {
		state.TurnIndex = turn
		spec, ok := s.Next(state, reg)
		require.True(t, ok)
		if lastKey != "" && len(state.Missing(reg)) > 1 {
			require.NotEqual(t, lastKey, spec.Key, "turn %d asked the same field back to back", turn)
		}
		state.RecordAsk(spec.Key)
		lastKey = spec.Key
	}
}

func TestNextCapDeprioritizesButNeverExcludes(t *testing.T) {
	s := New(2, 3)
	state := session.NewState("m1", "s1")
	reg := fields.DefaultRegistry()

	// Everything but phone answered; phone already asked to the cap.
	for _, key := range []string{"name", "style", "location"} {
		state.Values[key] = session.Value{Value: "x", Confidence: 0.9, Turn: 1}
	}
	state.FieldMeta["phone"] = session.FieldMeta{AskCount: 3, LastAskedTurn: 6}
	state.TurnIndex = 9

	spec, ok := s.Next(state, reg)
	require.True(t, ok, "a capped field still schedules when it is the only one missing")
	require.Equal(t, "phone", spec.Key)
}

func TestNextCappedFieldYieldsToOthers(t *testing.T) {
	s := New(2, 3)
	state := session.NewState("m1", "s1")
	reg := fields.DefaultRegistry()

	// name capped out, style and location still open.
	state.Values["phone"] = session.Value{Value: "+60123456789", Confidence: 0.95, Turn: 1}
	state.FieldMeta["name"] = session.FieldMeta{AskCount: 3, LastAskedTurn: 5}
	state.TurnIndex = 8

	spec, ok := s.Next(state, reg)
	require.True(t, ok)
	require.Equal(t, "style", spec.Key)
}

func TestNextForwardProgressWhenAllCoolingDown(t *testing.T) {
	s := New(2, 3)
	state := session.NewState("m1", "s1")
	reg := fields.DefaultRegistry()

	// Only style and location missing, both asked last turn (cooldown not
	// elapsed): the least recently asked one is still returned.
	state.Values["name"] = session.Value{Value: "Mei", Confidence: 0.9, Turn: 1}
	state.Values["phone"] = session.Value{Value: "+60123456789", Confidence: 0.95, Turn: 1}
	state.FieldMeta["style"] = session.FieldMeta{AskCount: 1, LastAskedTurn: 3}
	state.FieldMeta["location"] = session.FieldMeta{AskCount: 1, LastAskedTurn: 4}
	state.TurnIndex = 4

	spec, ok := s.Next(state, reg)
	require.True(t, ok, "scheduler must always make progress")
	require.Equal(t, "style", spec.Key)
}
