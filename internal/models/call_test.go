package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallStatusTransitions(t *testing.T) {
	assert.True(t, CallInitiated.CanTransition(CallRinging))
	assert.True(t, CallInitiated.CanTransition(CallOngoing))
	assert.True(t, CallInitiated.CanTransition(CallMissed))
	assert.True(t, CallInitiated.CanTransition(CallDeclined))
	assert.True(t, CallInitiated.CanTransition(CallFailed))
	assert.False(t, CallInitiated.CanTransition(CallEnded), "a call cannot end before it is answered")

	assert.True(t, CallRinging.CanTransition(CallOngoing))
	assert.True(t, CallRinging.CanTransition(CallMissed))
	assert.False(t, CallRinging.CanTransition(CallEnded))
	assert.False(t, CallRinging.CanTransition(CallInitiated))

	assert.True(t, CallOngoing.CanTransition(CallEnded))
	assert.False(t, CallOngoing.CanTransition(CallDeclined))
}

func TestCallStatusTerminalStatesAcceptNothing(t *testing.T) {
	terminals := []CallStatus{CallEnded, CallMissed, CallDeclined, CallFailed}
	all := []CallStatus{CallInitiated, CallRinging, CallOngoing, CallEnded, CallMissed, CallDeclined, CallFailed}
	for _, from := range terminals {
		assert.True(t, from.IsTerminal())
		for _, to := range all {
			assert.False(t, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CallInitiated.IsTerminal())
	assert.False(t, CallRinging.IsTerminal())
	assert.False(t, CallOngoing.IsTerminal())
}

func TestTransitionSources(t *testing.T) {
	assert.ElementsMatch(t, []CallStatus{CallInitiated}, TransitionSources(CallRinging))
	assert.ElementsMatch(t, []CallStatus{CallInitiated, CallRinging}, TransitionSources(CallOngoing))
	assert.ElementsMatch(t, []CallStatus{CallOngoing}, TransitionSources(CallEnded))
	assert.ElementsMatch(t, []CallStatus{CallInitiated, CallRinging}, TransitionSources(CallMissed))
	assert.Empty(t, TransitionSources(CallInitiated), "nothing transitions back into initiated")
}
