package event

import (
	"testing"

	"bluescan/internal/compare"
)

func TestObserve_NewIncidentSends(t *testing.T) {
	tr := NewTracker()
	k := Key{ArtworkID: "a", TileIndex: 0}
	if got := tr.Observe(k, compare.OutcomeSuspicion); got != ActionSend {
		t.Fatalf("got %v, want ActionSend", got)
	}
	if tr.State(k) != StateSuspicion {
		t.Fatalf("expected state to be recorded as suspicion")
	}
}

func TestObserve_RepeatedSuspicionIsQuiet(t *testing.T) {
	tr := NewTracker()
	k := Key{ArtworkID: "a", TileIndex: 0}
	tr.Observe(k, compare.OutcomeSuspicion)
	if got := tr.Observe(k, compare.OutcomeSuspicion); got != ActionNone {
		t.Fatalf("got %v, want ActionNone", got)
	}
}

func TestObserve_RepeatedDegradationUpdates(t *testing.T) {
	tr := NewTracker()
	k := Key{ArtworkID: "a", TileIndex: 0}
	tr.Observe(k, compare.OutcomeDegradation)
	if got := tr.Observe(k, compare.OutcomeDegradation); got != ActionUpdate {
		t.Fatalf("got %v, want ActionUpdate", got)
	}
}

func TestObserve_EscalationUpdates(t *testing.T) {
	tr := NewTracker()
	k := Key{ArtworkID: "a", TileIndex: 0}
	tr.Observe(k, compare.OutcomeSuspicion)
	if got := tr.Observe(k, compare.OutcomeDegradation); got != ActionUpdate {
		t.Fatalf("got %v, want ActionUpdate on escalation", got)
	}
	if tr.State(k) != StateDegradation {
		t.Fatalf("expected state to escalate to degradation")
	}
}

func TestObserve_RecoveryNeitherEmitsNorClears(t *testing.T) {
	tr := NewTracker()
	k := Key{ArtworkID: "a", TileIndex: 0}
	tr.Observe(k, compare.OutcomeDegradation)
	if got := tr.Observe(k, compare.OutcomeOK); got != ActionNone {
		t.Fatalf("got %v, want ActionNone: a return to none must not emit", got)
	}
	if tr.State(k) != StateDegradation {
		t.Fatalf("expected tracker memory to stay at degradation (monotone), got %v", tr.State(k))
	}
}

func TestObserve_NeverAlertedStaysQuietOnOK(t *testing.T) {
	tr := NewTracker()
	k := Key{ArtworkID: "a", TileIndex: 0}
	if got := tr.Observe(k, compare.OutcomeOK); got != ActionNone {
		t.Fatalf("got %v, want ActionNone", got)
	}
}

func TestForget_RemovesOnlyMatchingArtwork(t *testing.T) {
	tr := NewTracker()
	a := Key{ArtworkID: "a", TileIndex: 0}
	b := Key{ArtworkID: "b", TileIndex: 0}
	tr.Observe(a, compare.OutcomeDegradation)
	tr.Observe(b, compare.OutcomeDegradation)

	tr.Forget("a")
	if tr.State(a) != StateNone {
		t.Fatalf("expected artwork a's state to be forgotten")
	}
	if tr.State(b) != StateDegradation {
		t.Fatalf("expected artwork b's state to survive")
	}
}
