package alert

import (
	"testing"

	"github.com/rs/zerolog"

	"bluescan/internal/event"
)

func TestDispatch_SendThenUpdateKeepsSameRef(t *testing.T) {
	sink := NewConsoleSink(zerolog.Nop())
	refs := NewRefs()
	key := event.Key{ArtworkID: "a", TileIndex: 2}

	if err := refs.Dispatch(sink, key, event.ActionSend, "mural", event.StateSuspicion, 4); err != nil {
		t.Fatalf("Send: %v", err)
	}
	ref, ok := refs.byKey[key]
	if !ok || ref == "" {
		t.Fatalf("expected a ref to be recorded after Send")
	}

	if err := refs.Dispatch(sink, key, event.ActionUpdate, "mural", event.StateDegradation, 9); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if refs.byKey[key] != ref {
		t.Fatalf("expected Update to keep the same ref")
	}
}

func TestDispatch_UpdateWithoutPriorSendStillSends(t *testing.T) {
	sink := NewConsoleSink(zerolog.Nop())
	refs := NewRefs()
	key := event.Key{ArtworkID: "a", TileIndex: 0}

	if err := refs.Dispatch(sink, key, event.ActionUpdate, "mural", event.StateSuspicion, 1); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if _, ok := refs.byKey[key]; !ok {
		t.Fatalf("expected a ref after falling back to Send")
	}
}

func TestDispatch_NoneIsNoop(t *testing.T) {
	sink := NewConsoleSink(zerolog.Nop())
	refs := NewRefs()
	key := event.Key{ArtworkID: "a", TileIndex: 0}
	if err := refs.Dispatch(sink, key, event.ActionNone, "mural", event.StateNone, 0); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(refs.byKey) != 0 {
		t.Fatalf("expected no ref to be recorded for ActionNone")
	}
}
