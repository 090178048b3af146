package alert

import (
	"fmt"

	"bluescan/internal/event"
)

// Refs tracks the open-incident message reference per tracked tile, so a
// recurring degradation edits the same alert instead of opening a new one
// every tick.
type Refs struct {
	byKey map[event.Key]string
}

func NewRefs() *Refs {
	return &Refs{byKey: make(map[event.Key]string)}
}

// Dispatch performs the sink call implied by an event.Action and keeps
// Refs in sync. artworkName and failing are used only to compose the
// message body.
func (r *Refs) Dispatch(sink Sink, key event.Key, action event.Action, artworkName string, state event.State, failing int) error {
	switch action {
	case event.ActionSend:
		title := fmt.Sprintf("%s: %s detected", artworkName, state)
		desc := fmt.Sprintf("tile %d: %d pixel(s) out of tolerance", key.TileIndex, failing)
		ref, err := sink.Send(title, desc, colorFor(state))
		if err != nil {
			return err
		}
		r.byKey[key] = ref
		return nil
	case event.ActionUpdate:
		ref, ok := r.byKey[key]
		if !ok {
			title := fmt.Sprintf("%s: %s detected", artworkName, state)
			desc := fmt.Sprintf("tile %d: %d pixel(s) out of tolerance", key.TileIndex, failing)
			newRef, err := sink.Send(title, desc, colorFor(state))
			if err != nil {
				return err
			}
			r.byKey[key] = newRef
			return nil
		}
		title := fmt.Sprintf("%s: %s ongoing", artworkName, state)
		desc := fmt.Sprintf("tile %d: %d pixel(s) out of tolerance", key.TileIndex, failing)
		return sink.Update(ref, title, desc, colorFor(state))
	default:
		return nil
	}
}

// ForgetArtwork drops any open refs for an artwork without notifying the
// sink, e.g. when the artwork itself is deleted and there is no longer
// anything for an alert to refer to.
func (r *Refs) ForgetArtwork(artworkID string) {
	for k := range r.byKey {
		if k.ArtworkID == artworkID {
			delete(r.byKey, k)
		}
	}
}

func colorFor(s event.State) Color {
	if s == event.StateDegradation {
		return ColorDegradation
	}
	return ColorSuspicion
}
