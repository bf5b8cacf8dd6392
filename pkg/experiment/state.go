package experiment

import "fmt"

// SlotCount is the number of experiment slots a page can carry.
const SlotCount = 16

// SlotNames is the fixed whitelist exp1..exp16.
var SlotNames = func() []string {
	names := make([]string, SlotCount)
	for i := range names {
		names[i] = fmt.Sprintf("exp%d", i+1)
	}
	return names
}()

var slotSet = func() map[string]struct{} {
	set := make(map[string]struct{}, SlotCount)
	for _, n := range SlotNames {
		set[n] = struct{}{}
	}
	return set
}()

// IsSlot reports whether key is one of the whitelisted experiment slots.
func IsSlot(key string) bool {
	_, ok := slotSet[key]
	return ok
}

// ExperimentState is the open record of one slot. Known fields are "variant", "selected" and
// "extra"; experiment-specific handlers may add their own.
type ExperimentState map[string]any

func (s ExperimentState) Variant() string {
	v, _ := s["variant"].(string)
	return v
}

func (s ExperimentState) Selected() (string, bool) {
	v, ok := s["selected"].(string)
	return v, ok && v != ""
}

// Extra returns the slot's extra map, or nil.
func (s ExperimentState) Extra() map[string]any {
	switch e := s["extra"].(type) {
	case map[string]any:
		return e
	case ExperimentState:
		return e
	}
	return nil
}

// Update is a partial change to one slot returned by an interaction handler.
type Update struct {
	Slot   string
	Fields map[string]any
	Extra  map[string]any
}

// Session owns the experiment state of one page visit.
type Session struct {
	slots  map[string]ExperimentState
	survey map[string]any
}

func NewSession() *Session {
	return &Session{
		slots:  make(map[string]ExperimentState),
		survey: make(map[string]any),
	}
}

// Start registers a slot with its assigned variant. Starting an existing slot keeps its state.
func (s *Session) Start(slot, variant string) ExperimentState {
	if st, ok := s.slots[slot]; ok {
		return st
	}
	st := ExperimentState{"variant": variant, "extra": map[string]any{}}
	s.slots[slot] = st
	return st
}

// Slot returns the live state of a slot, or nil when it was never started.
func (s *Session) Slot(slot string) ExperimentState {
	return s.slots[slot]
}

// Apply merges an update into its slot. Updates for slots that were never started are ignored.
func (s *Session) Apply(u Update) bool {
	st, ok := s.slots[u.Slot]
	if !ok {
		return false
	}
	for k, v := range u.Fields {
		st[k] = v
	}
	if len(u.Extra) > 0 {
		merged := make(map[string]any, len(u.Extra))
		for k, v := range st.Extra() {
			merged[k] = v
		}
		for k, v := range u.Extra {
			merged[k] = v
		}
		st["extra"] = merged
	}
	return true
}

func (s *Session) SetSurvey(key string, value any) {
	s.survey[key] = value
}

// State exposes the session as the loose top-level mapping the payload builder consumes.
// Values are live; Build takes the snapshot.
func (s *Session) State() map[string]any {
	out := make(map[string]any, len(s.slots)+1)
	for k, v := range s.slots {
		out[k] = v
	}
	out["survey"] = s.survey
	return out
}
