package experiment

import (
	"encoding/json"
	"sort"
	"time"

	"ux-collector-be/pkg/layout"
)

// Payload is the canonical outbound record. On the wire it is flat:
// {"meta": ..., "exp1": ..., ..., "survey": ...}.
type Payload struct {
	Meta   EnvironmentMeta
	Slots  map[string]ExperimentState
	Survey map[string]any
}

// Keys lists the top-level keys the payload serializes to, sorted.
func (p Payload) Keys() []string {
	keys := []string{"meta", "survey"}
	for k := range p.Slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Condition is the label token a payload is filed under: exp1's variant, else survey.condition.
func (p Payload) Condition() string {
	if v := p.Slots["exp1"].Variant(); v != "" {
		return v
	}
	if c, ok := p.Survey["condition"].(string); ok {
		return c
	}
	return ""
}

func (p Payload) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Slots)+2)
	for k, v := range p.Slots {
		if IsSlot(k) {
			out[k] = v
		}
	}
	out["meta"] = p.Meta
	survey := p.Survey
	if survey == nil {
		survey = map[string]any{}
	}
	out["survey"] = survey
	return json.Marshal(out)
}

// UnmarshalJSON reads a flat payload. Non-whitelisted keys are ignored, and so are slots whose
// value is not a JSON object.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Payload{Slots: make(map[string]ExperimentState)}
	for k, v := range raw {
		switch {
		case k == "meta":
			// Meta from older clients may be partial or use other field names.
			_ = json.Unmarshal(v, &p.Meta)
		case k == "survey":
			var survey map[string]any
			if err := json.Unmarshal(v, &survey); err == nil {
				p.Survey = survey
			}
		case IsSlot(k):
			var st ExperimentState
			if err := json.Unmarshal(v, &st); err == nil && st != nil {
				p.Slots[k] = st
			}
		}
	}
	return nil
}

// Builder turns live session state into a Payload.
type Builder struct {
	Device func() DeviceDescriptor
	Now    func() time.Time
}

func NewBuilder(device func() DeviceDescriptor) *Builder {
	return &Builder{Device: device, Now: time.Now}
}

// Build snapshots state into a canonical payload. Only whitelisted slots holding a JSON-encodable
// object survive; the result shares no maps or slices with state.
func (b *Builder) Build(state map[string]any) Payload {
	var device DeviceDescriptor
	if b.Device != nil {
		device = b.Device()
	}
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	meta := NewEnvironmentMeta(device, now())
	tokens := layout.TokenNormalizer{DefaultAxis: layout.DefaultAxisFor(meta.IsMobile)}

	slots := make(map[string]ExperimentState)
	for k, v := range state {
		if !IsSlot(k) {
			continue
		}
		st, ok := asObject(v)
		if !ok {
			continue
		}
		snap, err := snapshot(st)
		if err != nil {
			// Not serializable, so it could never be stored.
			continue
		}
		normalizeReason(snap, tokens)
		slots[k] = ExperimentState(snap)
	}

	survey := map[string]any{}
	if s, ok := asObject(state["survey"]); ok {
		if snap, err := snapshot(s); err == nil {
			survey = snap
		}
	}

	return Payload{Meta: meta, Slots: slots, Survey: survey}
}

func normalizeReason(st ExperimentState, tokens layout.TokenNormalizer) {
	extra := st.Extra()
	if extra == nil {
		return
	}
	reason, ok := extra["reason"].(string)
	if !ok {
		return
	}
	hint := axisOf(extra["axis"])
	norm := tokens.Normalize(&reason, hint)
	extra["reason"] = *norm
	extra["reasonNorm"] = *norm
	extra["posLabelSet"] = layout.LabelSet(tokens.EffectiveAxis(hint))
}

func axisOf(v any) layout.Axis {
	switch a := v.(type) {
	case string:
		return layout.Axis(a)
	case layout.Axis:
		return a
	}
	return layout.AxisNone
}

func asObject(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case ExperimentState:
		return o, o != nil
	case *ExperimentState:
		if o == nil || *o == nil {
			return nil, false
		}
		return *o, true
	case map[string]any:
		return o, o != nil
	}
	return nil, false
}

// snapshot copies an object through its JSON form, so the copy shares nothing with m whatever
// collection types it nests. Numbers come back as float64, as they would from the wire.
func snapshot(m map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
