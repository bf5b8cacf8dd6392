package experiment

import (
	"testing"

	"ux-collector-be/pkg/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exp6Page(stacked bool) *layout.StaticLocator {
	box := func(i int) layout.Box {
		if stacked {
			return layout.Box{Left: 0, Top: float64(i) * 200, Width: 320, Height: 180}
		}
		return layout.Box{Left: float64(i) * 300, Top: 0, Width: 280, Height: 400}
	}
	elems := []layout.StaticElement{{Ref: Exp6Grid}}
	for i, id := range []string{"a", "b", "c"} {
		card := layout.ElementRef("card-" + id)
		elems = append(elems,
			layout.StaticElement{Ref: card, Parent: Exp6Grid, Roles: []string{RoleCard}, Box: box(i)},
			layout.StaticElement{Ref: "choose-" + layout.ElementRef(id), Parent: card, Roles: []string{RoleExp6Choose}},
			layout.StaticElement{Ref: "label-" + layout.ElementRef(id), Parent: "choose-" + layout.ElementRef(id)},
		)
	}
	return layout.NewStaticLocator(elems...)
}

func TestExp6Choose(t *testing.T) {
	t.Run("desktop row", func(t *testing.T) {
		s := NewSession()
		s.Start("exp6", "grid")

		u, ok := Exp6Choose(exp6Page(false), s, "label-c")
		require.True(t, ok)
		require.True(t, s.Apply(u))

		extra := s.Slot("exp6").Extra()
		assert.Equal(t, "x", extra["axis"])
		assert.Equal(t, 2, extra["clickedIndex"])
		assert.Equal(t, "right", extra["clickedPosNorm"])
		assert.Equal(t, "right", extra["clickedPos"])
	})

	t.Run("mobile stack keeps earlier clickedPos", func(t *testing.T) {
		s := NewSession()
		s.Start("exp6", "grid")
		s.Apply(Update{Slot: "exp6", Extra: map[string]any{"clickedPos": "left"}})

		u, ok := Exp6Choose(exp6Page(true), s, "choose-a")
		require.True(t, ok)
		s.Apply(u)

		extra := s.Slot("exp6").Extra()
		assert.Equal(t, "y", extra["axis"])
		assert.Equal(t, "top", extra["clickedPosNorm"])
		assert.Equal(t, "left", extra["clickedPos"])
	})

	t.Run("click outside a choose button", func(t *testing.T) {
		s := NewSession()
		s.Start("exp6", "grid")

		_, ok := Exp6Choose(exp6Page(false), s, "card-a")
		assert.False(t, ok)
	})

	t.Run("slot not started", func(t *testing.T) {
		_, ok := Exp6Choose(exp6Page(false), NewSession(), "label-a")
		assert.False(t, ok)
	})
}

func TestExp7Click(t *testing.T) {
	page := layout.NewStaticLocator(
		layout.StaticElement{Ref: Exp7LeftButton},
		layout.StaticElement{Ref: Exp7RightButton},
	)

	tests := []struct {
		name      string
		blackLeft bool
		target    layout.ElementRef
		wantPos   string
		wantBlack bool
	}{
		{name: "black left, click left", blackLeft: true, target: Exp7LeftButton, wantPos: "left", wantBlack: true},
		{name: "black left, click right", blackLeft: true, target: Exp7RightButton, wantPos: "right", wantBlack: false},
		{name: "black right, click right", blackLeft: false, target: Exp7RightButton, wantPos: "right", wantBlack: true},
		{name: "black right, click left", blackLeft: false, target: Exp7LeftButton, wantPos: "left", wantBlack: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			s.Start("exp7", "contrast")["blackLeft"] = tt.blackLeft

			u, ok := Exp7Click(page, s, tt.target)
			require.True(t, ok)

			assert.Equal(t, tt.wantPos, u.Extra["clickedPos"])
			assert.Equal(t, tt.wantBlack, u.Extra["blackClicked"])
			assert.Equal(t, tt.blackLeft, u.Extra["blackLeft"])
		})
	}

	t.Run("other target ignored", func(t *testing.T) {
		s := NewSession()
		s.Start("exp7", "contrast")
		_, ok := Exp7Click(page, s, "somewhere")
		assert.False(t, ok)
	})
}

func TestExp5Next(t *testing.T) {
	t.Run("matches exp4 default", func(t *testing.T) {
		s := NewSession()
		s.Start("exp4", "default")
		s.Apply(Update{Slot: "exp4", Extra: map[string]any{"defaultOption": "standard"}})
		s.Start("exp5", "pref")

		u, ok := Exp5Next(s, Exp5NextButton, "standard")
		require.True(t, ok)
		s.Apply(u)

		st := s.Slot("exp5")
		sel, _ := st.Selected()
		assert.Equal(t, "standard", sel)
		assert.Equal(t, "standard", st.Extra()["defaultFromExp4"])
		assert.Equal(t, true, st.Extra()["prefMatchesDefault"])
	})

	t.Run("selectedOption wins over defaultOption", func(t *testing.T) {
		s := NewSession()
		s.Start("exp4", "default")
		s.Apply(Update{Slot: "exp4", Extra: map[string]any{"defaultOption": "standard", "selectedOption": "express"}})
		s.Start("exp5", "pref")

		u, _ := Exp5Next(s, Exp5NextButton, "standard")

		assert.Equal(t, "express", u.Extra["defaultFromExp4"])
		assert.Equal(t, false, u.Extra["prefMatchesDefault"])
	})

	t.Run("falls back to previous selection, no exp4", func(t *testing.T) {
		s := NewSession()
		s.Start("exp5", "pref")["selected"] = "pickup"

		u, ok := Exp5Next(s, Exp5NextButton, "")
		require.True(t, ok)

		assert.Equal(t, "pickup", u.Fields["selected"])
		assert.Nil(t, u.Extra["defaultFromExp4"])
		assert.Nil(t, u.Extra["prefMatchesDefault"])
	})

	t.Run("wrong target", func(t *testing.T) {
		s := NewSession()
		s.Start("exp5", "pref")
		_, ok := Exp5Next(s, "exp5-back", "x")
		assert.False(t, ok)
	})
}

func TestSession_ApplyUnknownSlot(t *testing.T) {
	s := NewSession()

	assert.False(t, s.Apply(Update{Slot: "exp3", Fields: map[string]any{"selected": "x"}}))
	assert.Nil(t, s.Slot("exp3"))
}

func TestSession_StateFeedsBuilder(t *testing.T) {
	s := NewSession()
	s.Start("exp1", "A")
	s.Start("exp5", "pref")
	s.SetSurvey("condition", "c1")

	p := desktopBuilder().Build(s.State())

	assert.Equal(t, []string{"exp1", "exp5", "meta", "survey"}, p.Keys())
	assert.Equal(t, "c1", p.Survey["condition"])
}
