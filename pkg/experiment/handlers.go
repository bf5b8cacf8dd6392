package experiment

import "ux-collector-be/pkg/layout"

// Element refs and roles of the instrumented page.
const (
	Exp5NextButton  layout.ElementRef = "exp5-next"
	Exp6Grid        layout.ElementRef = "exp6-grid"
	Exp7LeftButton  layout.ElementRef = "exp7-left"
	Exp7RightButton layout.ElementRef = "exp7-right"

	RoleExp6Choose = "exp6-choose"
	RoleCard       = "card"
)

// Exp5Next handles a click on exp5's "next" button. checked is the value of the selected
// shipping-preference option, empty when none is checked.
func Exp5Next(s *Session, target layout.ElementRef, checked string) (Update, bool) {
	st := s.Slot("exp5")
	if st == nil || target != Exp5NextButton {
		return Update{}, false
	}

	var pref any
	if checked != "" {
		pref = checked
	} else if sel, ok := st.Selected(); ok {
		pref = sel
	}

	var def any
	if exp4 := s.Slot("exp4"); exp4 != nil {
		extra := exp4.Extra()
		if v, ok := extra["selectedOption"].(string); ok && v != "" {
			def = v
		} else if v, ok := extra["defaultOption"].(string); ok && v != "" {
			def = v
		}
	}

	var matches any
	if def != nil && pref != nil {
		matches = def == pref
	}

	return Update{
		Slot:   "exp5",
		Fields: map[string]any{"selected": pref},
		Extra: map[string]any{
			"defaultFromExp4":    def,
			"prefMatchesDefault": matches,
		},
	}, true
}

// Exp6Choose handles a click inside exp6's card grid and records where the chosen card sat.
func Exp6Choose(loc layout.ElementLocator, s *Session, clicked layout.ElementRef) (Update, bool) {
	st := s.Slot("exp6")
	if st == nil {
		return Update{}, false
	}
	btn, ok := loc.Closest(clicked, RoleExp6Choose)
	if !ok || !loc.Exists(Exp6Grid) {
		return Update{}, false
	}
	card, ok := loc.Closest(btn, RoleCard)
	if !ok {
		return Update{}, false
	}

	pos := layout.Normalize(loc, loc.Children(Exp6Grid), card, "")

	var axis, index, label any
	if pos.Axis != nil {
		axis = string(*pos.Axis)
	}
	if pos.ClickedIndex != nil {
		index = *pos.ClickedIndex
	}
	if pos.ClickedPosLabel != nil {
		label = *pos.ClickedPosLabel
	}
	clickedPos := label
	if prev, ok := st.Extra()["clickedPos"].(string); ok && prev != "" {
		clickedPos = prev
	}

	return Update{
		Slot: "exp6",
		Extra: map[string]any{
			"axis":           axis,
			"clickedIndex":   index,
			"clickedPosNorm": label,
			"clickedPos":     clickedPos,
		},
	}, true
}

// Exp7Click handles a click on one of exp7's two buttons, one of which is rendered black.
func Exp7Click(loc layout.ElementLocator, s *Session, target layout.ElementRef) (Update, bool) {
	st := s.Slot("exp7")
	if st == nil || !loc.Exists(Exp7LeftButton) || !loc.Exists(Exp7RightButton) {
		return Update{}, false
	}
	if target != Exp7LeftButton && target != Exp7RightButton {
		return Update{}, false
	}

	blackLeft, _ := st["blackLeft"].(bool)
	clickedPos := "right"
	if target == Exp7LeftButton {
		clickedPos = "left"
	}
	blackClicked := (blackLeft && clickedPos == "left") || (!blackLeft && clickedPos == "right")

	return Update{
		Slot: "exp7",
		Extra: map[string]any{
			"blackLeft":    blackLeft,
			"clickedPos":   clickedPos,
			"blackClicked": blackClicked,
		},
	}, true
}
