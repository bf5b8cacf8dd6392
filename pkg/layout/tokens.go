package layout

import "regexp"

var (
	horizontalWords = regexp.MustCompile(`\b(left|Left|right|Right)\b`)
	verticalWords   = regexp.MustCompile(`\b(top|Top|bottom|Bottom)\b`)

	toVertical = map[string]string{
		"left": "top", "Left": "Top",
		"right": "bottom", "Right": "Bottom",
	}
	toHorizontal = map[string]string{
		"top": "left", "Top": "Left",
		"bottom": "right", "Bottom": "Right",
	}
)

// TokenNormalizer rewrites direction words in free text into the vocabulary of an axis.
//
// The rewrite is not an inverse of itself: text that already mixes left/right with top/bottom
// does not survive a y-then-x round trip.
type TokenNormalizer struct {
	// DefaultAxis applies when no hint is given. See DefaultAxisFor.
	DefaultAxis Axis
}

// EffectiveAxis resolves the hint against the default.
func (n TokenNormalizer) EffectiveAxis(hint Axis) Axis {
	if hint == AxisX || hint == AxisY {
		return hint
	}
	if n.DefaultAxis == AxisY {
		return AxisY
	}
	return AxisX
}

// Normalize returns text with direction words replaced for the effective axis. nil stays nil.
func (n TokenNormalizer) Normalize(text *string, hint Axis) *string {
	if text == nil {
		return nil
	}
	var out string
	if n.EffectiveAxis(hint) == AxisY {
		out = horizontalWords.ReplaceAllStringFunc(*text, func(w string) string { return toVertical[w] })
	} else {
		out = verticalWords.ReplaceAllStringFunc(*text, func(w string) string { return toHorizontal[w] })
	}
	return &out
}
