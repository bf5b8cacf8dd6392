package layout

import "sort"

// Axis is the dominant layout direction of a group of sibling elements.
type Axis string

const (
	AxisNone Axis = ""
	AxisX    Axis = "x"
	AxisY    Axis = "y"
)

// Position labels, ordered first/middle/last per axis.
var (
	labelsX = [3]string{"left", "middle", "right"}
	labelsY = [3]string{"top", "middle", "bottom"}
)

// ElementRef identifies an element on the page. Two refs are the same element iff they are equal.
type ElementRef string

// Box is an element's bounding box in viewport coordinates.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the center point of the box.
func (b Box) Center() (float64, float64) {
	return b.Left + b.Width/2, b.Top + b.Height/2
}

// ElementLayout is a measured element reduced to its center.
type ElementLayout struct {
	ID      ElementRef `json:"id"`
	CenterX float64    `json:"centerX"`
	CenterY float64    `json:"centerY"`
}

// LayoutOf measures a box into an ElementLayout.
func LayoutOf(id ElementRef, b Box) ElementLayout {
	cx, cy := b.Center()
	return ElementLayout{ID: id, CenterX: cx, CenterY: cy}
}

// Measurer returns the bounding box of an element at the moment of the call.
type Measurer interface {
	Measure(ref ElementRef) Box
}

// PositionResult is the outcome of a normalization call.
// When Count is 0 every other field is nil.
type PositionResult struct {
	Axis            *Axis   `json:"axis"`
	Count           int     `json:"count"`
	ClickedIndex    *int    `json:"clickedIndex"`
	ClickedPosLabel *string `json:"clickedPosLabel"`
	TargetIndex     *int    `json:"targetIndex"`
	TargetPosLabel  *string `json:"targetPosLabel"`
}

// Normalize measures elements and assigns axis-aware position labels.
// An empty clicked or target ref means "none".
func Normalize(m Measurer, elements []ElementRef, clicked, target ElementRef) PositionResult {
	layouts := make([]ElementLayout, 0, len(elements))
	for _, ref := range elements {
		layouts = append(layouts, LayoutOf(ref, m.Measure(ref)))
	}
	return NormalizeLayouts(layouts, clicked, target)
}

// NormalizeLayouts is Normalize over already measured layouts. The input slice is not modified.
func NormalizeLayouts(layouts []ElementLayout, clicked, target ElementRef) PositionResult {
	if len(layouts) == 0 {
		return PositionResult{}
	}

	axis := dominantAxis(layouts)

	sorted := make([]ElementLayout, len(layouts))
	copy(sorted, layouts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if axis == AxisX {
			return sorted[i].CenterX < sorted[j].CenterX
		}
		return sorted[i].CenterY < sorted[j].CenterY
	})

	res := PositionResult{Axis: &axis, Count: len(sorted)}
	res.ClickedIndex, res.ClickedPosLabel = locate(sorted, axis, clicked)
	res.TargetIndex, res.TargetPosLabel = locate(sorted, axis, target)
	return res
}

// PositionLabel returns the label for rank idx out of count elements along axis.
func PositionLabel(axis Axis, idx, count int) string {
	names := labelsX
	if axis == AxisY {
		names = labelsY
	}
	switch {
	case idx == 0:
		return names[0]
	case idx == count-1:
		return names[2]
	default:
		return names[1]
	}
}

// LabelSet names the label vocabulary in effect for axis.
func LabelSet(axis Axis) string {
	if axis == AxisY {
		return "TMB"
	}
	return "LMR"
}

// DefaultAxisFor is the device-class axis assumption: stacked on mobile, side by side on desktop.
func DefaultAxisFor(isMobile bool) Axis {
	if isMobile {
		return AxisY
	}
	return AxisX
}

func dominantAxis(layouts []ElementLayout) Axis {
	minX, maxX := layouts[0].CenterX, layouts[0].CenterX
	minY, maxY := layouts[0].CenterY, layouts[0].CenterY
	for _, l := range layouts[1:] {
		minX, maxX = min(minX, l.CenterX), max(maxX, l.CenterX)
		minY, maxY = min(minY, l.CenterY), max(maxY, l.CenterY)
	}
	if maxY-minY > maxX-minX {
		return AxisY
	}
	return AxisX
}

func locate(sorted []ElementLayout, axis Axis, ref ElementRef) (*int, *string) {
	if ref == "" {
		return nil, nil
	}
	for i, l := range sorted {
		if l.ID == ref {
			idx := i
			label := PositionLabel(axis, i, len(sorted))
			return &idx, &label
		}
	}
	return nil, nil
}
