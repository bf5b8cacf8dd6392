package layout

// ElementLocator finds elements on the page so handlers never touch the DOM directly.
type ElementLocator interface {
	Measurer
	// Children returns the direct children of a container in document order.
	Children(container ElementRef) []ElementRef
	// Closest returns the nearest ancestor of ref (ref included) carrying role.
	Closest(ref ElementRef, role string) (ElementRef, bool)
	// Exists reports whether an element with this ref is on the page.
	Exists(ref ElementRef) bool
}

// StaticElement is one node of a StaticLocator page.
type StaticElement struct {
	Ref    ElementRef
	Parent ElementRef
	Roles  []string
	Box    Box
}

// StaticLocator serves a fixed, synthetic page. Used by tests and the simulation tool.
type StaticLocator struct {
	byRef    map[ElementRef]StaticElement
	children map[ElementRef][]ElementRef
}

func NewStaticLocator(elements ...StaticElement) *StaticLocator {
	l := &StaticLocator{
		byRef:    make(map[ElementRef]StaticElement, len(elements)),
		children: make(map[ElementRef][]ElementRef),
	}
	for _, e := range elements {
		l.byRef[e.Ref] = e
		if e.Parent != "" {
			l.children[e.Parent] = append(l.children[e.Parent], e.Ref)
		}
	}
	return l
}

func (l *StaticLocator) Measure(ref ElementRef) Box {
	return l.byRef[ref].Box
}

func (l *StaticLocator) Children(container ElementRef) []ElementRef {
	out := make([]ElementRef, len(l.children[container]))
	copy(out, l.children[container])
	return out
}

func (l *StaticLocator) Closest(ref ElementRef, role string) (ElementRef, bool) {
	for cur, ok := l.byRef[ref]; ok; cur, ok = l.byRef[cur.Parent] {
		for _, r := range cur.Roles {
			if r == role {
				return cur.Ref, true
			}
		}
	}
	return "", false
}

func (l *StaticLocator) Exists(ref ElementRef) bool {
	_, ok := l.byRef[ref]
	return ok
}
