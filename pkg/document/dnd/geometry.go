package dnd

// Position is where a dragged block lands relative to the target.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// Rect is an axis-aligned box in page coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }
func (r Rect) Area() float64   { return r.Width * r.Height }

// Intersection returns the area shared by r and o.
func (r Rect) Intersection(o Rect) float64 {
	w := min(r.Right(), o.Right()) - max(r.Left, o.Left)
	h := min(r.Bottom(), o.Bottom()) - max(r.Top, o.Top)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IntersectionRatio returns the shared area relative to the union of r
// and o.
func (r Rect) IntersectionRatio(o Rect) float64 {
	inter := r.Intersection(o)
	if inter == 0 {
		return 0
	}
	return inter / (r.Area() + o.Area() - inter)
}

// ResolvePosition picks the half of target the pointer is over.
func ResolvePosition(pointerY float64, target Rect) Position {
	if pointerY < target.Top+target.Height/2 {
		return PositionTop
	}
	return PositionBottom
}

const (
	// collisionWidth is the width of the collision box, centered on the
	// dragged block.
	collisionWidth = 16.0
	// collisionExtend is added above and below the dragged block.
	collisionExtend = 12.0
)

// CollisionRect returns the box used for collision testing while active
// is dragged: a narrow band centered on it, taller than it by
// collisionExtend at both ends.
func CollisionRect(active Rect) Rect {
	width := min(collisionWidth, active.Width)
	return Rect{
		Left:   active.Left + (active.Width-width)/2,
		Top:    active.Top - collisionExtend,
		Width:  width,
		Height: active.Height + 2*collisionExtend,
	}
}

// Zone is one drop area: the top or bottom half of a target block.
type Zone struct {
	ID       string
	Position Position
	Rect     Rect
}

// Target is a drop candidate and its bounding box.
type Target struct {
	ID   string
	Rect Rect
}

// Zones splits every target into a top and a bottom zone.
func Zones(targets []Target) []Zone {
	result := make([]Zone, 0, 2*len(targets))
	for _, t := range targets {
		half := t.Rect.Height / 2
		result = append(result,
			Zone{ID: t.ID, Position: PositionTop, Rect: Rect{Left: t.Rect.Left, Top: t.Rect.Top, Width: t.Rect.Width, Height: half}},
			Zone{ID: t.ID, Position: PositionBottom, Rect: Rect{Left: t.Rect.Left, Top: t.Rect.Top + half, Width: t.Rect.Width, Height: t.Rect.Height - half}},
		)
	}
	return result
}

// DetectCollision returns the zone with the highest intersection ratio
// with the collision box of active. Ties go to the earlier zone.
func DetectCollision(active Rect, zones []Zone) (Zone, bool) {
	box := CollisionRect(active)
	best, bestRatio := Zone{}, 0.0
	for _, z := range zones {
		if ratio := box.IntersectionRatio(z.Rect); ratio > bestRatio {
			best, bestRatio = z, ratio
		}
	}
	return best, bestRatio > 0
}
