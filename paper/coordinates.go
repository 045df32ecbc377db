package paper

// Bounds is the client rectangle of the element receiving events
type Bounds struct {
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	ClientLeft float64 `json:"clientLeft"`
	ClientTop  float64 `json:"clientTop"`
}

type Touch struct {
	ClientX float64 `json:"clientX"`
	ClientY float64 `json:"clientY"`
}

// PointerEvent is a pointer or touch event in client coordinates
type PointerEvent struct {
	PointerID int     `json:"pointerId"`
	ClientX   float64 `json:"clientX"`
	ClientY   float64 `json:"clientY"`
	TimeStamp int64   `json:"timeStamp"`
	// ChangedTouches is set for touch events
	ChangedTouches []Touch `json:"changedTouches,omitempty"`
}

type Coordinate struct {
	X float64
	Y float64
	T int64
}

// Coordinates converts an event to element relative coordinates. Touch
// events use their first changed touch.
func Coordinates(e PointerEvent, b Bounds) Coordinate {
	x, y := e.ClientX, e.ClientY
	if len(e.ChangedTouches) > 0 {
		x, y = e.ChangedTouches[0].ClientX, e.ChangedTouches[0].ClientY
	}
	return Coordinate{
		X: x - b.Left - b.ClientLeft,
		Y: y - b.Top - b.ClientTop,
		T: e.TimeStamp,
	}
}
