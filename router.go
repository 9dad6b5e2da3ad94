package surface

// HostEvent is an event delivered by the native host.
type HostEvent interface {
	EventType() EventType
}

// MouseEvent is the host's pointer state. The same pointer is handed to
// every mouse subscriber; Detail carries any fields the host sent beyond
// the typed ones.
type MouseEvent struct {
	X, Y    int
	Buttons uint8
	Kind    string
	Detail  map[string]any
}

// KeyboardEvent is the host's key state. The same pointer is handed to
// every keyboard subscriber.
type KeyboardEvent struct {
	Key       string
	Code      int
	Down      bool
	Modifiers KeyModifiers
	Detail    map[string]any
}

// ClickEvent is a click at a physical point.
type ClickEvent struct {
	X, Y int
}

// InteractionModeEvent turns host interaction on or off.
type InteractionModeEvent struct {
	Enabled bool
}

func (*MouseEvent) EventType() EventType { return EventMouse }

func (*KeyboardEvent) EventType() EventType { return EventKeyboard }

func (ClickEvent) EventType() EventType { return EventClick }

func (InteractionModeEvent) EventType() EventType { return EventInteractionMode }

// MouseFunc receives pointer events.
type MouseFunc func(*MouseEvent)

// KeyboardFunc receives keyboard events.
type KeyboardFunc func(*KeyboardEvent)

// Router demultiplexes host events. Mouse and keyboard events fan out to
// every subscriber in subscription order; clicks go to the hit tester and
// mode changes to the mode sink. Subscriptions cannot be removed.
type Router struct {
	mouse    []MouseFunc
	keyboard []KeyboardFunc

	click func(x, y int) bool
	mode  func(enabled bool)
}

// NewRouter returns a router forwarding clicks to click and mode changes to
// mode. Either may be nil to drop that kind.
func NewRouter(click func(x, y int) bool, mode func(enabled bool)) *Router {
	return &Router{click: click, mode: mode}
}

// SubscribeMouse appends fn to the mouse list and returns the new length.
func (r *Router) SubscribeMouse(fn MouseFunc) int {
	r.mouse = append(r.mouse, fn)
	return len(r.mouse)
}

// SubscribeKeyboard appends fn to the keyboard list and returns the new length.
func (r *Router) SubscribeKeyboard(fn KeyboardFunc) int {
	r.keyboard = append(r.keyboard, fn)
	return len(r.keyboard)
}

// Dispatch routes ev. Unknown event types and nil payloads are ignored.
func (r *Router) Dispatch(ev HostEvent) {
	switch e := ev.(type) {
	case *MouseEvent:
		if e == nil {
			return
		}
		for _, fn := range r.mouse {
			fn(e)
		}
	case *KeyboardEvent:
		if e == nil {
			return
		}
		for _, fn := range r.keyboard {
			fn(e)
		}
	case ClickEvent:
		if r.click != nil {
			r.click(e.X, e.Y)
		}
	case InteractionModeEvent:
		if r.mode != nil {
			r.mode(e.Enabled)
		}
	}
}
