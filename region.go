package surface

import (
	"errors"
	"fmt"
	"time"
)

// DefaultSettleDelay is how long a registration waits for layout to settle
// before the element is measured.
const DefaultSettleDelay = 2000 * time.Millisecond

var (
	// ErrElementNotFound means a locator resolved to nothing.
	ErrElementNotFound = errors.New("element not found")
	// ErrNoDocument means a query locator was used without a Document.
	ErrNoDocument = errors.New("no document to query")
)

// Element is an on-screen element whose layout can be measured.
type Element interface {
	// ID returns the element id, or "".
	ID() string
	// ClassName returns the element class list, or "".
	ClassName() string
	// BoundingClientRect returns the current layout box in logical pixels.
	BoundingClientRect() LogicalRect
}

// Document resolves selector queries to elements.
type Document interface {
	// QuerySelector returns the first element matching selector, or nil if
	// nothing matches. An error is returned for selectors it cannot parse.
	QuerySelector(selector string) (Element, error)
}

// elementLabel names an element for diagnostics: its id, else its class,
// else "unknown".
func elementLabel(el Element) string {
	if id := el.ID(); id != "" {
		return id
	}
	if cls := el.ClassName(); cls != "" {
		return cls
	}
	return "unknown"
}

type locatorKind uint8

const (
	locateDirect locatorKind = iota
	locateQuery
)

// Locator identifies the element a region covers: either a direct element
// reference or a selector query resolved against the bridge's Document.
type Locator struct {
	kind  locatorKind
	el    Element
	query string
}

// ByElement locates an element the caller already holds.
func ByElement(el Element) Locator {
	return Locator{kind: locateDirect, el: el}
}

// ByQuery locates the first element matching selector at resolution time.
func ByQuery(selector string) Locator {
	return Locator{kind: locateQuery, query: selector}
}

// String describes the locator for logs.
func (l Locator) String() string {
	if l.kind == locateQuery {
		return l.query
	}
	if l.el == nil {
		return "<nil element>"
	}
	return elementLabel(l.el)
}

// resolve turns the locator into a live element.
func (l Locator) resolve(doc Document) (Element, error) {
	switch l.kind {
	case locateDirect:
		if l.el == nil {
			return nil, ErrElementNotFound
		}
		return l.el, nil
	case locateQuery:
		if doc == nil {
			return nil, ErrNoDocument
		}
		el, err := doc.QuerySelector(l.query)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", l.query, err)
		}
		if el == nil {
			return nil, ErrElementNotFound
		}
		return el, nil
	}
	return nil, ErrElementNotFound
}

// ClickFunc receives the physical coordinates of a click that hit a region.
type ClickFunc func(x, y int)

// Region is a registered hit-test target. Its box is measured once and
// never updated, so it goes stale if the element later moves.
type Region struct {
	// ID is the 1-based activation order, which is also hit-test priority.
	ID       int
	Locator  Locator
	Element  Element
	Box      Box
	Callback ClickFunc
}

// RegionState is the lifecycle stage of a registration.
type RegionState uint8

const (
	RegionPending RegionState = iota // waiting for layout to settle
	RegionActive                     // measured and hit-testable
	RegionFailed                     // locator did not resolve; abandoned
)

func (s RegionState) String() string {
	switch s {
	case RegionPending:
		return "pending"
	case RegionActive:
		return "active"
	case RegionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PendingRegion is the handle returned by Register. It becomes active once
// layout has settled and the element was measured.
type PendingRegion struct {
	locator Locator
	state   RegionState
	region  *Region
	err     error
}

// State returns the registration's lifecycle stage.
func (p *PendingRegion) State() RegionState {
	return p.state
}

// Region returns the active region. ok is false until the handle is active.
func (p *PendingRegion) Region() (r Region, ok bool) {
	if p.region == nil {
		return Region{}, false
	}
	return *p.region, true
}

// Err returns why the registration failed, or nil.
func (p *PendingRegion) Err() error {
	return p.err
}

// LayoutSignal reports when an element's layout is stable. Notify must call
// ready exactly once; it may do so from any goroutine.
type LayoutSignal interface {
	Notify(ready func())
}

// LayoutSignalFunc adapts a function to LayoutSignal.
type LayoutSignalFunc func(ready func())

// Notify calls f(ready).
func (f LayoutSignalFunc) Notify(ready func()) { f(ready) }

// RegisterOptions tunes a single registration. All fields are optional.
type RegisterOptions struct {
	// Debug overrides the bridge debug flag for this registration's
	// diagnostics and overlay border.
	Debug *bool
	// WaitFor replaces the settle delay: the element is measured when the
	// signal fires instead of after Config.SettleDelay.
	WaitFor LayoutSignal
}

// regionRegistry is the append-only, ordered set of active regions.
type regionRegistry struct {
	regions []*Region
}

func (r *regionRegistry) add(region *Region) {
	region.ID = len(r.regions) + 1
	r.regions = append(r.regions, region)
}

// hitTest returns the first region, in registration order, containing the
// physical point (x, y), or nil.
func (r *regionRegistry) hitTest(x, y int) *Region {
	for _, region := range r.regions {
		if region.Box.Contains(x, y) {
			return region
		}
	}
	return nil
}

func (r *regionRegistry) len() int {
	return len(r.regions)
}
