package surface

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Bridge, every routed host event is forwarded to it.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries routed host events for the ECS bridge.
type InteractionEvent struct {
	Type EventType
	// X and Y are physical coordinates (click and mouse events).
	X, Y int
	// RegionID is the region a click hit, or 0 for a miss.
	RegionID int
	// Key fields (valid for EventKeyboard)
	Key  string
	Down bool
	// Enabled is the new interaction mode (valid for EventInteractionMode).
	Enabled bool
}

// Bridge is the context object that owns all bridge state: the region
// registry, subscriber lists, mode flags, diagnostics and the cooperative
// loop. Independent bridges share nothing.
//
// Apart from Deliver, DeliverMessage and Run, methods must be called from
// the goroutine that drives the loop (the one calling Update).
type Bridge struct {
	transform Transformer
	screen    ScreenInfo
	doc       Document
	settle    time.Duration

	loop     *Loop
	regions  regionRegistry
	router   *Router
	diag     *Diagnostics
	outbound *Outbound
	overlay  *Overlay
	hud      *ebiten.Image
	store    EntityStore
	log      *zap.Logger

	interaction bool
	lastUpdate  time.Time
}

// New creates a bridge. The scale factor and screen size are captured here
// and never re-read.
func New(cfg Config) *Bridge {
	cfg = cfg.withDefaults()
	log := cfg.Logger.Named("surface")
	t := NewTransformer(cfg.Scale)

	b := &Bridge{
		transform: t,
		screen: ScreenInfo{
			Width:  roundPixel(float64(cfg.ScreenWidth) * t.Scale()),
			Height: roundPixel(float64(cfg.ScreenHeight) * t.Scale()),
		},
		doc:     cfg.Document,
		settle:  cfg.SettleDelay,
		loop:    NewLoop(cfg.Clock),
		overlay: newOverlay(t),
		log:     log,
	}
	b.diag = newDiagnostics(log)
	b.router = NewRouter(b.HandleClick, b.setInteraction)
	b.outbound = newOutbound(cfg.Host, cfg.Navigator, b.diag, log.Named("outbound"))
	b.lastUpdate = b.loop.Now()

	log.Info("surface bridge started",
		zap.String("version", Version),
		zap.String("screen", fmt.Sprintf("%dx%d", b.screen.Width, b.screen.Height)),
		zap.Float64("scale", t.Scale()),
	)
	if cfg.Debug {
		b.diag.enableFrom("config")
	}
	b.diag.enableFromURL(cfg.StartURL)
	return b
}

// Scale returns the physical-per-logical pixel ratio captured at startup.
func (b *Bridge) Scale() float64 { return b.transform.Scale() }

// Transformer returns the bridge's coordinate transformer.
func (b *Bridge) Transformer() Transformer { return b.transform }

// Screen returns the display size in physical pixels.
func (b *Bridge) Screen() ScreenInfo { return b.screen }

// InteractionEnabled reports the host's last interaction mode.
func (b *Bridge) InteractionEnabled() bool { return b.interaction }

// DebugEnabled reports whether debug mode is on.
func (b *Bridge) DebugEnabled() bool { return b.diag.Enabled() }

// EnableDebug turns debug mode on for the rest of the bridge's life.
func (b *Bridge) EnableDebug() { b.diag.Enable() }

// Diagnostics returns the bridge's debug-gated logger.
func (b *Bridge) Diagnostics() *Diagnostics { return b.diag }

// Overlay returns the debug overlay. Draw it on top of the content.
func (b *Bridge) Overlay() *Overlay { return b.overlay }

// Loop returns the bridge's cooperative loop.
func (b *Bridge) Loop() *Loop { return b.loop }

// SetEntityStore sets the optional ECS bridge.
func (b *Bridge) SetEntityStore(store EntityStore) {
	b.store = store
}

// Regions returns a copy of the active regions in hit-test order.
func (b *Bridge) Regions() []Region {
	out := make([]Region, len(b.regions.regions))
	for i, r := range b.regions.regions {
		out[i] = *r
	}
	return out
}

// Register schedules a click region over the element loc identifies. The
// element is resolved and measured only after layout settles, either once
// Config.SettleDelay has elapsed or when opts.WaitFor fires. Until then the
// region is not hit-testable. A locator that does not resolve abandons the
// registration with a warning; nothing is returned to the caller besides
// the handle.
func (b *Bridge) Register(loc Locator, cb ClickFunc, opts *RegisterOptions) *PendingRegion {
	var o RegisterOptions
	if opts != nil {
		o = *opts
	}
	p := &PendingRegion{locator: loc}
	activate := func() { b.activate(p, cb, o) }

	if o.WaitFor != nil {
		var once sync.Once
		o.WaitFor.Notify(func() {
			once.Do(func() { b.loop.Post(activate) })
		})
	} else {
		b.loop.AfterFunc(b.settle, activate)
	}
	return p
}

// OnClick registers a click region over the first element matching selector.
func (b *Bridge) OnClick(selector string, cb ClickFunc, opts *RegisterOptions) *PendingRegion {
	return b.Register(ByQuery(selector), cb, opts)
}

// activate resolves and measures a pending registration. Runs on the loop.
func (b *Bridge) activate(p *PendingRegion, cb ClickFunc, opts RegisterOptions) {
	el, err := p.locator.resolve(b.doc)
	if err != nil {
		p.state = RegionFailed
		p.err = err
		b.diag.Warn("element not found", zap.Stringer("locator", p.locator), zap.Error(err))
		return
	}

	box := b.transform.BoxToPhysical(el.BoundingClientRect())
	r := &Region{Locator: p.locator, Element: el, Box: box, Callback: cb}
	b.regions.add(r)
	p.region = r
	p.state = RegionActive

	show := b.diag.Enabled()
	if opts.Debug != nil {
		show = *opts.Debug
	}
	if !show {
		return
	}
	logical := b.transform.BoxToLogical(box)
	b.log.Info("click handler registered",
		zap.Int("region", r.ID),
		zap.String("element", elementLabel(el)),
		zap.Ints("physical", []int{box.Left, box.Top, box.Right, box.Bottom}),
		zap.String("size", fmt.Sprintf("%dx%d", box.Width, box.Height)),
		zap.Float64s("logical", []float64{logical.Left, logical.Top, logical.Width, logical.Height}),
	)
	b.overlay.add(r.ID, box)
}

// SubscribeMouse adds fn to the pointer subscribers.
func (b *Bridge) SubscribeMouse(fn MouseFunc) {
	n := b.router.SubscribeMouse(fn)
	b.diag.Log("mouse callback registered", false, zap.Int("total", n))
}

// SubscribeKeyboard adds fn to the keyboard subscribers.
func (b *Bridge) SubscribeKeyboard(fn KeyboardFunc) {
	n := b.router.SubscribeKeyboard(fn)
	b.diag.Log("keyboard callback registered", false, zap.Int("total", n))
}

// SendReady tells the host the content is ready.
func (b *Bridge) SendReady(name string) { b.outbound.SendReady(name) }

// RequestOpenURL asks the host to open url, or opens it locally.
func (b *Bridge) RequestOpenURL(url string) { b.outbound.RequestOpenURL(url) }

// Deliver queues a host event for routing on the loop. Safe for concurrent use.
func (b *Bridge) Deliver(ev HostEvent) {
	if ev == nil {
		return
	}
	b.loop.Post(func() { b.dispatch(ev) })
}

// DeliverMessage decodes a JSON host event and queues it.
func (b *Bridge) DeliverMessage(data []byte) error {
	ev, err := DecodeHostEvent(data)
	if err != nil {
		return err
	}
	b.Deliver(ev)
	return nil
}

// Update runs every task that is ready (host events, settled
// registrations) and advances the overlay. Call it once per frame.
func (b *Bridge) Update() {
	b.loop.RunPending()

	now := b.loop.Now()
	dt := now.Sub(b.lastUpdate).Seconds()
	b.lastUpdate = now
	if dt > 0 {
		b.overlay.Update(float32(dt))
	}
}

// Run drives the bridge without a frame loop: events from the channel are
// delivered and tasks run as they become ready, until ctx is done.
func (b *Bridge) Run(ctx context.Context, events <-chan HostEvent) error {
	if events != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-events:
					if !ok {
						return
					}
					b.Deliver(ev)
				}
			}
		}()
	}
	return b.loop.Run(ctx)
}

// dispatch routes one host event and mirrors it to the entity store.
func (b *Bridge) dispatch(ev HostEvent) {
	b.router.Dispatch(ev)

	switch e := ev.(type) {
	case *MouseEvent:
		if e != nil {
			b.emit(InteractionEvent{Type: EventMouse, X: e.X, Y: e.Y})
		}
	case *KeyboardEvent:
		if e != nil {
			b.emit(InteractionEvent{Type: EventKeyboard, Key: e.Key, Down: e.Down})
		}
	case InteractionModeEvent:
		b.emit(InteractionEvent{Type: EventInteractionMode, Enabled: e.Enabled})
	}
}

func (b *Bridge) setInteraction(enabled bool) {
	b.interaction = enabled
	state := "off"
	if enabled {
		state = "on"
	}
	b.diag.Log("interaction mode "+state, true)
}

func (b *Bridge) emit(ev InteractionEvent) {
	if b.store == nil {
		return
	}
	b.store.EmitEvent(ev)
}
