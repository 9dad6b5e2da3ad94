package script

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/phanxgames/surface"
)

const page = `<html><body>
<div id="play" class="button" style="left: 10px; top: 10px; width: 50px; height: 20px"></div>
</body></html>`

type harness struct {
	bridge *surface.Bridge
	clock  *surface.ManualClock
	rt     *Runtime
	logs   *observer.ObservedLogs
	posted []surface.Message
	opened []string
}

func newHarness(t *testing.T, withHost bool) *harness {
	t.Helper()
	doc, err := surface.ParseHTML(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	h := &harness{clock: surface.NewManualClock(time.Unix(0, 0)), logs: logs}
	cfg := surface.Config{
		Scale:        2,
		ScreenWidth:  960,
		ScreenHeight: 540,
		Document:     doc,
		Logger:       logger,
		Clock:        h.clock,
		Navigator:    surface.NavigatorFunc(func(u string) error { h.opened = append(h.opened, u); return nil }),
	}
	if withHost {
		cfg.Host = surface.ChannelFunc(func(m surface.Message) error { h.posted = append(h.posted, m); return nil })
	}
	h.bridge = surface.New(cfg)
	h.rt, err = New(h.bridge, logger)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func (h *harness) run(t *testing.T, src string) {
	t.Helper()
	if _, err := h.rt.RunString(src); err != nil {
		t.Fatal(err)
	}
}

func (h *harness) eval(t *testing.T, expr string) any {
	t.Helper()
	v, err := h.rt.RunString(expr)
	if err != nil {
		t.Fatal(err)
	}
	return v.Export()
}

func TestGlobalProperties(t *testing.T) {
	h := newHarness(t, false)
	tests := []struct {
		expr string
		want any
	}{
		{"surface.version", surface.Version},
		{"surface.dpiScale === 2", true},
		{"surface.screenWidth === 1920", true},
		{"surface.screenHeight === 1080", true},
		{"surface.interactionEnabled", false},
		{"typeof surface.onClick", "function"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := h.eval(t, tt.expr); got != tt.want {
				t.Errorf("%s = %#v, want %#v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestInteractionEnabledIsLive(t *testing.T) {
	h := newHarness(t, false)
	h.bridge.InjectInteractionMode(true)
	h.bridge.Update()
	if got := h.eval(t, "surface.interactionEnabled"); got != true {
		t.Errorf("interactionEnabled = %v", got)
	}
	// Read-only: assignment is ignored.
	h.run(t, "surface.interactionEnabled = false")
	if got := h.eval(t, "surface.interactionEnabled"); got != true {
		t.Errorf("interactionEnabled after assignment = %v", got)
	}
}

func TestOnClickSelector(t *testing.T) {
	h := newHarness(t, false)
	h.run(t, `
		var clicks = [];
		surface.onClick("#play", function (x, y) { clicks.push(x + "," + y); });
	`)
	h.clock.Advance(surface.DefaultSettleDelay)
	h.bridge.Update()

	h.bridge.InjectClick(25, 25)
	h.bridge.InjectClick(0, 0)
	h.bridge.Update()

	if got := h.eval(t, `clicks.join(";")`); got != "25,25" {
		t.Errorf("clicks = %v", got)
	}
}

func TestOnClickGoElement(t *testing.T) {
	h := newHarness(t, false)
	doc, _ := surface.ParseHTML(strings.NewReader(page))
	el, err := doc.QuerySelector("#play")
	if err != nil || el == nil {
		t.Fatal(el, err)
	}
	if err := h.rt.VM().Set("playButton", el); err != nil {
		t.Fatal(err)
	}
	h.run(t, `var hit = 0; surface.onClick(playButton, function () { hit++; });`)
	h.clock.Advance(surface.DefaultSettleDelay)
	h.bridge.Update()

	h.bridge.InjectClick(30, 30)
	h.bridge.Update()
	if got := h.eval(t, "hit === 1"); got != true {
		t.Errorf("hit = %v", got)
	}
}

func TestOnClickDebugOption(t *testing.T) {
	h := newHarness(t, false)
	h.run(t, `surface.onClick("#play", function () {}, {debug: true});`)
	h.clock.Advance(surface.DefaultSettleDelay)
	h.bridge.Update()

	if h.logs.FilterMessage("click handler registered").Len() != 1 {
		t.Error("debug option did not log the registration")
	}
	if h.bridge.Overlay().Len() != 1 {
		t.Error("debug option did not outline the region")
	}
}

func TestOnClickRequiresFunction(t *testing.T) {
	h := newHarness(t, false)
	if _, err := h.rt.RunString(`surface.onClick("#play", 42)`); err == nil {
		t.Error("expected TypeError")
	}
}

func TestCallbackExceptionIsContained(t *testing.T) {
	h := newHarness(t, false)
	h.run(t, `
		var second = 0;
		surface.onMouse(function () { throw new Error("boom"); });
		surface.onMouse(function () { second++; });
	`)
	h.bridge.InjectMouse(1, 1, 0)
	h.bridge.Update()

	if got := h.eval(t, "second === 1"); got != true {
		t.Errorf("second subscriber calls = %v", got)
	}
	if h.logs.FilterMessage("script callback failed").Len() != 1 {
		t.Error("expected the exception to be logged")
	}
}

func TestOnMouseSameObjectForAllSubscribers(t *testing.T) {
	h := newHarness(t, false)
	h.run(t, `
		var a, b;
		surface.onMouse(function (ev) { a = ev; });
		surface.onMouse(function (ev) { b = ev; });
	`)
	ev := &surface.MouseEvent{X: 4, Y: 5, Buttons: 1, Kind: "down", Detail: map[string]any{"wheel": 2.0}}
	h.bridge.Deliver(ev)
	h.bridge.Update()

	if got := h.eval(t, "a === b"); got != true {
		t.Error("subscribers received different objects")
	}
	if got := h.eval(t, `a.x + "," + a.y + "," + a.buttons + "," + a.kind + "," + a.wheel`); got != "4,5,1,down,2" {
		t.Errorf("event = %v", got)
	}
}

func TestOnMouseReusedEventIsReconverted(t *testing.T) {
	h := newHarness(t, false)
	h.run(t, `
		var xs = [];
		surface.onMouse(function (ev) { xs.push(ev.x); });
	`)
	ev := &surface.MouseEvent{X: 1}
	h.bridge.Deliver(ev)
	h.bridge.Update()
	ev.X = 2
	h.bridge.Deliver(ev)
	h.bridge.Update()

	if got := h.eval(t, `xs.join(",")`); got != "1,2" {
		t.Errorf("xs = %v, want 1,2", got)
	}
}

func TestOnKeyboardReusedEventIsReconverted(t *testing.T) {
	h := newHarness(t, false)
	h.run(t, `
		var keys = [];
		surface.onKeyboard(function (ev) { keys.push(ev.key); });
		surface.onKeyboard(function (ev) { keys.push(ev.key); });
	`)
	ev := &surface.KeyboardEvent{Key: "a", Down: true}
	h.bridge.Deliver(ev)
	h.bridge.Update()
	ev.Key = "b"
	h.bridge.Deliver(ev)
	h.bridge.Update()

	if got := h.eval(t, `keys.join(",")`); got != "a,a,b,b" {
		t.Errorf("keys = %v, want a,a,b,b", got)
	}
}

func TestOnKeyboard(t *testing.T) {
	h := newHarness(t, false)
	h.run(t, `
		var keys = [];
		surface.onKeyboard(function (ev) { keys.push(ev.key + (ev.down ? "+" : "-") + (ev.shiftKey ? "S" : "")); });
	`)
	h.bridge.InjectKey("a", true, surface.ModShift)
	h.bridge.InjectKey("a", false, 0)
	h.bridge.Update()

	if got := h.eval(t, `keys.join(" ")`); got != "a+S a-" {
		t.Errorf("keys = %v", got)
	}
}

func TestOutboundFromScript(t *testing.T) {
	h := newHarness(t, true)
	h.run(t, `surface.ready("aurora"); surface.openURL("https://example.com/");`)

	want := []surface.Message{
		{Type: surface.MessageReady, Name: "aurora"},
		{Type: surface.MessageOpenURL, URL: "https://example.com/"},
	}
	if len(h.posted) != len(want) {
		t.Fatalf("posted = %+v", h.posted)
	}
	for i := range want {
		if h.posted[i] != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, h.posted[i], want[i])
		}
	}
	if len(h.opened) != 0 {
		t.Errorf("opened locally: %v", h.opened)
	}
}

func TestOpenURLFallback(t *testing.T) {
	h := newHarness(t, false)
	h.run(t, `surface.openURL("https://example.com/docs");`)
	if len(h.opened) != 1 || h.opened[0] != "https://example.com/docs" {
		t.Errorf("opened = %v", h.opened)
	}
}

func TestEnableDebug(t *testing.T) {
	h := newHarness(t, false)
	h.run(t, `surface.enableDebug();`)
	if !h.bridge.DebugEnabled() {
		t.Error("debug not enabled")
	}
}

func TestConsole(t *testing.T) {
	h := newHarness(t, false)
	h.run(t, `console.log("hello", 1); console.warn("careful"); console.error("bad");`)

	if h.logs.FilterMessage("hello 1").Len() != 1 {
		t.Errorf("log entries = %v", h.logs.All())
	}
	warn := h.logs.FilterMessage("careful").All()
	if len(warn) != 1 || warn[0].Level != zap.WarnLevel {
		t.Errorf("warn entries = %v", warn)
	}
	errs := h.logs.FilterMessage("bad").All()
	if len(errs) != 1 || errs[0].Level != zap.ErrorLevel {
		t.Errorf("error entries = %v", errs)
	}
}

func TestRunStringError(t *testing.T) {
	h := newHarness(t, false)
	if _, err := h.rt.RunString("this is not javascript"); err == nil {
		t.Error("expected syntax error")
	}
}
