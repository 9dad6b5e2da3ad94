package surface

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDecodeHostEvent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, ev HostEvent)
	}{
		{
			"click",
			`{"type":"click","detail":{"x":25,"y":30}}`,
			func(t *testing.T, ev HostEvent) {
				if ev != (ClickEvent{X: 25, Y: 30}) {
					t.Errorf("got %+v", ev)
				}
			},
		},
		{
			"click at origin",
			`{"type":"click","detail":{"x":0,"y":0}}`,
			func(t *testing.T, ev HostEvent) {
				if ev != (ClickEvent{}) {
					t.Errorf("got %+v", ev)
				}
			},
		},
		{
			"interaction mode",
			`{"type":"interactionMode","detail":{"enabled":true}}`,
			func(t *testing.T, ev HostEvent) {
				if ev != (InteractionModeEvent{Enabled: true}) {
					t.Errorf("got %+v", ev)
				}
			},
		},
		{
			"mouse keeps extra fields",
			`{"type":"mouse","detail":{"x":1,"y":2,"buttons":3,"kind":"down","wheel":-1}}`,
			func(t *testing.T, ev HostEvent) {
				m, ok := ev.(*MouseEvent)
				if !ok {
					t.Fatalf("got %T", ev)
				}
				if m.X != 1 || m.Y != 2 || m.Buttons != 3 || m.Kind != "down" {
					t.Errorf("got %+v", m)
				}
				if m.Detail["wheel"] != float64(-1) {
					t.Errorf("detail = %v", m.Detail)
				}
			},
		},
		{
			"keyboard modifiers",
			`{"type":"keyboard","detail":{"key":"a","code":65,"down":true,"modifiers":1,"ctrlKey":true}}`,
			func(t *testing.T, ev HostEvent) {
				k, ok := ev.(*KeyboardEvent)
				if !ok {
					t.Fatalf("got %T", ev)
				}
				if k.Key != "a" || k.Code != 65 || !k.Down {
					t.Errorf("got %+v", k)
				}
				if k.Modifiers != ModShift|ModCtrl {
					t.Errorf("modifiers = %b", k.Modifiers)
				}
			},
		},
		{
			"mouse without detail",
			`{"type":"mouse"}`,
			func(t *testing.T, ev HostEvent) {
				if m, ok := ev.(*MouseEvent); !ok || m.X != 0 || m.Detail == nil {
					t.Errorf("got %+v", ev)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeHostEvent([]byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, ev)
		})
	}
}

func TestDecodeHostEventErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `click 1 2`},
		{"unknown type", `{"type":"scroll","detail":{}}`},
		{"click missing y", `{"type":"click","detail":{"x":1}}`},
		{"click bad x", `{"type":"click","detail":{"x":"1","y":2}}`},
		{"mode missing enabled", `{"type":"interactionMode","detail":{}}`},
		{"mouse detail not object", `{"type":"mouse","detail":[1,2]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeHostEvent([]byte(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := DecodeHostEvent([]byte(`{"type":"scroll"}`))
	if !errors.Is(err, ErrUnknownEventType) {
		t.Errorf("err = %v, want ErrUnknownEventType", err)
	}
}

func TestReadHostEvents(t *testing.T) {
	logger, logs := observedLogger()
	b, clock := newTestBridge(Config{Scale: 2, Logger: logger})
	el := &fakeElement{id: "btn", rect: LogicalRect{Left: 10, Top: 10, Width: 50, Height: 20}}
	var hits []click
	b.Register(ByElement(el), func(x, y int) { hits = append(hits, click{x, y}) }, nil)
	settle(b, clock)

	var keys []string
	b.SubscribeKeyboard(func(ev *KeyboardEvent) { keys = append(keys, ev.Key) })

	input := strings.Join([]string{
		`{"type":"click","detail":{"x":25,"y":25}}`,
		``,
		`garbage`,
		`{"type":"keyboard","detail":{"key":"q","down":true}}`,
		`{"type":"interactionMode","detail":{"enabled":true}}`,
	}, "\n")
	if err := b.ReadHostEvents(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatal(err)
	}
	b.Update()

	if len(hits) != 1 || hits[0] != (click{25, 25}) {
		t.Errorf("hits = %v", hits)
	}
	if len(keys) != 1 || keys[0] != "q" {
		t.Errorf("keys = %v", keys)
	}
	if !b.InteractionEnabled() {
		t.Error("interaction mode not applied")
	}
	if logs.FilterMessage("dropping host event").Len() != 1 {
		t.Error("expected one dropped line")
	}
}

func TestReadHostEventsCancelled(t *testing.T) {
	b, _ := newTestBridge(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := b.ReadHostEvents(ctx, strings.NewReader(`{"type":"click","detail":{"x":1,"y":1}}`))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestReadHostEventsLongLine(t *testing.T) {
	b, _ := newTestBridge(Config{})
	var xs []int
	b.SubscribeMouse(func(ev *MouseEvent) { xs = append(xs, ev.X) })

	pad := strings.Repeat("a", 70000)
	input := `{"type":"mouse","detail":{"x":1,"y":1,"trail":"` + pad + `"}}` + "\n" +
		`{"type":"mouse","detail":{"x":2,"y":2}}`
	if err := b.ReadHostEvents(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatal(err)
	}
	b.Update()

	if len(xs) != 2 || xs[0] != 1 || xs[1] != 2 {
		t.Errorf("delivered x = %v, want [1 2]", xs)
	}
}
