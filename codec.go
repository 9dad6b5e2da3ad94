package surface

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// hostEnvelope is the wire form of a host event:
//
//	{"type": "click", "detail": {"x": 25, "y": 25}}
type hostEnvelope struct {
	Type   string          `json:"type"`
	Detail json.RawMessage `json:"detail"`
}

type mouseWire struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Buttons uint8  `json:"buttons"`
	Kind    string `json:"kind"`
}

type keyboardWire struct {
	Key       string `json:"key"`
	Code      int    `json:"code"`
	Down      bool   `json:"down"`
	Modifiers uint8  `json:"modifiers"`
	Shift     bool   `json:"shiftKey"`
	Ctrl      bool   `json:"ctrlKey"`
	Alt       bool   `json:"altKey"`
	Meta      bool   `json:"metaKey"`
}

type clickWire struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type modeWire struct {
	Enabled *bool `json:"enabled"`
}

// ErrUnknownEventType is returned for envelopes whose type is not one of
// mouse, keyboard, click or interactionMode.
var ErrUnknownEventType = errors.New("unknown host event type")

// DecodeHostEvent parses one JSON host event. Mouse and keyboard events keep
// every detail field in Detail, typed or not.
func DecodeHostEvent(data []byte) (HostEvent, error) {
	var env hostEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode host event: %w", err)
	}
	detail := env.Detail
	if len(detail) == 0 {
		detail = []byte("{}")
	}

	switch env.Type {
	case EventMouse.String():
		var w mouseWire
		if err := json.Unmarshal(detail, &w); err != nil {
			return nil, fmt.Errorf("decode mouse detail: %w", err)
		}
		raw, err := decodeDetail(detail)
		if err != nil {
			return nil, err
		}
		return &MouseEvent{X: w.X, Y: w.Y, Buttons: w.Buttons, Kind: w.Kind, Detail: raw}, nil

	case EventKeyboard.String():
		var w keyboardWire
		if err := json.Unmarshal(detail, &w); err != nil {
			return nil, fmt.Errorf("decode keyboard detail: %w", err)
		}
		raw, err := decodeDetail(detail)
		if err != nil {
			return nil, err
		}
		mods := KeyModifiers(w.Modifiers)
		if w.Shift {
			mods |= ModShift
		}
		if w.Ctrl {
			mods |= ModCtrl
		}
		if w.Alt {
			mods |= ModAlt
		}
		if w.Meta {
			mods |= ModMeta
		}
		return &KeyboardEvent{Key: w.Key, Code: w.Code, Down: w.Down, Modifiers: mods, Detail: raw}, nil

	case EventClick.String():
		var w clickWire
		if err := json.Unmarshal(detail, &w); err != nil {
			return nil, fmt.Errorf("decode click detail: %w", err)
		}
		if w.X == nil || w.Y == nil {
			return nil, fmt.Errorf("decode click detail: missing x or y")
		}
		return ClickEvent{X: *w.X, Y: *w.Y}, nil

	case EventInteractionMode.String():
		var w modeWire
		if err := json.Unmarshal(detail, &w); err != nil {
			return nil, fmt.Errorf("decode interactionMode detail: %w", err)
		}
		if w.Enabled == nil {
			return nil, fmt.Errorf("decode interactionMode detail: missing enabled")
		}
		return InteractionModeEvent{Enabled: *w.Enabled}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownEventType, env.Type)
}

func decodeDetail(detail []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(detail, &raw); err != nil {
		return nil, fmt.Errorf("decode detail: %w", err)
	}
	return raw, nil
}

// ReadHostEvents reads newline-delimited JSON host events from r and
// delivers each to the loop until r is exhausted or ctx is done. Lines that
// fail to decode are logged and skipped. Lines have no length limit: mouse
// and keyboard details are passed through as the host sent them.
func (b *Bridge) ReadHostEvents(ctx context.Context, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, readErr := br.ReadBytes('\n')
		if err := ctx.Err(); err != nil {
			return err
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			if err := b.DeliverMessage(line); err != nil {
				b.log.Warn("dropping host event", zap.Int("bytes", len(line)), zap.Error(err))
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read host events: %w", readErr)
		}
	}
}
