// Package script exposes a surface.Bridge to JavaScript content running in
// a goja runtime.
//
// The runtime installs one global object (named by GlobalName):
//
//	surface.version, surface.dpiScale, surface.screenWidth, surface.screenHeight
//	surface.interactionEnabled              // read-only, live
//	surface.onClick(selectorOrElement, fn, {debug: true})
//	surface.onMouse(fn)
//	surface.onKeyboard(fn)
//	surface.openURL(url)
//	surface.ready(name)
//	surface.enableDebug()
//
// plus console.log/warn/error routed to the logger.
//
// goja runtimes are not goroutine safe. Script callbacks run on the bridge
// loop, so RunString must be called from the goroutine driving the loop too.
package script

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/phanxgames/surface"
)

// GlobalName is the name of the global object scripts use.
const GlobalName = "surface"

// Runtime is a goja VM wired to a bridge.
type Runtime struct {
	vm  *goja.Runtime
	b   *surface.Bridge
	log *zap.Logger

	// Script subscribers. Each list is fed by a single bridge subscriber
	// that converts the event once, so all of them see the same object.
	mouseFns []goja.Callable
	keyFns   []goja.Callable
}

// New creates a runtime and installs the global object and console.
func New(b *surface.Bridge, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runtime{
		vm:  goja.New(),
		b:   b,
		log: logger.Named("script"),
	}
	if err := r.install(); err != nil {
		return nil, fmt.Errorf("install %s: %w", GlobalName, err)
	}
	return r, nil
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// RunString evaluates src.
func (r *Runtime) RunString(src string) (goja.Value, error) {
	v, err := r.vm.RunString(src)
	if err != nil {
		return nil, fmt.Errorf("run script: %w", err)
	}
	return v, nil
}

// RunScript evaluates src, reporting name in stack traces.
func (r *Runtime) RunScript(name, src string) (goja.Value, error) {
	v, err := r.vm.RunScript(name, src)
	if err != nil {
		return nil, fmt.Errorf("run script %s: %w", name, err)
	}
	return v, nil
}

func (r *Runtime) install() error {
	obj := r.vm.NewObject()
	screen := r.b.Screen()

	for _, p := range []struct {
		name  string
		value any
	}{
		{"version", surface.Version},
		{"dpiScale", r.b.Scale()},
		{"screenWidth", screen.Width},
		{"screenHeight", screen.Height},
		{"onClick", r.onClick},
		{"onMouse", r.onMouse},
		{"onKeyboard", r.onKeyboard},
		{"openURL", r.openURL},
		{"ready", r.ready},
		{"enableDebug", r.enableDebug},
	} {
		if err := obj.Set(p.name, p.value); err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
	}

	getter := r.vm.ToValue(func(goja.FunctionCall) goja.Value {
		return r.vm.ToValue(r.b.InteractionEnabled())
	})
	if err := obj.DefineAccessorProperty("interactionEnabled", getter, goja.Undefined(), goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
		return fmt.Errorf("interactionEnabled: %w", err)
	}
	if err := r.vm.Set(GlobalName, obj); err != nil {
		return err
	}
	return r.installConsole()
}

func (r *Runtime) installConsole() error {
	console := r.vm.NewObject()
	logAt := func(level func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				args[i] = a.String()
			}
			level(strings.Join(args, " "))
			return goja.Undefined()
		}
	}
	for name, fn := range map[string]func(goja.FunctionCall) goja.Value{
		"log":   logAt(r.log.Info),
		"info":  logAt(r.log.Info),
		"warn":  logAt(r.log.Warn),
		"error": logAt(r.log.Error),
	} {
		if err := console.Set(name, fn); err != nil {
			return fmt.Errorf("console.%s: %w", name, err)
		}
	}
	return r.vm.Set("console", console)
}

// onClick(selectorOrElement, fn, options?)
func (r *Runtime) onClick(call goja.FunctionCall) goja.Value {
	target := call.Argument(0)
	fn, ok := goja.AssertFunction(call.Argument(1))
	if !ok {
		panic(r.vm.NewTypeError("onClick: callback is not a function"))
	}

	loc := surface.ByQuery(target.String())
	if el, ok := target.Export().(surface.Element); ok {
		loc = surface.ByElement(el)
	}

	var opts surface.RegisterOptions
	if o := call.Argument(2); !goja.IsUndefined(o) && !goja.IsNull(o) {
		if d := o.ToObject(r.vm).Get("debug"); d != nil && !goja.IsUndefined(d) {
			v := d.ToBoolean()
			opts.Debug = &v
		}
	}

	r.b.Register(loc, func(x, y int) {
		r.invoke("click", fn, r.vm.ToValue(x), r.vm.ToValue(y))
	}, &opts)
	return goja.Undefined()
}

// onMouse(fn)
func (r *Runtime) onMouse(call goja.FunctionCall) goja.Value {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		panic(r.vm.NewTypeError("onMouse: callback is not a function"))
	}
	if len(r.mouseFns) == 0 {
		r.b.SubscribeMouse(func(ev *surface.MouseEvent) {
			v := r.mouseValue(ev)
			for _, fn := range r.mouseFns {
				r.invoke("mouse", fn, v)
			}
		})
	}
	r.mouseFns = append(r.mouseFns, fn)
	return goja.Undefined()
}

// onKeyboard(fn)
func (r *Runtime) onKeyboard(call goja.FunctionCall) goja.Value {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		panic(r.vm.NewTypeError("onKeyboard: callback is not a function"))
	}
	if len(r.keyFns) == 0 {
		r.b.SubscribeKeyboard(func(ev *surface.KeyboardEvent) {
			v := r.keyValue(ev)
			for _, fn := range r.keyFns {
				r.invoke("keyboard", fn, v)
			}
		})
	}
	r.keyFns = append(r.keyFns, fn)
	return goja.Undefined()
}

func (r *Runtime) openURL(call goja.FunctionCall) goja.Value {
	r.b.RequestOpenURL(call.Argument(0).String())
	return goja.Undefined()
}

func (r *Runtime) ready(call goja.FunctionCall) goja.Value {
	r.b.SendReady(call.Argument(0).String())
	return goja.Undefined()
}

func (r *Runtime) enableDebug(goja.FunctionCall) goja.Value {
	r.b.EnableDebug()
	return goja.Undefined()
}

// invoke calls a script callback. Exceptions are logged, never propagated
// into the bridge.
func (r *Runtime) invoke(kind string, fn goja.Callable, args ...goja.Value) {
	if _, err := fn(goja.Undefined(), args...); err != nil {
		r.log.Warn("script callback failed", zap.String("event", kind), zap.Error(err))
	}
}

// mouseValue converts ev to a plain JS object: the host's detail fields
// plus x, y, buttons and kind.
func (r *Runtime) mouseValue(ev *surface.MouseEvent) goja.Value {
	obj := r.vm.NewObject()
	for k, v := range ev.Detail {
		_ = obj.Set(k, v)
	}
	_ = obj.Set("x", ev.X)
	_ = obj.Set("y", ev.Y)
	_ = obj.Set("buttons", ev.Buttons)
	_ = obj.Set("kind", ev.Kind)
	return obj
}

// keyValue converts ev to a plain JS object.
func (r *Runtime) keyValue(ev *surface.KeyboardEvent) goja.Value {
	obj := r.vm.NewObject()
	for k, v := range ev.Detail {
		_ = obj.Set(k, v)
	}
	_ = obj.Set("key", ev.Key)
	_ = obj.Set("code", ev.Code)
	_ = obj.Set("down", ev.Down)
	_ = obj.Set("shiftKey", ev.Modifiers&surface.ModShift != 0)
	_ = obj.Set("ctrlKey", ev.Modifiers&surface.ModCtrl != 0)
	_ = obj.Set("altKey", ev.Modifiers&surface.ModAlt != 0)
	_ = obj.Set("metaKey", ev.Modifiers&surface.ModMeta != 0)
	return obj
}
