// Package surface is the content-side half of a host/content input bridge.
//
// A native host process owns the window and the raw input. It delivers
// pointer, keyboard, click and interaction-mode events in physical pixels
// to the rendered content surface. surface translates those coordinates
// into the content's logical space, works out which registered region a
// click landed in, calls at most one region callback, fans pointer and
// keyboard state out to subscribers, and sends a few semantic events
// (ready, open URL) back to the host.
//
// # Quick start
//
//	doc, _ := surface.ParseHTML(page)
//	b := surface.New(surface.Config{
//		Scale:    2,
//		Document: doc,
//		Host:     surface.NewWriterChannel(os.Stdout),
//		Logger:   logger,
//	})
//
//	b.OnClick("#play", func(x, y int) { ... }, nil)
//	b.SubscribeMouse(func(ev *surface.MouseEvent) { ... })
//	b.SendReady("aurora")
//
//	// Once per frame, or use b.Run(ctx, events) without a frame loop:
//	b.Update()
//
// # Regions
//
// Registration is deferred. [Bridge.Register] returns a [PendingRegion]
// immediately; the element is resolved and measured once layout has
// settled (after [Config.SettleDelay], or when [RegisterOptions.WaitFor]
// fires). Clicks queued before that moment cannot hit the region. The
// measured box is a snapshot: regions are never re-measured or removed.
//
// Hit testing is first-match in registration order. Overlapping regions
// are not ranked by size.
//
// # Threading
//
// Each [Bridge] runs a single-threaded cooperative [Loop]. Host events and
// settled registrations are tasks on that loop; they only run inside
// [Bridge.Update] or [Bridge.Run]. [Bridge.Deliver] may be called from any
// goroutine.
//
// # Debugging
//
// Debug mode (a "debug" query parameter in [Config.StartURL], [Config.Debug],
// or [Bridge.EnableDebug]) turns on verbose logging and outlines registered
// regions in the [Overlay]. [Bridge.DrawDebug] draws the overlay plus a
// small status panel. Debug mode never turns off again.
//
// The script sub-package exposes the same surface to JavaScript content
// running in goja; the ecs module forwards routed events into a Donburi
// world.
package surface
