package surface

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/browser"
	"go.uber.org/zap"
)

// Outbound message types.
const (
	MessageReady   = "ready"
	MessageOpenURL = "openURL"
)

// Message is a semantic event sent from the content to the host.
type Message struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// HostChannel transmits messages to the native host. Delivery is
// fire-and-forget: there is no acknowledgement or response channel.
type HostChannel interface {
	PostMessage(msg Message) error
}

// ChannelFunc adapts a function to HostChannel.
type ChannelFunc func(msg Message) error

// PostMessage calls f(msg).
func (f ChannelFunc) PostMessage(msg Message) error { return f(msg) }

// WriterChannel writes each message as one line of JSON, for hosts that
// read the content process's stdout.
type WriterChannel struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriterChannel returns a channel writing newline-delimited JSON to w.
func NewWriterChannel(w io.Writer) *WriterChannel {
	return &WriterChannel{enc: json.NewEncoder(w)}
}

// PostMessage encodes msg followed by a newline.
func (c *WriterChannel) PostMessage(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enc.Encode(msg); err != nil {
		return fmt.Errorf("post %s: %w", msg.Type, err)
	}
	return nil
}

// Navigator performs a navigation locally when no host channel exists.
type Navigator interface {
	Open(url string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string) error

// Open calls f(url).
func (f NavigatorFunc) Open(url string) error { return f(url) }

// browserNavigator opens URLs with the platform's default browser. The
// launcher's output goes to browser.Stdout and browser.Stderr; processes
// whose stdout is a host channel should redirect them.
type browserNavigator struct{}

func (browserNavigator) Open(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// Outbound relays semantic events to the host, degrading to local
// behaviour when the host channel is absent. Failures are logged, never
// returned.
type Outbound struct {
	host HostChannel
	nav  Navigator
	diag *Diagnostics
	log  *zap.Logger
}

func newOutbound(host HostChannel, nav Navigator, diag *Diagnostics, log *zap.Logger) *Outbound {
	if nav == nil {
		nav = browserNavigator{}
	}
	return &Outbound{host: host, nav: nav, diag: diag, log: log}
}

// Available reports whether a host channel is present.
func (o *Outbound) Available() bool {
	return o.host != nil
}

// SendReady tells the host the content named name has finished loading.
// Without a host channel it only logs.
func (o *Outbound) SendReady(name string) {
	o.diag.Log("content ready", true, zap.String("name", name))
	if o.host == nil {
		return
	}
	o.post(Message{Type: MessageReady, Name: name})
}

// RequestOpenURL asks the host to open url. Without a host channel the
// Navigator opens it locally.
func (o *Outbound) RequestOpenURL(url string) {
	o.diag.Log("opening URL", false, zap.String("url", url))
	if o.host != nil {
		o.post(Message{Type: MessageOpenURL, URL: url})
		return
	}
	o.diag.Warn("host bridge not available, opening locally", zap.String("url", url))
	if err := o.nav.Open(url); err != nil {
		o.log.Warn("local navigation failed", zap.String("url", url), zap.Error(err))
	}
}

func (o *Outbound) post(msg Message) {
	if err := o.host.PostMessage(msg); err != nil {
		o.log.Warn("post to host failed", zap.String("type", msg.Type), zap.Error(err))
	}
}
