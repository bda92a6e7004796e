package zenx

import "sync"

// NotificationKind classifies a user-visible notification.
type NotificationKind string

const (
	NotifyError   NotificationKind = "error"
	NotifySuccess NotificationKind = "success"
	NotifyInfo    NotificationKind = "info"
)

// Notification is a transient message surfaced to the user.
type Notification struct {
	Kind        NotificationKind
	Title       string
	Description string
}

// Notifier receives notifications raised by the session and settings surfaces.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// NopNotifier discards every notification.
var NopNotifier Notifier = NotifierFunc(func(Notification) {})

// ChanNotifier forwards notifications to a buffered channel.
// When the buffer is full the notification is dropped rather than blocking
// the caller.
type ChanNotifier struct {
	ch chan Notification
}

// NewChanNotifier creates a ChanNotifier with the given buffer size.
func NewChanNotifier(size int) *ChanNotifier {
	return &ChanNotifier{ch: make(chan Notification, size)}
}

// Notify implements Notifier.
func (c *ChanNotifier) Notify(n Notification) {
	select {
	case c.ch <- n:
	default:
	}
}

// C returns the receive side of the channel.
func (c *ChanNotifier) C() <-chan Notification {
	return c.ch
}

// Recorder keeps every notification in order. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}
