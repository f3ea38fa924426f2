// Package lockmon watches the session for lock, unlock, and
// foreground/background transitions and forwards them as events. It never
// decides what to do about a transition; the daemon core maps events to
// fleet commands.
package lockmon

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/godbus/dbus/v5"
)

// Event is one lock-state transition.
type Event string

const (
	EventLocked     Event = "locked"
	EventUnlocked   Event = "unlocked"
	EventBackground Event = "background"
	EventForeground Event = "foreground"
)

// Sink consumes lock-state events. Delivery happens on the monitor's own
// goroutine; sinks are expected to enqueue, not to block.
type Sink interface {
	HandleLockEvent(Event)
}

// Monitor subscribes to the screensaver and logind DBus signals and
// translates them into Events for a single Sink.
type Monitor struct {
	session *dbus.Conn
	system  *dbus.Conn
	signals chan *dbus.Signal
	sink    Sink

	closeOnce sync.Once
	done      chan struct{}
}

// New connects to the session and system buses and starts delivering
// events to sink. Lock and unlock come from the screensaver's
// ActiveChanged signal; suspend and resume from logind's PrepareForSleep,
// treated as the session going to the background and foreground.
func New(sink Sink) (*Monitor, error) {
	session, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}

	system, err := dbus.ConnectSystemBus()
	if err != nil {
		_ = session.Close()
		return nil, err
	}

	m := &Monitor{
		session: session,
		system:  system,
		signals: make(chan *dbus.Signal, 16),
		sink:    sink,
		done:    make(chan struct{}),
	}

	matches := []struct {
		conn *dbus.Conn
		opts []dbus.MatchOption
	}{
		{session, []dbus.MatchOption{
			dbus.WithMatchInterface("org.freedesktop.ScreenSaver"),
			dbus.WithMatchMember("ActiveChanged"),
		}},
		{session, []dbus.MatchOption{
			dbus.WithMatchInterface("org.gnome.ScreenSaver"),
			dbus.WithMatchMember("ActiveChanged"),
		}},
		{system, []dbus.MatchOption{
			dbus.WithMatchInterface("org.freedesktop.login1.Manager"),
			dbus.WithMatchMember("PrepareForSleep"),
		}},
	}
	for _, match := range matches {
		if err := match.conn.AddMatchSignal(match.opts...); err != nil {
			_ = session.Close()
			_ = system.Close()
			return nil, err
		}
	}

	session.Signal(m.signals)
	system.Signal(m.signals)

	go m.run()
	return m, nil
}

func (m *Monitor) run() {
	for {
		select {
		case sig, ok := <-m.signals:
			if !ok {
				return
			}
			ev, ok := Translate(sig.Name, sig.Body)
			if !ok {
				continue
			}
			log.Debugf("lock monitor: %s -> %s", sig.Name, ev)
			m.sink.HandleLockEvent(ev)
		case <-m.done:
			return
		}
	}
}

// Translate maps a DBus signal to an Event. Signals that do not concern
// the lock state are dropped.
func Translate(name string, body []any) (Event, bool) {
	flag := func() (bool, bool) {
		if len(body) == 0 {
			return false, false
		}
		b, ok := body[0].(bool)
		return b, ok
	}

	switch name {
	case "org.freedesktop.ScreenSaver.ActiveChanged",
		"org.gnome.ScreenSaver.ActiveChanged":
		active, ok := flag()
		if !ok {
			return "", false
		}
		if active {
			return EventLocked, true
		}
		return EventUnlocked, true

	case "org.freedesktop.login1.Manager.PrepareForSleep":
		sleeping, ok := flag()
		if !ok {
			return "", false
		}
		if sleeping {
			return EventBackground, true
		}
		return EventForeground, true
	}

	return "", false
}

// Close unsubscribes from both buses and stops event delivery. Safe to
// call more than once.
func (m *Monitor) Close() error {
	m.closeOnce.Do(func() {
		close(m.done)
		m.session.RemoveSignal(m.signals)
		m.system.RemoveSignal(m.signals)
		_ = m.session.Close()
		_ = m.system.Close()
	})
	return nil
}
