package wallpaper

import (
	"github.com/matjam/loopwall/internal/lockmon"
	"github.com/matjam/loopwall/internal/overlay"
)

type CommandType string

const (
	CommandRestart          CommandType = "restart"
	CommandVolume           CommandType = "volume"
	CommandToggleMute       CommandType = "toggle-mute"
	CommandWatermarkText    CommandType = "watermark-text"
	CommandWatermarkOpacity CommandType = "watermark-opacity"
	CommandWatermarkShow    CommandType = "watermark-show"
	CommandWatermarkConfig  CommandType = "watermark-config"
	CommandRebuild          CommandType = "rebuild"

	// Lock-state transitions, enqueued by the lock monitor only.
	CommandLock       CommandType = "lock"
	CommandUnlock     CommandType = "unlock"
	CommandBackground CommandType = "background"
	CommandForeground CommandType = "foreground"
)

// Command is one unit of work for the manager's event loop. All fleet
// mutation goes through commands so nothing touches the bindings
// concurrently.
type Command struct {
	Type   CommandType     `json:"type"`
	Text   string          `json:"text,omitempty"`
	Value  float64         `json:"value,omitempty"`
	Show   bool            `json:"show,omitempty"`
	Config *overlay.Config `json:"config,omitempty"`
}

// lockCommands is the subscription table translating lock monitor events
// into fleet commands.
var lockCommands = map[lockmon.Event]CommandType{
	lockmon.EventLocked:     CommandLock,
	lockmon.EventUnlocked:   CommandUnlock,
	lockmon.EventBackground: CommandBackground,
	lockmon.EventForeground: CommandForeground,
}

// HandleLockEvent implements lockmon.Sink by enqueueing the mapped fleet
// command onto the event loop.
func (m *Manager) HandleLockEvent(ev lockmon.Event) {
	cmdType, ok := lockCommands[ev]
	if !ok {
		return
	}
	m.EnqueueCommand(Command{Type: cmdType})
}
