package ipc

import "github.com/matjam/loopwall/internal/wallpaper"

// Manager is the slice of the daemon core the IPC server needs. Handlers
// enqueue commands and read snapshots; the event loop does the rest. Stop
// is separate because termination must not ride the droppable queue.
type Manager interface {
	EnqueueCommand(wallpaper.Command)
	Stop()
	Snapshot() wallpaper.Status
}

// Response is the envelope for every IPC reply.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// StatusResponse is the payload of GET /status.
type StatusResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Version string           `json:"version"`
	PID     int              `json:"pid"`
	Socket  string           `json:"socket"`
	Config  string           `json:"config"`
	Daemon  wallpaper.Status `json:"daemon"`
}

type VolumeRequest struct {
	Volume float64 `json:"volume"`
}

type TextRequest struct {
	Text string `json:"text"`
}

type OpacityRequest struct {
	Opacity float64 `json:"opacity"`
}

type ShowRequest struct {
	Show bool `json:"show"`
}
