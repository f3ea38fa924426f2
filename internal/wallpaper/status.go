package wallpaper

import "github.com/matjam/loopwall/internal/overlay"

// BindingStatus is the reportable state of one display binding.
type BindingStatus struct {
	Display  string `json:"display"`
	Geometry string `json:"geometry"`
	Pid      int    `json:"pid"`
	Running  bool   `json:"running"`
	Paused   bool   `json:"paused"`
	Overlay  bool   `json:"overlay"`
}

// Status is a point-in-time snapshot of the daemon state, served over IPC.
type Status struct {
	Video         string          `json:"video"`
	Volume        float64         `json:"volume"`
	Muted         bool            `json:"muted"`
	Locked        bool            `json:"locked"`
	ShowWatermark bool            `json:"show_watermark"`
	Watermark     overlay.Config  `json:"watermark"`
	Bindings      []BindingStatus `json:"bindings"`
}

// Snapshot assembles a Status. It is the one read path that runs off the
// event loop, serialized against it by the manager mutex, so it only reads
// manager state and never does pipeline IPC round-trips under the lock.
func (m *Manager) Snapshot() Status {
	m.Lock()
	defer m.Unlock()

	st := Status{
		Video:         m.opts.VideoPath,
		Volume:        m.volume,
		Muted:         m.muted,
		Locked:        m.locked,
		ShowWatermark: m.showWatermark,
		Watermark:     m.watermark,
		Bindings:      make([]BindingStatus, 0, len(m.bindings)),
	}

	for _, b := range m.bindings {
		st.Bindings = append(st.Bindings, BindingStatus{
			Display:  b.Display.ID,
			Geometry: b.Display.Geometry(),
			Pid:      b.Surface.Pid(),
			Running:  !b.Surface.Exited(),
			Paused:   m.paused,
			Overlay:  b.Overlay != nil,
		})
	}

	return st
}
