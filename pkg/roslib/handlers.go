package roslib

type (
	// ProbeHandlerFunc is invoked after each existence probe completes.
	// Calls arrive in completion order, not submission order.
	ProbeHandlerFunc func(version string, exists bool)
	// DownloadHandlerFunc is invoked once per target with its final
	// outcome and the number of bytes fetched (zero unless downloaded).
	DownloadHandlerFunc func(target Target, outcome Outcome, n int64)
)

// Handlers lets callers observe engine progress, e.g. to drive progress
// bars or a control panel. All fields are optional.
type Handlers struct {
	ProbeHandler    ProbeHandlerFunc
	DownloadHandler DownloadHandlerFunc
}

func (h *Handlers) setDefault() {
	if h.ProbeHandler == nil {
		h.ProbeHandler = func(version string, exists bool) {}
	}
	if h.DownloadHandler == nil {
		h.DownloadHandler = func(target Target, outcome Outcome, n int64) {}
	}
}
