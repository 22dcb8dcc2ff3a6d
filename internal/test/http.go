package test

import "net/http/httptest"

// StreamRecorder is a response recorder usable with streaming gin handlers,
// which require http.CloseNotifier.
type StreamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

// NewStreamRecorder constructs StreamRecorder.
func NewStreamRecorder() *StreamRecorder {
	return &StreamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
}

// CloseNotify implements http.CloseNotifier.
func (r *StreamRecorder) CloseNotify() <-chan bool {
	return r.closed
}
