package navigation

import "sync"

// Page paths the client can be sent to
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	AddMatchPath  = "/add-match"
)

// Navigator moves the user to another page
type Navigator interface {
	Navigate(path string)
}

// Recorder is a Navigator that remembers where it has been sent.
// OnNavigate, if set, is called after each navigation.
type Recorder struct {
	mu         sync.Mutex
	history    []string
	OnNavigate func(path string)
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Ensure Recorder implements Navigator
var _ Navigator = (*Recorder)(nil)

// Navigate records path as the current location
func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	r.history = append(r.history, path)
	hook := r.OnNavigate
	r.mu.Unlock()

	if hook != nil {
		hook(path)
	}
}

// Current returns the most recent location, or "" if none
func (r *Recorder) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

// History returns every location visited, oldest first
func (r *Recorder) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}
