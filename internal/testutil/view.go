package testutil

import "sync"

// LoadingChange is one SetLoading call
type LoadingChange struct {
	Loading bool
	Label   string
}

// ResultMessage is one ShowResult call
type ResultMessage struct {
	Message string
	Success bool
}

// FormView records what a form controller showed
type FormView struct {
	mu      sync.Mutex
	Loading []LoadingChange
	Results []ResultMessage
	Resets  int
}

// SetLoading records a loading state change
func (v *FormView) SetLoading(loading bool, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Loading = append(v.Loading, LoadingChange{Loading: loading, Label: label})
}

// ShowResult records a result message
func (v *FormView) ShowResult(message string, success bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Results = append(v.Results, ResultMessage{Message: message, Success: success})
}

// ResetForm records a form reset
func (v *FormView) ResetForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Resets++
}

// LastResult returns the most recent result, or the zero value
func (v *FormView) LastResult() ResultMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.Results) == 0 {
		return ResultMessage{}
	}
	return v.Results[len(v.Results)-1]
}
