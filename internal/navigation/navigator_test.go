package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderTracksHistory(t *testing.T) {
	r := NewRecorder()
	assert.Empty(t, r.Current())

	r.Navigate(DashboardPath)
	r.Navigate(LoginPath)

	assert.Equal(t, LoginPath, r.Current())
	assert.Equal(t, []string{DashboardPath, LoginPath}, r.History())
}

func TestRecorderCallsHook(t *testing.T) {
	var seen []string
	r := &Recorder{OnNavigate: func(path string) { seen = append(seen, path) }}

	r.Navigate(AddMatchPath)

	assert.Equal(t, []string{AddMatchPath}, seen)
}

func TestRecorderHistoryIsCopy(t *testing.T) {
	r := NewRecorder()
	r.Navigate(LoginPath)

	h := r.History()
	h[0] = "mutated"

	assert.Equal(t, LoginPath, r.Current())
}
