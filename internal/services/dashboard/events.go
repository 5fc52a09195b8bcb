package dashboard

// Event is a user action on the dashboard
type Event interface {
	dashboardEvent()
}

// NavigateEvent is a click on a navigation tab
type NavigateEvent struct {
	Section Section
}

// LogoutEvent is the logout button; nothing happens unless Confirmed
type LogoutEvent struct {
	Confirmed bool
}

// AddMatchEvent is the add-match button
type AddMatchEvent struct{}

func (NavigateEvent) dashboardEvent() {}
func (LogoutEvent) dashboardEvent()   {}
func (AddMatchEvent) dashboardEvent() {}
