package model

// Session is the authenticated state held for the lifetime of a client session
type Session struct {
	Token    string `json:"access_token,omitempty"`
	Username string `json:"username,omitempty"`
	LoggedIn bool   `json:"is_logged_in"`
}

// LoginCredentials are submitted to the login endpoint as form values.
// They are never persisted.
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupCredentials are submitted to the registration endpoint as JSON
type SignupCredentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the body returned by a successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// User is the account returned by the current-user endpoint
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
