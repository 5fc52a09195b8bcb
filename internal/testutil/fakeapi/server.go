// Package fakeapi is an in-process stand-in for the cricket stats REST API,
// used by tests that exercise the client end to end.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/cricketstats-go/internal/model"
)

// Request is a request the server received
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

type account struct {
	user         model.User
	passwordHash []byte
}

// Server fakes the REST API on an httptest server
type Server struct {
	*httptest.Server

	secret   []byte
	tokenTTL time.Duration

	mu        sync.Mutex
	accounts  map[string]*account
	matches   map[string][]model.Match
	nextID    int
	requests  []Request
	overrides map[string]override
}

type override struct {
	status int
	body   string
}

// New starts a fake API server. It is closed when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		secret:    []byte("fakeapi-secret"),
		tokenTTL:  time.Hour,
		accounts:  make(map[string]*account),
		matches:   make(map[string][]model.Match),
		nextID:    1,
		overrides: make(map[string]override),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)
	r.Use(s.applyOverrides)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.requireAuth)
	protected.HandleFunc("/auth/me", s.me).Methods(http.MethodGet)
	protected.HandleFunc("/matches", s.listMatches).Methods(http.MethodGet)
	protected.HandleFunc("/matches", s.createMatch).Methods(http.MethodPost)
	protected.HandleFunc("/bat_stats/summary", s.summary).Methods(http.MethodGet)
	protected.HandleFunc("/bat_stats/detailed", s.detailed).Methods(http.MethodGet)

	return r
}

// AddUser registers an account directly
func (s *Server) AddUser(username, email, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addAccountLocked(username, email, hash)
}

// AddMatch stores a match for username
func (s *Server) AddMatch(username string, m model.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.nextID
	s.nextID++
	s.matches[username] = append(s.matches[username], m)
}

// Respond makes method+path answer with a fixed status and body
func (s *Server) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = override{status: status, body: body}
}

// Token issues a valid access token for username
func (s *Server) Token(username string) string {
	token, err := s.issueToken(username, time.Now().Add(s.tokenTTL))
	if err != nil {
		panic(err)
	}
	return token
}

// ExpiredToken issues a token that the server will reject
func (s *Server) ExpiredToken(username string) string {
	token, err := s.issueToken(username, time.Now().Add(-time.Minute))
	if err != nil {
		panic(err)
	}
	return token
}

// Requests returns every request received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns how many requests hit path
func (s *Server) RequestCount(path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// Middleware

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) applyOverrides(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		o, ok := s.overrides[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(o.status)
		_, _ = w.Write([]byte(o.body))
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		s.mu.Lock()
		_, exists := s.accounts[claims.Subject]
		s.mu.Unlock()
		if !exists {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		r.Header.Set("X-Fake-User", claims.Subject)
		next.ServeHTTP(w, r)
	})
}

// Handlers

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	s.mu.Lock()
	acc, ok := s.accounts[username]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{
		AccessToken: s.Token(username),
		TokenType:   "bearer",
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var creds model.SignupCredentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid JSON body")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.MinCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[creds.Username]; exists {
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	acc := s.addAccountLocked(creds.Username, creds.Email, hash)
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acc := s.accounts[currentUser(r)]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	matches := append([]model.Match{}, s.matches[currentUser(r)]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	var in model.MatchCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid JSON body")
		return
	}
	if in.Date == "" || in.Ground == "" {
		writeValidation(w, "date and ground are required")
		return
	}

	m := model.Match{
		Date:            in.Date,
		Ground:          in.Ground,
		Inning:          in.Inning,
		BattingPosition: in.BattingPosition,
		CameToBat:       in.CameToBat,
		RunsScored:      in.RunsScored,
		BallsFaced:      in.BallsFaced,
		Fours:           in.Fours,
		Sixes:           in.Sixes,
		Out:             in.Out,
		MatchResult:     in.MatchResult,
	}

	s.mu.Lock()
	m.ID = s.nextID
	s.nextID++
	user := currentUser(r)
	s.matches[user] = append(s.matches[user], m)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, m)
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	st := s.stats(currentUser(r))
	writeJSON(w, http.StatusOK, model.BattingSummary{
		TotalMatches:   st.matches,
		TotalRuns:      st.runs,
		BattingAverage: st.average(),
		StrikeRate:     st.strikeRate(),
	})
}

func (s *Server) detailed(w http.ResponseWriter, r *http.Request) {
	st := s.stats(currentUser(r))
	avg := st.average()
	sr := st.strikeRate()
	writeJSON(w, http.StatusOK, model.BattingDetailed{
		Innings:           st.innings,
		HighestScore:      st.highest,
		Fifties:           st.fifties,
		Hundreds:          st.hundreds,
		Matches:           &st.matches,
		RunsScored:        &st.runs,
		BallsFaced:        &st.balls,
		Ducks:             &st.ducks,
		BattingAverage:    &avg,
		BattingStrikeRate: &sr,
	})
}

// Helpers

type battingStats struct {
	matches, innings, runs, balls, dismissals int
	highest, fifties, hundreds, ducks         int
}

func (b battingStats) average() float64 {
	if b.dismissals == 0 {
		return 0
	}
	return float64(b.runs) / float64(b.dismissals)
}

func (b battingStats) strikeRate() float64 {
	if b.balls == 0 {
		return 0
	}
	return float64(b.runs) / float64(b.balls) * 100
}

func (s *Server) stats(username string) battingStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st battingStats
	for _, m := range s.matches[username] {
		st.matches++
		if strings.EqualFold(m.CameToBat, "yes") {
			st.innings++
		}
		runs := deref(m.RunsScored)
		st.runs += runs
		st.balls += deref(m.BallsFaced)
		st.highest = max(st.highest, runs)
		switch {
		case runs > 99:
			st.hundreds++
		case runs > 49:
			st.fifties++
		}
		if strings.EqualFold(m.Out, "yes") {
			st.dismissals++
			if runs == 0 {
				st.ducks++
			}
		}
	}
	return st
}

func (s *Server) addAccountLocked(username, email string, hash []byte) *account {
	acc := &account{
		user: model.User{
			ID:       len(s.accounts) + 1,
			Username: username,
			Email:    email,
		},
		passwordHash: hash,
	}
	s.accounts[username] = acc
	return acc
}

func (s *Server) issueToken(username string, expiry time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(expiry),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func currentUser(r *http.Request) string {
	return r.Header.Get("X-Fake-User")
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeValidation(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": []string{"body"}, "msg": msg, "type": "value_error"}},
	})
}
