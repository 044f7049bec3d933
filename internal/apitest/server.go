// Package apitest is an in-memory stand-in for the roster REST API. It
// speaks the same JSON envelopes and status codes, enforces the same role
// rules, and lets tests inject failures or hold a route open.
package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/naveenspark/roster/pkg/domain"
)

const secret = "apitest-secret"

type ctxKey int

const ctxClaims ctxKey = iota

type claims struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
	Name string      `json:"name"`
	jwt.RegisteredClaims
}

type fault struct {
	status  int
	message string
}

// Server is the fake API. The zero value is not usable; call New.
type Server struct {
	mu          sync.Mutex
	engineers   []domain.Engineer
	projects    []domain.Project
	assignments []domain.Assignment
	passwords   map[string]string
	faults      map[string]fault
	holds       map[string]chan struct{}
	calls       map[string]int
	seq         int

	router *mux.Router
}

// New returns an empty fake API.
func New() *Server {
	s := &Server{
		passwords: map[string]string{},
		faults:    map[string]fault{},
		holds:     map[string]chan struct{}{},
		calls:     map[string]int{},
	}
	s.routes()
	return s
}

// Start serves s on a loopback listener until the test ends.
func Start(tb testing.TB, s *Server) *httptest.Server {
	tb.Helper()
	ts := httptest.NewServer(s)
	tb.Cleanup(ts.Close)
	tb.Cleanup(s.releaseAll)
	return ts
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(s.record)

	r.HandleFunc("/api/auth/login", s.login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authenticate)
	api.Use(s.inject)

	api.HandleFunc("/auth/profile", s.getProfile).Methods(http.MethodGet)
	api.HandleFunc("/auth/profile", s.updateProfile).Methods(http.MethodPut)

	api.HandleFunc("/engineers", s.listEngineers).Methods(http.MethodGet)
	api.HandleFunc("/engineers", s.managerOnly(s.createEngineer)).Methods(http.MethodPost)
	api.HandleFunc("/engineers/{id}", s.getEngineer).Methods(http.MethodGet)
	api.HandleFunc("/engineers/{id}", s.managerOnly(s.deleteEngineer)).Methods(http.MethodDelete)
	api.HandleFunc("/engineers/{id}/capacity", s.getCapacity).Methods(http.MethodGet)

	api.HandleFunc("/projects", s.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", s.managerOnly(s.createProject)).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", s.getProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", s.managerOnly(s.updateProject)).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}", s.managerOnly(s.deleteProject)).Methods(http.MethodDelete)

	api.HandleFunc("/assignments", s.listAssignments).Methods(http.MethodGet)
	api.HandleFunc("/assignments", s.managerOnly(s.createAssignment)).Methods(http.MethodPost)
	api.HandleFunc("/assignments/{id}", s.getAssignment).Methods(http.MethodGet)
	api.HandleFunc("/assignments/{id}", s.managerOnly(s.updateAssignment)).Methods(http.MethodPut)
	api.HandleFunc("/assignments/{id}", s.managerOnly(s.deleteAssignment)).Methods(http.MethodDelete)

	s.router = r
}

// Token mints a signed session token for the given identity.
func Token(id, name string, role domain.Role) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID:   id,
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return signed
}

// route returns "METHOD /template" for r, the key faults and holds use.
func route(r *http.Request) string {
	tmpl := r.URL.Path
	if cur := mux.CurrentRoute(r); cur != nil {
		if t, err := cur.GetPathTemplate(); err == nil {
			tmpl = t
		}
	}
	return r.Method + " " + tmpl
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route(r)]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "Missing Authorization header")
			return
		}
		var c claims
		token, err := jwt.ParseWithClaims(raw, &c, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxClaims, &c)))
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := route(r)
		s.mu.Lock()
		f, failing := s.faults[key]
		hold := s.holds[key]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) managerOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if caller(r).Role != domain.RoleManager {
			writeError(w, http.StatusForbidden, "Access denied. Manager role required.")
			return
		}
		h(w, r)
	}
}

func caller(r *http.Request) *claims {
	c, _ := r.Context().Value(ctxClaims).(*claims)
	if c == nil {
		return &claims{}
	}
	return c
}

// Fail makes every request to method+template answer with status. An
// empty message sends a body without one. template uses mux syntax, e.g.
// "/api/assignments/{id}".
func (s *Server) Fail(method, template string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+template] = fault{status: status, message: message}
}

// Heal removes a fault installed by Fail.
func (s *Server) Heal(method, template string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.faults, method+" "+template)
}

// Hold blocks requests to method+template until the returned func is
// called. Holds still in place when the test ends are released.
func (s *Server) Hold(method, template string) (release func()) {
	key := method + " " + template
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[key] = ch
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.holds[key]; ok && cur == ch {
			delete(s.holds, key)
			close(ch)
		}
	}
}

func (s *Server) releaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, ch := range s.holds {
		close(ch)
		delete(s.holds, key)
	}
}

// Calls returns how many requests hit method+template.
func (s *Server) Calls(method, template string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+template]
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, map[string]string{"message": message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
