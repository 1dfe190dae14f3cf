package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
)

const (
	FakeJiraUsername = "jira-bot"
	FakeJiraPassword = "s3cret"

	fakeSessionCookie = "JSESSIONID"
	fakeLoginPath     = "/rest/auth/1/session"
	notAuthenticated  = `{"errorMessages":["You are not authenticated. Authentication required to perform this operation."],"errors":{}}`
	loginFailed       = `{"errorMessages":["Login failed"],"errors":{}}`
	routeNotFound     = `{"errorMessages":["Not found"],"errors":{}}`
)

// FakeResponse is a canned reply of a FakeJira route.
type FakeResponse struct {
	Status      int
	Body        string
	ContentType string
}

// RecordedRequest is what FakeJira saw for one call.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// FakeJira is an in-process Jira instance with cookie login. Routes not
// registered answer 404, and every route except the login answers 401 without
// a session cookie.
type FakeJira struct {
	*httptest.Server

	logins     atomic.Int32
	loginReply atomic.Pointer[FakeResponse]

	mu       sync.Mutex
	routes   map[string]FakeResponse
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
	session  string
}

func NewFakeJira(t *testing.T) *FakeJira {
	t.Helper()

	//nolint:exhaustruct
	fake := &FakeJira{
		routes:   make(map[string]FakeResponse),
		handlers: make(map[string]http.HandlerFunc),
		session:  RandomString(16),
	}

	fake.Server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.Close)

	return fake
}

// Handle registers a canned JSON reply for method and path.
func (f *FakeJira) Handle(method, path string, status int, body string) {
	f.HandleResponse(method, path, FakeResponse{Status: status, Body: body, ContentType: "application/json"})
}

func (f *FakeJira) HandleResponse(method, path string, resp FakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.routes[method+" "+path] = resp
}

// HandleFunc registers a handler that runs after the session check.
func (f *FakeJira) HandleFunc(method, path string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.handlers[method+" "+path] = handler
}

// FailLogin makes the login endpoint answer resp until it is called with nil.
func (f *FakeJira) FailLogin(resp *FakeResponse) {
	f.loginReply.Store(resp)
}

// ExpireSessions invalidates every cookie handed out so far.
func (f *FakeJira) ExpireSessions() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.session = RandomString(16)
}

func (f *FakeJira) Logins() int {
	return int(f.logins.Load())
}

// Requests returns the recorded calls to method and path, login excluded.
func (f *FakeJira) Requests(method, path string) []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []RecordedRequest

	for _, req := range f.requests {
		if req.Method == method && req.Path == path {
			matched = append(matched, req)
		}
	}

	return matched
}

func (f *FakeJira) Hits(method, path string) int {
	return len(f.Requests(method, path))
}

func (f *FakeJira) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == fakeLoginPath && r.Method == http.MethodPost {
		f.login(w, r)

		return
	}

	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	session := f.session
	route, hasRoute := f.routes[r.Method+" "+r.URL.Path]
	handler, hasHandler := f.handlers[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	cookie, err := r.Cookie(fakeSessionCookie)
	if err != nil || cookie.Value != session {
		writeFake(w, FakeResponse{Status: http.StatusUnauthorized, Body: notAuthenticated, ContentType: "application/json"})

		return
	}

	switch {
	case hasHandler:
		handler(w, r)
	case hasRoute:
		writeFake(w, route)
	default:
		writeFake(w, FakeResponse{Status: http.StatusNotFound, Body: routeNotFound, ContentType: "application/json"})
	}
}

func (f *FakeJira) login(w http.ResponseWriter, r *http.Request) {
	f.logins.Add(1)

	if reply := f.loginReply.Load(); reply != nil {
		writeFake(w, *reply)

		return
	}

	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil ||
		creds.Username != FakeJiraUsername || creds.Password != FakeJiraPassword {
		writeFake(w, FakeResponse{Status: http.StatusUnauthorized, Body: loginFailed, ContentType: "application/json"})

		return
	}

	f.mu.Lock()
	session := f.session
	f.mu.Unlock()

	//nolint:exhaustruct
	http.SetCookie(w, &http.Cookie{Name: fakeSessionCookie, Value: session, Path: "/", HttpOnly: true})
	writeFake(w, FakeResponse{
		Status:      http.StatusOK,
		Body:        `{"session":{"name":"JSESSIONID","value":"` + session + `"}}`,
		ContentType: "application/json",
	})
}

func writeFake(w http.ResponseWriter, resp FakeResponse) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp.Body)
}
