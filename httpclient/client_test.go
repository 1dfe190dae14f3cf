package httpclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andyle182810/jiraclient/httpclient"
	"github.com/andyle182810/jiraclient/jsondoc"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSession struct {
	client *resty.Client
	err    error
	calls  atomic.Int32
}

func (s *staticSession) Session(_ context.Context) (*resty.Client, error) {
	s.calls.Add(1)

	return s.client, s.err
}

func newStaticSession() *staticSession {
	return &staticSession{client: resty.New(), err: nil}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

func TestNew_TrimsTrailingSlashFromBaseURL(t *testing.T) {
	t.Parallel()

	client := httpclient.New("https://jira.example.com/", newStaticSession())

	require.Equal(t, "https://jira.example.com", client.BaseURL())
}

func TestClient_Get_ReturnsOrderedJSONResponse(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/api/2/priority", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"self": "x", "name": "Blocker", "id": "1"}`)
	})

	client := httpclient.New(server.URL, newStaticSession())

	resp, err := client.Get(t.Context(), "/rest/api/2/priority", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Equal(t, httpclient.BodyJSON, resp.Kind())

	doc, ok := resp.JSON()
	require.True(t, ok)

	obj, ok := jsondoc.AsObject(doc)
	require.True(t, ok)
	require.Equal(t, []string{"self", "name", "id"}, jsondoc.Keys(obj))
}

func TestClient_Get_SendsQueryParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params any
	}{
		{
			name:   "string map",
			params: map[string]string{"projectKeys": "ABC", "expand": "projects.issuetypes.fields"},
		},
		{
			name:   "url values",
			params: url.Values{"projectKeys": {"ABC"}, "expand": {"projects.issuetypes.fields"}},
		},
		{
			name:   "any map",
			params: map[string]any{"projectKeys": "ABC", "expand": "projects.issuetypes.fields"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "ABC", r.URL.Query().Get("projectKeys"))
				assert.Equal(t, "projects.issuetypes.fields", r.URL.Query().Get("expand"))
				w.WriteHeader(http.StatusOK)
			})

			client := httpclient.New(server.URL, newStaticSession())

			_, err := client.Get(t.Context(), "/rest/api/2/issue/createmeta", tt.params)
			require.NoError(t, err)
		})
	}
}

func TestClient_Get_FormatsNonStringQueryValues(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "true", r.URL.Query().Get("validateQuery"))
		assert.False(t, r.URL.Query().Has("startAt"))
		w.WriteHeader(http.StatusOK)
	})

	client := httpclient.New(server.URL, newStaticSession())

	_, err := client.Get(t.Context(), "/rest/api/2/search", map[string]any{
		"maxResults":    50,
		"validateQuery": true,
		"startAt":       nil,
	})
	require.NoError(t, err)
}

func TestClient_Post_SendsJSONBody(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Broken", payload["fields"]["summary"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": "10000", "key": "ABC-1"}`)
	})

	client := httpclient.New(server.URL, newStaticSession())

	resp, err := client.Post(t.Context(), "/rest/api/2/issue", map[string]any{
		"fields": map[string]string{"summary": "Broken"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
}

func TestClient_ResolvesRelativeURLAgainstBaseURL(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		paths []string
	)

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		w.WriteHeader(http.StatusOK)
	})

	client := httpclient.New(server.URL+"/", newStaticSession())

	_, err := client.Get(t.Context(), "/rest/api/2/project", nil)
	require.NoError(t, err)

	_, err = client.Get(t.Context(), "rest/api/2/project", nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()

	require.Equal(t, []string{"/rest/api/2/project", "/rest/api/2/project"}, paths)
}

func TestClient_UsesAbsoluteURLAsIs(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/elsewhere", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	client := httpclient.New("http://jira.invalid", newStaticSession())

	_, err := client.Get(t.Context(), server.URL+"/elsewhere", nil)
	require.NoError(t, err)
}

func TestClient_SetsAcceptAndRequestIDHeaders(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		w.WriteHeader(http.StatusOK)
	})

	client := httpclient.New(server.URL, newStaticSession())

	_, err := client.Get(t.Context(), "/", nil)
	require.NoError(t, err)
}

func TestWithDefaultHeaders_SetsCustomHeaders(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nocheck", r.Header.Get("X-Atlassian-Token"))
		w.WriteHeader(http.StatusOK)
	})

	client := httpclient.New(server.URL, newStaticSession(), httpclient.WithDefaultHeaders(map[string]string{
		"X-Atlassian-Token": "nocheck",
	}))

	_, err := client.Get(t.Context(), "/", nil)
	require.NoError(t, err)
}

func TestClient_Unauthorized(t *testing.T) {
	t.Parallel()

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"errorMessages": ["You are not authenticated."]}`)
			})

			client := httpclient.New(server.URL, newStaticSession())

			_, err := client.Do(t.Context(), method, "/rest/api/2/issue/ABC-1", nil)
			require.ErrorIs(t, err, httpclient.ErrUnauthorized)
			require.ErrorIs(t, err, httpclient.ErrAPI)

			apiErr, ok := httpclient.AsError(err)
			require.True(t, ok)
			require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode())
			require.Equal(t, []string{"You are not authenticated."}, apiErr.ErrorMessages())
		})
	}
}

func TestClient_StatusCodeClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  int
		success bool
	}{
		{status: http.StatusOK, success: true},
		{status: http.StatusCreated, success: true},
		{status: http.StatusNoContent, success: true},
		{status: http.StatusNotModified, success: false},
		{status: http.StatusBadRequest, success: false},
		{status: http.StatusForbidden, success: false},
		{status: http.StatusNotFound, success: false},
		{status: http.StatusInternalServerError, success: false},
		{status: http.StatusServiceUnavailable, success: false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			client := httpclient.New(server.URL, newStaticSession())

			resp, err := client.Get(t.Context(), "/", nil)
			if tt.success {
				require.NoError(t, err)
				require.Equal(t, tt.status, resp.StatusCode())

				return
			}

			require.ErrorIs(t, err, httpclient.ErrAPI)
			require.NotErrorIs(t, err, httpclient.ErrUnauthorized)

			apiErr, ok := httpclient.AsError(err)
			require.True(t, ok)
			require.Equal(t, tt.status, apiErr.StatusCode())
		})
	}
}

func TestClient_ErrorKeepsResponseBody(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"errorMessages": [], "errors": {"summary": "required", "priority": "bad"}}`)
	})

	client := httpclient.New(server.URL, newStaticSession())

	_, err := client.Post(t.Context(), "/rest/api/2/issue", map[string]any{"fields": map[string]any{}})

	apiErr, ok := httpclient.AsError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode())

	fields, errs := apiErr.FieldErrors()
	require.Equal(t, []string{"summary", "priority"}, fields)
	require.Equal(t, "required", errs["summary"])
}

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	serverURL := server.URL
	server.Close()

	client := httpclient.New(serverURL, newStaticSession())

	_, err := client.Get(t.Context(), "/rest/api/2/project", nil)
	require.ErrorIs(t, err, httpclient.ErrAPI)

	apiErr, ok := httpclient.AsError(err)
	require.True(t, ok)
	require.False(t, apiErr.HasStatus())
	require.Contains(t, apiErr.Text(), "connection refused")
	require.Equal(t, httpclient.BodyNone, apiErr.Kind())
}

func TestClient_TimeoutWithoutResponseIsInternalError(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}

		w.WriteHeader(http.StatusOK)
	})

	client := httpclient.New(server.URL, newStaticSession(), httpclient.WithTimeout(20*time.Millisecond))

	_, err := client.Get(t.Context(), "/slow", nil)

	apiErr, ok := httpclient.AsError(err)
	require.True(t, ok)
	require.Equal(t, "Internal Error", apiErr.Error())
	require.False(t, apiErr.HasStatus())
}

func TestClient_TimeoutDuringBodyIsTransportError(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"a":`)

		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	client := httpclient.New(server.URL, newStaticSession(), httpclient.WithTimeout(200*time.Millisecond))

	_, err := client.Get(t.Context(), "/stalled", nil)

	apiErr, ok := httpclient.AsError(err)
	require.True(t, ok)
	require.False(t, apiErr.HasStatus())
	require.False(t, apiErr.Unauthorized())
	require.Contains(t, apiErr.Error(), "deadline exceeded")
	require.NotEqual(t, "Internal error", apiErr.Error())
}

func TestClient_ReturnsSessionErrorUnchanged(t *testing.T) {
	t.Parallel()

	sessionErr := httpclient.NewUnauthorized("bad credentials")
	session := &staticSession{client: nil, err: sessionErr}

	client := httpclient.New("http://jira.invalid", session)

	_, err := client.Get(t.Context(), "/rest/api/2/project", nil)
	require.Same(t, sessionErr, err)
	require.True(t, httpclient.IsUnauthorized(err))
}

func TestClient_ClassifiesSessionTransportFailure(t *testing.T) {
	t.Parallel()

	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")} //nolint:err113,exhaustruct
	session := &staticSession{client: nil, err: fmt.Errorf("authsession: request failed: %w", dialErr)}

	client := httpclient.New("http://jira.invalid", session)

	_, err := client.Get(t.Context(), "/rest/api/2/project", nil)

	apiErr, ok := httpclient.AsError(err)
	require.True(t, ok)
	require.False(t, apiErr.HasStatus())
	require.Contains(t, apiErr.Error(), "connection refused")
}

func TestClient_UnsupportedQueryPayloadIsInternalError(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("request must not be sent")
		w.WriteHeader(http.StatusOK)
	})

	client := httpclient.New(server.URL, newStaticSession())

	_, err := client.Get(t.Context(), "/", []string{"not", "params"})

	apiErr, ok := httpclient.AsError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode())
	require.Equal(t, "Internal error", apiErr.Error())
}

func TestClient_ObtainsSessionForEveryCall(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	session := newStaticSession()
	client := httpclient.New(server.URL, session)

	for range 3 {
		_, err := client.Get(t.Context(), "/", nil)
		require.NoError(t, err)
	}

	require.Equal(t, int32(3), session.calls.Load())
}
