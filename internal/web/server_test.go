package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/devfolio/internal/config"
	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/feature"
	"github.com/Zachkp/devfolio/internal/session"
	"github.com/Zachkp/devfolio/internal/store"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
)

type testServer struct {
	*Server
	messages *store.MessageLog
	visitors *store.VisitorLog
}

func testConfig() config.Config {
	return config.Config{
		Port:              "0",
		StaticDir:         "./static",
		ImagesDir:         "./images",
		MessageMaxLen:     50,
		MessageRatePerMin: 100,
		VisitorRetention:  24 * time.Hour,
		SessionTTL:        time.Hour,
		HistoryLimit:      50,
		AdminUsername:     "admin",
		AdminPassword:     "hunter2",
		AdminSecret:       "test-secret",
	}
}

func newTestServer(t *testing.T, cfg config.Config, withVisitors bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := content.Load()
	require.NoError(t, err)
	messages := store.NewMessageLog(filepath.Join(t.TempDir(), "messages.json"), cfg.MessageMaxLen)
	inbox := NewInbox(messages, nil)

	shell, features := feature.Build(feature.Deps{Catalog: catalog, Messages: inbox})
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	var visitors *store.VisitorLog
	if withVisitors {
		visitors, err = store.OpenVisitorLog(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { visitors.Close() })
	}

	srv, err := New(Options{
		Config:   cfg,
		Terminal: terminal.New(shell, features, terminal.WithHistoryLimit(cfg.HistoryLimit)),
		Sessions: session.NewMemoryStore(cfg.SessionTTL),
		Inbox:    inbox,
		Visitors: visitors,
		Renderer: renderer,
	})
	require.NoError(t, err)
	return &testServer{Server: srv, messages: messages, visitors: visitors}
}

func (ts *testServer) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{Config: testConfig()})
	assert.Error(t, err)
}

func TestSecurityHeadersOnEveryResponse(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)

	for _, path := range []string{"/healthz", "/api/features", "/static/missing.css"} {
		w := ts.do(httptest.NewRequest(http.MethodGet, path, nil))
		h := w.Header()
		assert.Contains(t, h.Get("Content-Security-Policy"), "default-src 'self'", path)
		assert.Equal(t, "DENY", h.Get("X-Frame-Options"), path)
		assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"), path)
		assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"), path)
		assert.NotEmpty(t, h.Get("Permissions-Policy"), path)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)
	w := ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestFeaturesEndpoint(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)
	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/features", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal(t, feature.Names(), names)
}

func TestSendMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		code    int
		success bool
	}{
		{"valid", `{"message":"Hello there"}`, http.StatusOK, true},
		{"blank", `{"message":"   "}`, http.StatusBadRequest, false},
		{"missing", `{}`, http.StatusBadRequest, false},
		{"malformed", `{"message":`, http.StatusBadRequest, false},
		{"too long", `{"message":"` + strings.Repeat("x", 51) + `"}`, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, testConfig(), false)
			w := ts.do(jsonRequest(http.MethodPost, "/api/send-message", tt.body))
			assert.Equal(t, tt.code, w.Code)

			var out map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
			assert.Equal(t, tt.success, out["success"])
			if !tt.success {
				assert.NotEmpty(t, out["error"])
			}

			msgs, err := ts.messages.All()
			require.NoError(t, err)
			if tt.success {
				require.Len(t, msgs, 1)
				assert.Equal(t, "Hello there", msgs[0].Message)
				assert.Equal(t, "192.0.2.1", msgs[0].IP)
				assert.False(t, msgs[0].Timestamp.IsZero())
			} else {
				assert.Empty(t, msgs)
			}
		})
	}
}

func TestSendMessageRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.MessageRatePerMin = 2
	ts := newTestServer(t, cfg, false)

	for i := 0; i < 2; i++ {
		w := ts.do(jsonRequest(http.MethodPost, "/api/send-message", `{"message":"hi"}`))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := ts.do(jsonRequest(http.MethodPost, "/api/send-message", `{"message":"hi"}`))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Too many messages. Please try again later."}`, w.Body.String())

	other := jsonRequest(http.MethodPost, "/api/send-message", `{"message":"hi"}`)
	other.RemoteAddr = "198.51.100.7:4000"
	assert.Equal(t, http.StatusOK, ts.do(other).Code)

	msgs, err := ts.messages.All()
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestSendMessageIgnoresForwardedForByDefault(t *testing.T) {
	cfg := testConfig()
	cfg.MessageRatePerMin = 2
	ts := newTestServer(t, cfg, false)

	var codes []int
	for i := 0; i < 6; i++ {
		req := jsonRequest(http.MethodPost, "/api/send-message", `{"message":"hi"}`)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		codes = append(codes, ts.do(req).Code)
	}
	assert.Equal(t, []int{200, 200, 429, 429, 429, 429}, codes)

	msgs, err := ts.messages.All()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, "192.0.2.1", m.IP)
	}
}

func TestSendMessageHonorsTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.TrustedProxies = []string{"192.0.2.0/24"}
	ts := newTestServer(t, cfg, false)

	req := jsonRequest(http.MethodPost, "/api/send-message", `{"message":"hi"}`)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	require.Equal(t, http.StatusOK, ts.do(req).Code)

	msgs, err := ts.messages.All()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "203.0.113.9", msgs[0].IP)
}

func TestIndexRendersShell(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)
	w := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "visitor@devfolio:~$")
	assert.Contains(t, body, `data-theme="dark"`)
	assert.Contains(t, body, `data-command="start challenges"`)
	assert.Contains(t, body, ".chroma")
	assert.NotNil(t, cookieNamed(w, sessionCookie))
}

func postTerminal(t *testing.T, ts *testServer, command string, cookies ...*http.Cookie) (terminalResponse, *httptest.ResponseRecorder) {
	t.Helper()
	body, err := json.Marshal(terminalRequest{Command: command})
	require.NoError(t, err)
	w := ts.do(jsonRequest(http.MethodPost, "/api/terminal", string(body)), cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out terminalResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out, w
}

func TestTerminalJSONKeepsSessionAcrossRequests(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)

	out, w := postTerminal(t, ts, "start challenges")
	cookie := cookieNamed(w, sessionCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, "challenges", out.Feature)
	assert.Equal(t, "visitor@devfolio:~/challenges$", out.Prompt)
	require.NotEmpty(t, out.Lines)
	assert.Equal(t, "Started Coding Challenges. Type 'help' for commands, 'exit' to leave.", out.Lines[0].Text)

	out, _ = postTerminal(t, ts, "select two-sum", cookie)
	assert.Equal(t, "Selected challenge: Two Sum (easy).", out.Lines[0].Text)
	require.NotNil(t, out.Tab)
	assert.Equal(t, "challenge-editor:two-sum", out.Tab.ID)
	assert.Contains(t, string(out.Tab.HTML), "twoSum")

	out, _ = postTerminal(t, ts, "test", cookie)
	assert.Contains(t, out.Lines[len(out.Lines)-1].Text, "0/3 tests passed")

	// A request without the cookie gets a fresh session.
	out, _ = postTerminal(t, ts, "test")
	assert.Equal(t, "", out.Feature)
	assert.Equal(t, "command not found: test. Type 'help' for available commands.", out.Lines[0].Text)
}

func TestTerminalJSONReturnsRawText(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)
	out, _ := postTerminal(t, ts, "<script>")
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "error", string(out.Lines[0].Kind))
	assert.Contains(t, out.Lines[0].Text, "command not found: <script>")
	assert.Nil(t, out.Tab)
}

func TestTerminalJSONRejectsBadBody(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)
	w := ts.do(jsonRequest(http.MethodPost, "/api/terminal", "not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTerminalThemeIsReported(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)
	out, w := postTerminal(t, ts, "theme dracula")
	assert.Equal(t, "dracula", out.Theme)

	w = ts.do(httptest.NewRequest(http.MethodGet, "/", nil), cookieNamed(w, sessionCookie))
	assert.Contains(t, w.Body.String(), `data-theme="dracula"`)
}

func TestTerminalFragment(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)

	w := ts.do(formRequest("/terminal", url.Values{"command": {"help"}}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "Available commands:")
	assert.Contains(t, body, `class="line line-command"`)
	assert.Contains(t, body, `id="prompt" hx-swap-oob="true"`)
	assert.NotContains(t, body, `id="editor"`)
	assert.JSONEq(t, `{"theme-changed":"dark"}`, w.Header().Get("HX-Trigger"))

	cookie := cookieNamed(w, sessionCookie)
	w = ts.do(formRequest("/terminal", url.Values{"command": {"about"}}), cookie)
	assert.Contains(t, w.Body.String(), `id="editor" class="editor-body" hx-swap-oob="true"`)

	w = ts.do(formRequest("/terminal", url.Values{"command": {"clear"}}), cookie)
	assert.Equal(t, "innerHTML", w.Header().Get("HX-Reswap"))
}

func TestTerminalFragmentEscapesInput(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)
	w := ts.do(formRequest("/terminal", url.Values{"command": {"<img src=x onerror=alert(1)>"}}))
	body := w.Body.String()
	assert.NotContains(t, body, "<img")
	assert.Contains(t, body, "&lt;img")
}

func TestComplete(t *testing.T) {
	ts := newTestServer(t, testConfig(), false)
	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/complete?prefix=st", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Matches []string `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Contains(t, out.Matches, "start")

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/complete?prefix=zzz", nil))
	assert.JSONEq(t, `{"matches":[]}`, w.Body.String())
}

func TestVisitorTracking(t *testing.T) {
	ts := newTestServer(t, testConfig(), true)

	dnt := httptest.NewRequest(http.MethodGet, "/", nil)
	dnt.Header.Set("DNT", "1")
	ts.do(dnt)
	ts.do(httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))
	ts.do(jsonRequest(http.MethodPost, "/api/send-message", `{"message":"hi"}`))
	ts.do(httptest.NewRequest(http.MethodGet, "/api/features", nil))

	require.Eventually(t, func() bool {
		stats, err := ts.visitors.Stats(context.Background())
		return err == nil && stats.TotalVisitors == 1
	}, 2*time.Second, 10*time.Millisecond)

	recent, err := ts.visitors.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "/api/features", recent[0].Path)
	assert.NotContains(t, recent[0].HashedIP, "192.0.2.1")
}

func TestStaticAssetTypes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.webmanifest"), []byte("{}"), 0o644))

	cfg := testConfig()
	cfg.StaticDir = dir
	ts := newTestServer(t, cfg, false)

	tests := map[string]string{
		"/static/css/site.css":     "text/css",
		"/static/site.webmanifest": "application/manifest+json",
	}
	for path, want := range tests {
		w := ts.do(httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Header().Get("Content-Type"), want, path)
	}
}
