package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"todohub/internal/models"
	"todohub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func newWSServer(s *service.Service) *httptest.Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsActivity)
	return httptest.NewServer(r)
}

func wsURL(srv *httptest.Server, query url.Values) string {
	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query.Encode()
	return u.String()
}

func TestWebSocket_ActivityStream(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	activity := &mockActivity{
		latestSeq: 3,
		listAfterRes: []models.ActivityEvent{
			{Seq: 4, EventID: "e4", OwnerID: 7, OccurredAt: now, Type: models.EventTodoCreated, Message: "todo created: buy milk"},
		},
	}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 7, parseName: "alice"},
		Activity:      activity,
	}

	srv := newWSServer(s)
	defer srv.Close()

	q := url.Values{}
	q.Set("token", "valid")
	q.Set("interval_ms", "20") // fast ticks for the test
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(wsURL(srv, q), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if env.Type != "activity" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var ev models.ActivityEvent
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if ev.EventID != "e4" || ev.Type != models.EventTodoCreated {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestWebSocket_RejectsBadToken(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{parseErr: errors.New("expired")},
		Activity:      &mockActivity{},
	}

	srv := newWSServer(s)
	defer srv.Close()

	q := url.Values{}
	q.Set("token", "expired")
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, resp, err := dialer.Dial(wsURL(srv, q), nil)
	if err == nil {
		conn.Close()
		t.Fatalf("expected handshake rejection")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}

func TestWebSocket_CursorFailureClosesBeforeUpgrade(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{parseID: 7},
		Activity:      &mockActivity{latestSeqErr: errors.New("store down")},
	}

	srv := newWSServer(s)
	defer srv.Close()

	q := url.Values{}
	q.Set("token", "valid")
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, resp, err := dialer.Dial(wsURL(srv, q), nil)
	if err == nil {
		conn.Close()
		t.Fatalf("expected handshake rejection")
	}
	if resp == nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 handshake response, got %+v", resp)
	}
}
