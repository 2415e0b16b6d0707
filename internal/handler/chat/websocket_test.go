package chat_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatHandler "github.com/zerocost/scheduler-backend/internal/handler/chat"
	chatservice "github.com/zerocost/scheduler-backend/internal/service/chat"
	"github.com/zerocost/scheduler-backend/internal/store"
	"github.com/zerocost/scheduler-backend/internal/timectx"
)

func dialWebSocket(t *testing.T, completer chatservice.Completer) *websocket.Conn {
	t.Helper()

	svc := chatservice.NewService(store.NewMemory(time.Hour), timectx.NewBuilder(), completer)
	ws := chatHandler.NewWebSocketHandler(svc)

	r := chi.NewRouter()
	ws.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketTurn(t *testing.T) {
	conn := dialWebSocket(t, &stubCompleter{reply: "hello from ws"})

	if err := conn.WriteJSON(map[string]string{"message": "hi", "sessionId": "ws-1"}); err != nil {
		t.Fatal(err)
	}

	var reply struct {
		Response  string `json:"response"`
		SessionID string `json:"sessionId"`
		Error     string `json:"error"`
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	if reply.Error != "" {
		t.Fatalf("unexpected error %q", reply.Error)
	}
	if reply.Response != "hello from ws" || reply.SessionID != "ws-1" {
		t.Fatalf("unexpected reply %+v", reply)
	}
}

func TestWebSocketMintsSessionWhenAbsent(t *testing.T) {
	conn := dialWebSocket(t, &stubCompleter{reply: "ok"})

	if err := conn.WriteJSON(map[string]string{"message": "first"}); err != nil {
		t.Fatal(err)
	}
	var first struct {
		SessionID string `json:"sessionId"`
	}
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}
	if first.SessionID == "" {
		t.Fatal("expected a minted session id")
	}

	if err := conn.WriteJSON(map[string]string{"message": "second"}); err != nil {
		t.Fatal(err)
	}
	var second struct {
		SessionID string `json:"sessionId"`
	}
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatal(err)
	}
	if second.SessionID != first.SessionID {
		t.Fatalf("session id should stick to the connection: %q vs %q", first.SessionID, second.SessionID)
	}
}

func TestWebSocketEmptyMessageRejectedWithoutClosing(t *testing.T) {
	conn := dialWebSocket(t, &stubCompleter{reply: "ok"})

	if err := conn.WriteJSON(map[string]string{"message": ""}); err != nil {
		t.Fatal(err)
	}
	var reply struct {
		Error string `json:"error"`
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	if reply.Error != "Message is required" {
		t.Fatalf("unexpected error %q", reply.Error)
	}

	// The socket stays usable after a rejected frame.
	if err := conn.WriteJSON(map[string]string{"message": "still here"}); err != nil {
		t.Fatal(err)
	}
	var next struct {
		Response string `json:"response"`
	}
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatal(err)
	}
	if next.Response != "ok" {
		t.Fatalf("unexpected response %q", next.Response)
	}
}
