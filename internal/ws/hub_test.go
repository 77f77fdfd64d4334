package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cashdunia/internal/domain"
	"cashdunia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestPublishReachesEveryConnectionOfUser(t *testing.T) {
	hub := NewHub()
	a := &Client{UserID: 1, Send: make(chan []byte, 1), Hub: hub}
	b := &Client{UserID: 1, Send: make(chan []byte, 1), Hub: hub}
	other := &Client{UserID: 2, Send: make(chan []byte, 1), Hub: hub}
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)

	hub.Publish(1, domain.AccountEvent{Type: domain.EventAccountUpdated, Op: "claim_slot", Coins: 5})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			var ev domain.AccountEvent
			if err := json.Unmarshal(msg, &ev); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if ev.Op != "claim_slot" || ev.Coins != 5 {
				t.Fatalf("unexpected event %+v", ev)
			}
		default:
			t.Fatal("event not delivered")
		}
	}
	if len(other.Send) != 0 {
		t.Fatal("event leaked to another user")
	}
}

func TestPublishDropsForSlowClient(t *testing.T) {
	hub := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte, 1), Hub: hub}
	hub.Register(c)

	done := make(chan struct{})
	go func() {
		hub.Publish(1, domain.AccountEvent{Op: "first"})
		hub.Publish(1, domain.AccountEvent{Op: "second"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full client")
	}
	if len(c.Send) != 1 {
		t.Fatalf("queued %d events", len(c.Send))
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	c := &Client{UserID: 3, Send: make(chan []byte, 1), Hub: hub}
	hub.Register(c)
	hub.Unregister(c)
	hub.Unregister(c)

	if _, ok := <-c.Send; ok {
		t.Fatal("send channel still open")
	}
	if hub.Connections(3) != 0 {
		t.Fatal("client still registered")
	}
}

func TestHandleWSDeliversEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service.InitJWT("ws-secret", time.Hour)
	hub := NewHub()

	r := gin.New()
	r.GET("/ws", HandleWS(hub, ""))
	srv := httptest.NewServer(r)
	defer srv.Close()

	token, err := service.GenerateJWT(9)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, msg, err := conn.ReadMessage()
	if err != nil || !strings.Contains(string(msg), MsgReady) {
		t.Fatalf("ready message %q err %v", msg, err)
	}

	hub.Publish(9, domain.AccountEvent{Type: domain.EventAccountUpdated, Op: "record_gem", GemsThisLevel: 2})
	_, msg, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	if !strings.Contains(string(msg), `"op":"record_gem"`) {
		t.Fatalf("unexpected event %s", msg)
	}
}

func TestHandleWSRejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service.InitJWT("ws-secret", time.Hour)

	r := gin.New()
	r.GET("/ws", HandleWS(NewHub(), ""))
	for _, q := range []string{"", "?token=nope"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/ws"+q, nil))
		if w.Code != 401 {
			t.Fatalf("query %q: status %d", q, w.Code)
		}
	}
}
