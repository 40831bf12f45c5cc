package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialTestTransport stands up a WebSocket server whose connection is wrapped
// in a WSTransport with a running write pump, and dials it.
func dialTestTransport(t *testing.T) (*WSTransport, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	transportCh := make(chan *WSTransport, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		transport := NewWSTransport(conn)
		go transport.WritePump()
		transportCh <- transport

		transport.ReadPump(func([]byte) {})
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial test server: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case transport := <-transportCh:
		return transport, client
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server-side transport")
		return nil, nil
	}
}

func TestWSTransport_SendReachesPeer(t *testing.T) {
	transport, client := dialTestTransport(t)

	if err := transport.Send([]byte(`{"type":"CHAT"}`)); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("client read failed: %v", err)
	}
	if string(data) != `{"type":"CHAT"}` {
		t.Errorf("client received %q", data)
	}
}

func TestWSTransport_CloseDeliversSessionReplacedCode(t *testing.T) {
	transport, client := dialTestTransport(t)

	if err := transport.Close(CloseCodeSessionReplaced, "superseded"); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := client.ReadMessage()

	closeErr, ok := err.(*websocket.CloseError)
	if !ok {
		t.Fatalf("client read error = %v, want *websocket.CloseError", err)
	}
	if closeErr.Code != CloseCodeSessionReplaced {
		t.Errorf("close code = %d, want %d", closeErr.Code, CloseCodeSessionReplaced)
	}
	if closeErr.Text != "superseded" {
		t.Errorf("close reason = %q, want %q", closeErr.Text, "superseded")
	}
}

func TestWSTransport_CloseIsSafeAgainstConcurrentSends(t *testing.T) {
	transport, client := dialTestTransport(t)

	// Keep the client draining so the write pump stays busy on the socket
	// while Close lands.
	go func() {
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if err := transport.Send([]byte("frame")); err != nil {
					return
				}
			}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	if err := transport.Close(CloseCodeSessionReplaced, "superseded"); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	transport.Close(CloseCodeSessionReplaced, "superseded") // idempotent

	wg.Wait()

	// Sends after close fail instead of panicking on a closed channel.
	if err := transport.Send([]byte("late")); err == nil {
		t.Error("Send() after Close succeeded, want error")
	}
}
