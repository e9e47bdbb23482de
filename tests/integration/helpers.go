package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-go/v2"
)

const (
	ServerKey = "defaultkey"
	HttpKey   = "defaulthttpkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

type TestClient struct {
	Client  *nakama.Client
	Session *nakama.Session
	Socket  *nakama.Socket
	UserID  string
}

func NewTestClient(t *testing.T) *TestClient {
	client := nakama.NewClient(ServerKey, Host, Port, false)

	// Create unique ID
	deviceID := fmt.Sprintf("test_device_%d", time.Now().UnixNano())

	// Authenticate
	session, err := client.AuthenticateDevice(context.Background(), deviceID, true, "")
	if err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}

	// Create Socket (notifications arrive over it)
	socket := client.NewSocket()
	if err := socket.Connect(context.Background(), session, true); err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}

	return &TestClient{
		Client:  client,
		Session: session,
		Socket:  socket,
		UserID:  session.UserId,
	}
}

func (tc *TestClient) Close() {
	if tc.Socket != nil {
		tc.Socket.Close()
	}
}

// Rpc calls a server RPC with a JSON payload and decodes the JSON response
// into out (pass nil to discard).
func (tc *TestClient) Rpc(t *testing.T, id string, payload interface{}, out interface{}) error {
	t.Helper()

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload for %s: %v", id, err)
	}
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, id, string(b))
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal([]byte(rpc.Payload), out); err != nil {
			t.Fatalf("Failed to unmarshal %s response %q: %v", id, rpc.Payload, err)
		}
	}
	return nil
}

// WaitForNotification blocks until a push with the given notification_type
// arrives or the timeout elapses.
func (tc *TestClient) WaitForNotification(t *testing.T, kind string, timeout time.Duration) map[string]interface{} {
	ch := make(chan map[string]interface{}, 1)

	originalHandler := tc.Socket.OnNotification
	tc.Socket.OnNotification = func(n *rtapi.Notification) {
		var content map[string]interface{}
		if err := json.Unmarshal([]byte(n.Content), &content); err == nil {
			if got, _ := content["notification_type"].(string); got == kind {
				select {
				case ch <- content:
				default:
				}
			}
		}
		if originalHandler != nil {
			originalHandler(n)
		}
	}

	select {
	case content := <-ch:
		return content
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for notification %q", kind)
		return nil
	}
}
