package tcpclient

import (
	"bytes"
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"
)

// startEchoServer accepts framed requests and echoes each payload back in
// a response frame.
func startEchoServer(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}

			go func(conn net.Conn) {
				defer conn.Close()
				for {
					payload, err := readFrame(conn)
					if err != nil {
						return
					}
					if err := writeFrame(conn, payload); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	return listener.Addr().String()
}

func TestClient_Call(t *testing.T) {
	addr := startEchoServer(t)

	client, err := NewClient(addr, 2*time.Second, 2)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer client.Close()

	request := []byte("segmentation request")
	response, err := client.Call(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(response, request) {
		t.Errorf("response %q, expected %q", response, request)
	}
}

func TestClient_SequentialCallsReuseThePool(t *testing.T) {
	addr := startEchoServer(t)

	client, err := NewClient(addr, 2*time.Second, 1)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer client.Close()

	for i := 0; i < 5; i++ {
		if _, err := client.Call(context.Background(), []byte{byte(i)}); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	addr := startEchoServer(t)

	client, err := NewClient(addr, 2*time.Second, 1)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer client.Close()

	// Hold the single pooled connection so Call has to wait on the context.
	conn := <-client.connections
	defer func() { client.connections <- conn }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Call(ctx, []byte("late")); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestClient_CloseWithCallInFlight(t *testing.T) {
	addr := startEchoServer(t)

	client, err := NewClient(addr, 2*time.Second, 1)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	// Take the pooled connection as an in-flight call would, then shut
	// down before it is returned.
	conn := <-client.connections
	client.Close()

	client.release(conn)

	if _, err := client.Call(context.Background(), []byte("late")); err != ErrClientClosed {
		t.Errorf("expected ErrClientClosed, got %v", err)
	}
}

func TestClient_CloseTwice(t *testing.T) {
	addr := startEchoServer(t)

	client, err := NewClient(addr, 2*time.Second, 1)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	client.Close()
	client.Close()
}

func TestClient_DialFailure(t *testing.T) {
	if _, err := NewClient("127.0.0.1:1", 200*time.Millisecond, 1); err == nil {
		t.Error("expected an error when no server is listening")
	}
}

func TestReadFrame_RejectsOversizedFrame(t *testing.T) {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], maxFrameSize+1)

	if _, err := readFrame(bytes.NewReader(header[:])); err != ErrFrameTooBig {
		t.Errorf("expected ErrFrameTooBig, got %v", err)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("framed payload")

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatal(err)
	}

	got, err := readFrame(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip gave %q, expected %q", got, payload)
	}
}
