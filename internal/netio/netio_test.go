package netio

import (
	"net"
	"testing"
	"time"
)

func TestListenerAcceptWouldBlockThenConnects(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer l.Close()

	conn, err := l.Accept()
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if conn != nil {
		t.Fatal("expected no pending connection")
	}

	dialed, err := net.DialTimeout("tcp", l.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer dialed.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		conn, err = l.Accept()
		if err != nil {
			t.Fatalf("Accept: %v", err)
		}
		if conn != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for accepted connection")
		}
	}
	defer conn.Close()
}

func TestClientStreamReadAvailableWouldBlock(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	cs := NewClientStream(server)
	buf := make([]byte, 16)

	done := make(chan struct{})
	go func() {
		n, err := cs.ReadAvailable(buf)
		if err != nil {
			t.Errorf("ReadAvailable: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 bytes read, got %d", n)
		}
		close(done)
	}()
	<-done
}

func TestClientStreamWriteAndLeftover(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	cs := NewClientStream(server)
	cs.SetLeftover([]byte{1, 2, 3})
	if got := cs.Leftover(); len(got) != 3 {
		t.Fatalf("expected 3 leftover bytes, got %d", len(got))
	}

	written := make(chan error, 1)
	go func() { written <- cs.Write([]byte("hi")) }()

	buf := make([]byte, 2)
	if _, err := client.Read(buf); err != nil {
		t.Fatalf("client read: %v", err)
	}
	if string(buf) != "hi" {
		t.Fatalf("expected 'hi', got %q", buf)
	}
	if err := <-written; err != nil {
		t.Fatalf("Write: %v", err)
	}
}
