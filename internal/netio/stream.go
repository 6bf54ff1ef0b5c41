package netio

import (
	"net"
	"sync"
	"time"
)

// ClientStream owns one player's TCP socket behind a writer lock, plus a
// per-connection leftover-byte buffer distinct from the socket lock (spec
// §3 ClientStream, §5 "Shared-resource policy").
type ClientStream struct {
	conn net.Conn

	writeMu sync.Mutex

	leftoverMu sync.Mutex
	leftover   []byte

	lastActivity time.Time
}

// NewClientStream wraps an accepted connection.
func NewClientStream(conn net.Conn) *ClientStream {
	return &ClientStream{conn: conn, lastActivity: time.Now()}
}

// RemoteAddr reports the peer address, for logging.
func (c *ClientStream) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// ReadAvailable performs one non-blocking read attempt into buf. n==0,
// err==nil means WouldBlock — no data was available. Any other error is
// fatal and the caller should transition the entity to Disconnecting.
func (c *ClientStream) ReadAvailable(buf []byte) (int, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(pollDeadline)); err != nil {
		return 0, err
	}
	n, err := c.conn.Read(buf)
	if err != nil {
		if isTimeout(err) {
			return n, nil
		}
		return n, err
	}
	c.lastActivity = time.Now()
	return n, nil
}

// Write takes the writer lock and flushes b in full. A write error is
// always fatal (spec §9 Open Question: treat send errors as BrokenPipe,
// never panic).
func (c *ClientStream) Write(b []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return err
	}
	_, err := c.conn.Write(b)
	return err
}

// Leftover returns the undecoded trailing bytes from the previous tick.
func (c *ClientStream) Leftover() []byte {
	c.leftoverMu.Lock()
	defer c.leftoverMu.Unlock()
	return c.leftover
}

// SetLeftover stores the undecoded tail for the next tick.
func (c *ClientStream) SetLeftover(b []byte) {
	c.leftoverMu.Lock()
	defer c.leftoverMu.Unlock()
	c.leftover = b
}

// LastActivity reports when data was last read from the socket.
func (c *ClientStream) LastActivity() time.Time { return c.lastActivity }

// Close closes the underlying connection.
func (c *ClientStream) Close() error { return c.conn.Close() }
