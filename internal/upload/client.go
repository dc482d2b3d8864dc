// Package upload pushes artifacts to the consumer. Each file gets its own
// TCP connection, torn down after the last byte: the payload is the display
// name terminated by a newline, then the raw file bytes with no length
// prefix or checksum. The receiver delimits the name by the newline and the
// body by connection close. Nothing is read back, and nothing is retried.
package upload

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Client sends files to one fixed consumer endpoint.
type Client struct {
	addr      string
	chunkSize int
}

// NewClient returns a client for host:port writing in chunkSize-byte pieces.
func NewClient(host string, port, chunkSize int) *Client {
	return &Client{
		addr:      net.JoinHostPort(host, strconv.Itoa(port)),
		chunkSize: chunkSize,
	}
}

// Addr returns the consumer endpoint in host:port form.
func (c *Client) Addr() string { return c.addr }

// Session describes one completed (or attempted) transfer. The ID exists
// for log correlation only; it never goes on the wire.
type Session struct {
	ID      string
	Bytes   int64
	Elapsed time.Duration
}

// Send streams the file at path to the consumer under the given display
// name. The returned session is valid even on error, carrying the id and
// however many payload bytes made it out before the failure.
//
// Dial, write, and read failures all surface as the returned error; the
// caller logs and moves on. There is no timeout: a stalled peer stalls the
// calling goroutine.
func (c *Client) Send(path, name string) (sess Session, err error) {
	sess.ID = uuid.NewString()
	start := time.Now()
	defer func() { sess.Elapsed = time.Since(start) }()

	f, err := os.Open(path)
	if err != nil {
		return sess, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	conn, err := net.Dial("tcp", c.addr)
	if err != nil {
		return sess, fmt.Errorf("dial %s: %w", c.addr, err)
	}
	defer conn.Close()

	// Name line first, on its own write so the receiver sees it promptly.
	if _, err := io.WriteString(conn, name+"\n"); err != nil {
		return sess, fmt.Errorf("send name %s: %w", name, err)
	}

	buf := make([]byte, c.chunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := conn.Write(buf[:n]); werr != nil {
				return sess, fmt.Errorf("send %s: %w", name, werr)
			}
			sess.Bytes += int64(n)
		}
		if rerr == io.EOF {
			return sess, nil
		}
		if rerr != nil {
			return sess, fmt.Errorf("read %s: %w", path, rerr)
		}
	}
}
