package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// ErrMockStream is returned when a stream is opened on a mock transport.
var ErrMockStream = errors.New("streaming not supported with mock transport")

// Config holds the per-request timeouts. Zero read or write timeouts disable
// the deadline.
type Config struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig suits a server on the same host.
var DefaultConfig = Config{
	DialTimeout:  3 * time.Second,
	ReadTimeout:  5 * time.Second,
	WriteTimeout: 5 * time.Second,
}

// Responder answers requests on a mock transport with a raw response line.
type Responder func(path string, payload any, pathParams map[string]string) (string, error)

// Transport speaks the padmap line protocol: one request line
// "<path> [payload]\n" per connection, answered by one line, or by a stream of
// lines for stream routes.
type Transport struct {
	addr    string
	cfg     Config
	respond Responder
}

// NewTransport returns a transport for addr using DefaultConfig.
func NewTransport(addr string) *Transport { return NewTransportWithConfig(addr, nil) }

// NewTransportWithConfig returns a transport for addr. A nil cfg selects
// DefaultConfig.
func NewTransportWithConfig(addr string, cfg *Config) *Transport {
	t := &Transport{addr: addr, cfg: DefaultConfig}
	if cfg != nil {
		t.cfg = *cfg
	}
	return t
}

// NewMockTransport returns a transport that never dials and answers every
// request with respond.
func NewMockTransport(respond Responder) *Transport {
	return &Transport{addr: "mock", cfg: DefaultConfig, respond: respond}
}

// Do is DoCtx with a background context.
func (c *Transport) Do(path string, payload any, pathParams map[string]string) (string, error) {
	return c.DoCtx(context.Background(), path, payload, pathParams)
}

// DoCtx sends one request and returns the response line without its newline.
//
// payload may be nil (no argument), []byte or string (sent verbatim), or any
// other value, which is sent as JSON.
func (c *Transport) DoCtx(ctx context.Context, path string, payload any, pathParams map[string]string) (string, error) {
	if c.respond != nil {
		return c.respond(path, payload, pathParams)
	}
	conn, err := c.open(ctx, path, payload, pathParams)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if c.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	}
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// Stream sends a request to a stream route and returns the open connection.
// The caller reads the streamed lines and must close it.
func (c *Transport) Stream(ctx context.Context, path string, payload any, pathParams map[string]string) (net.Conn, error) {
	if c.respond != nil {
		return nil, ErrMockStream
	}
	return c.open(ctx, path, payload, pathParams)
}

// open dials and writes the request line. The returned connection carries no
// deadlines.
func (c *Transport) open(ctx context.Context, path string, payload any, pathParams map[string]string) (net.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	req := requestLine(path, payload, pathParams)

	conn, err := (&net.Dialer{Timeout: c.cfg.DialTimeout}).DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if c.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	if _, err := conn.Write(req); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("write: %w", err)
	}
	_ = conn.SetWriteDeadline(time.Time{})
	return conn, nil
}

func requestLine(path string, payload any, pathParams map[string]string) []byte {
	line := []byte(fillPath(path, pathParams))
	if arg, ok := toPayloadBytes(payload); ok && len(arg) > 0 {
		line = append(append(line, ' '), arg...)
	}
	return append(line, '\n')
}

// fillPath substitutes {name} segments with escaped values and lowercases the
// result; the server matches paths case-insensitively.
func fillPath(pattern string, params map[string]string) string {
	for k, v := range params {
		pattern = strings.ReplaceAll(pattern, "{"+k+"}", url.PathEscape(v))
	}
	return strings.ToLower(pattern)
}

func toPayloadBytes(v any) ([]byte, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case []byte:
		return t, true
	case string:
		return []byte(t), true
	}
	b, err := json.Marshal(v)
	return b, err == nil
}
