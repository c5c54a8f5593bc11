package apiclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/Alia5/padmap/apitypes"
)

// Client provides a high-level interface to the padmap API, handling request
// formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client using the internal low-level Transport.
// The addr parameter specifies the TCP address (host:port) of the API server.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport implementation.
// This is primarily useful for testing.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the server identity and version.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	line, err := c.transport.DoCtx(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](line)
}

// MappingGet returns the working mapping table.
func (c *Client) MappingGet() (*apitypes.MappingResponse, error) {
	return c.MappingGetCtx(context.Background())
}

func (c *Client) MappingGetCtx(ctx context.Context) (*apitypes.MappingResponse, error) {
	line, err := c.transport.DoCtx(ctx, "mapping/get", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.MappingResponse](line)
}

// MappingSet assigns usages to buttons. Each assignment is "button=usage".
func (c *Client) MappingSet(assignments ...string) (*apitypes.MappingResponse, error) {
	return c.MappingSetCtx(context.Background(), assignments...)
}

func (c *Client) MappingSetCtx(ctx context.Context, assignments ...string) (*apitypes.MappingResponse, error) {
	if len(assignments) == 0 {
		return nil, errors.New("no assignments")
	}
	line, err := c.transport.DoCtx(ctx, "mapping/set", strings.Join(assignments, " "), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.MappingResponse](line)
}

// MappingReset restores the default table.
func (c *Client) MappingReset() (*apitypes.MappingResponse, error) {
	return c.MappingResetCtx(context.Background())
}

func (c *Client) MappingResetCtx(ctx context.Context) (*apitypes.MappingResponse, error) {
	line, err := c.transport.DoCtx(ctx, "mapping/reset", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.MappingResponse](line)
}

// Control injects a raw control request. setup is the 8-byte setup packet.
func (c *Client) Control(setup, data []byte) (*apitypes.ControlResponse, error) {
	return c.ControlCtx(context.Background(), setup, data)
}

func (c *Client) ControlCtx(ctx context.Context, setup, data []byte) (*apitypes.ControlResponse, error) {
	payload := hex.EncodeToString(setup)
	if len(data) > 0 {
		payload += " " + hex.EncodeToString(data)
	}
	line, err := c.transport.DoCtx(ctx, "control", payload, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.ControlResponse](line)
}

// EndpointOut completes an OUT transfer on ep.
func (c *Client) EndpointOut(ep uint8, data []byte) (*apitypes.OutResponse, error) {
	return c.EndpointOutCtx(context.Background(), ep, data)
}

func (c *Client) EndpointOutCtx(ctx context.Context, ep uint8, data []byte) (*apitypes.OutResponse, error) {
	pathParams := map[string]string{"ep": fmt.Sprintf("%d", ep)}
	line, err := c.transport.DoCtx(ctx, "endpoint/{ep}/out", hex.EncodeToString(data), pathParams)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.OutResponse](line)
}

// State returns modes, input and counters.
func (c *Client) State() (*apitypes.StateResponse, error) {
	return c.StateCtx(context.Background())
}

func (c *Client) StateCtx(ctx context.Context) (*apitypes.StateResponse, error) {
	line, err := c.transport.DoCtx(ctx, "state", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.StateResponse](line)
}

// Press holds inputs such as "start+tl" for d, or until Release when d is 0.
func (c *Client) Press(inputs string, d time.Duration) (*apitypes.PressResponse, error) {
	return c.PressCtx(context.Background(), inputs, d)
}

func (c *Client) PressCtx(ctx context.Context, inputs string, d time.Duration) (*apitypes.PressResponse, error) {
	payload := strings.ReplaceAll(inputs, " ", "")
	if d > 0 {
		payload += " " + d.String()
	}
	line, err := c.transport.DoCtx(ctx, "input/press", payload, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PressResponse](line)
}

// Release releases inputs held by Press.
func (c *Client) Release() (*apitypes.PressResponse, error) {
	return c.ReleaseCtx(context.Background())
}

func (c *Client) ReleaseCtx(ctx context.Context) (*apitypes.PressResponse, error) {
	line, err := c.transport.DoCtx(ctx, "input/release", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PressResponse](line)
}

// ModeSet overrides the mode flags with "mapping=on" or "dpad=hat" style
// arguments. With no arguments it returns the current flags.
func (c *Client) ModeSet(args ...string) (*apitypes.ModeResponse, error) {
	return c.ModeSetCtx(context.Background(), args...)
}

func (c *Client) ModeSetCtx(ctx context.Context, args ...string) (*apitypes.ModeResponse, error) {
	var payload any
	if len(args) > 0 {
		payload = strings.Join(args, " ")
	}
	line, err := c.transport.DoCtx(ctx, "mode/set", payload, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.ModeResponse](line)
}

// ReportStream yields input reports streamed by the server.
type ReportStream struct {
	conn net.Conn
	r    *bufio.Reader
}

// Reports opens the report stream. The first report is the current one.
func (c *Client) Reports(ctx context.Context) (*ReportStream, error) {
	conn, err := c.transport.Stream(ctx, "reports", nil, nil)
	if err != nil {
		return nil, err
	}
	return &ReportStream{conn: conn, r: bufio.NewReader(conn)}, nil
}

// Next blocks for the next report.
func (s *ReportStream) Next() (*apitypes.Report, error) {
	line, err := s.r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	return parse[apitypes.Report](strings.TrimSuffix(line, "\n"))
}

// Close ends the stream.
func (s *ReportStream) Close() error { return s.conn.Close() }

func parse[T any](line string) (*T, error) {
	if line == "" {
		return nil, errors.New("empty response")
	}
	var ae apitypes.ApiError
	if err := json.Unmarshal([]byte(line), &ae); err == nil && ae.Error != "" {
		return nil, errors.New(ae.Error)
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
