package api

import (
	"context"
	"log/slog"
	"net"
	"strings"
)

// Request carries one parsed command line.
type Request struct {
	Ctx    context.Context
	Params map[string]string
	Args   []string
}

// Response holds the single JSON line a handler replies with.
type Response struct {
	JSON string
}

// HandlerFunc serves one request/response command.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

// StreamHandlerFunc takes ownership of the connection after the command line.
type StreamHandlerFunc func(conn net.Conn, req *Request, logger *slog.Logger) error

type route[T any] struct {
	segments []string
	handler  T
}

// Router matches slash separated paths. A segment written as {name} matches
// any value and is returned as a parameter.
type Router struct {
	routes  []route[HandlerFunc]
	streams []route[StreamHandlerFunc]
}

// NewRouter returns an empty router.
func NewRouter() *Router { return &Router{} }

// Register adds a request/response handler.
func (r *Router) Register(pattern string, h HandlerFunc) {
	r.routes = append(r.routes, route[HandlerFunc]{segments: split(pattern), handler: h})
}

// RegisterStream adds a streaming handler.
func (r *Router) RegisterStream(pattern string, h StreamHandlerFunc) {
	r.streams = append(r.streams, route[StreamHandlerFunc]{segments: split(pattern), handler: h})
}

// Match returns the handler registered for path, or nil.
func (r *Router) Match(path string) (HandlerFunc, map[string]string) {
	return match(r.routes, path)
}

// MatchStream returns the stream handler registered for path, or nil.
func (r *Router) MatchStream(path string) (StreamHandlerFunc, map[string]string) {
	return match(r.streams, path)
}

func match[T any](routes []route[T], path string) (T, map[string]string) {
	segs := split(path)
	for _, rt := range routes {
		if params, ok := matchSegments(rt.segments, segs); ok {
			return rt.handler, params
		}
	}
	var zero T
	return zero, nil
}

func matchSegments(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			params[p[1:len(p)-1]] = segs[i]
			continue
		}
		if !strings.EqualFold(p, segs[i]) {
			return nil, false
		}
	}
	return params, true
}

func split(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}
