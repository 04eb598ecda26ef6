// Package hostio connects a scripting host to the dispatcher over a
// line-oriented stream. Each request is one line of the form
// "COMMAND|arg|arg" and each response is one JSON array line:
//
//	["ok"]
//	["ok", <result>]
//	["error", "<message>"]
package hostio

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/OCAP2/fleet/internal/dispatcher"
	"github.com/OCAP2/fleet/internal/util"
)

// DefaultOutputSize is the response size the host accepts by default.
const DefaultOutputSize = 10240

// Dispatcher is the part of dispatcher.Dispatcher the server needs.
type Dispatcher interface {
	HasHandler(command string) bool
	Dispatch(e dispatcher.Event) (any, error)
}

// Server answers host calls.
type Server struct {
	d          Dispatcher
	version    string
	outputSize int
	log        *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the string returned for ":VERSION:" when no handler is registered.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithOutputSize caps each response, mirroring the host's fixed output buffer.
func WithOutputSize(n int) Option {
	return func(s *Server) { s.outputSize = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// NewServer creates a Server routing calls to d.
func NewServer(d Dispatcher, opts ...Option) *Server {
	s := &Server{
		d:          d,
		version:    "No version set",
		outputSize: DefaultOutputSize,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Call handles a single request line and returns the response.
func (s *Server) Call(line string) string {
	command, args := util.SplitCommand(line)

	switch {
	case command == ":TIMESTAMP:":
		return s.reply(formatResponse(getTimestamp(), nil))
	case s.d != nil && s.d.HasHandler(command):
		result, err := s.d.Dispatch(dispatcher.Event{
			Command:   command,
			Args:      args,
			Timestamp: time.Now(),
		})
		return s.reply(formatResponse(result, err))
	case command == ":VERSION:":
		return s.reply(formatResponse(s.version, nil))
	}
	return s.reply(formatResponse(nil, fmt.Errorf("no handler registered for %s", command)))
}

// Serve reads request lines from r and writes one response line per request to
// w until r is exhausted or ctx is cancelled. Blank lines are ignored.
//
// Reads happen on a separate goroutine so cancellation is noticed while the
// host is idle. That goroutine stays blocked in r until the next line or EOF;
// callers that need it released close r themselves.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
		readErr <- sc.Err()
	}()

	bw := bufio.NewWriter(w)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("reading requests: %w", err)
			}
			return nil
		case line = <-lines:
		}

		if line == "" {
			continue
		}
		if _, err := bw.WriteString(s.Call(line) + "\n"); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
}

// reply replaces a response the host could not hold with an error. Cutting it
// would leave the host with broken JSON.
func (s *Server) reply(response string) string {
	if s.outputSize <= 0 || len(response) <= s.outputSize {
		return response
	}
	s.log.Warn("response too large", "size", len(response), "limit", s.outputSize)
	msg := formatResponse(nil, fmt.Errorf("response too large: %d bytes, limit %d", len(response), s.outputSize))
	if len(msg) > s.outputSize {
		return formatResponse(nil, errTooLarge)
	}
	return msg
}

var errTooLarge = errors.New("response too large")

// formatResponse encodes a dispatcher result for the host.
func formatResponse(result any, err error) string {
	if err != nil {
		msg, _ := json.Marshal(err.Error())
		return fmt.Sprintf(`["error", %s]`, msg)
	}
	if result == nil {
		return `["ok"]`
	}
	data, mErr := json.Marshal(result)
	if mErr != nil {
		return formatResponse(nil, fmt.Errorf("encoding result: %w", mErr))
	}
	return fmt.Sprintf(`["ok", %s]`, data)
}

func getTimestamp() string {
	return strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
}
