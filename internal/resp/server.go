// Package resp serves draws over the Redis protocol so that any Redis
// client can use the generator, e.g. `redis-cli -p 6380 RANDINT 1 6`.
package resp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/tidwall/redcon"

	"github.com/merkator/randgen/internal/logger"
	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/sample"
	"github.com/merkator/randgen/internal/shuffle"
	"github.com/merkator/randgen/internal/wire"
)

var ErrWrongNumArgs = errors.New("wrong number of arguments")

// client is the per-connection state. redcon runs each connection on its
// own goroutine, so the engine has a single owner.
type client struct {
	gen *randgen.Engine
}

// Server answers draw commands. Each connection gets a private engine.
type Server struct {
	newEngine func() *randgen.Engine
	conns     int64
	commands  uint64
}

// NewServer creates a server. newEngine supplies each connection's engine;
// nil selects randgen.NewFast.
func NewServer(newEngine func() *randgen.Engine) *Server {
	if newEngine == nil {
		newEngine = randgen.NewFast
	}
	return &Server{newEngine: newEngine}
}

// ListenAndServe listens on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("resp listen: %w", err)
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	logger.Info("RESP server listening", "addr", ln.Addr().String())
	err = s.Serve(ln)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Serve accepts connections on ln until ln is closed.
func (s *Server) Serve(ln net.Listener) error {
	return redcon.Serve(ln, s.handle, s.accept, s.closed)
}

// Connections returns the number of open connections.
func (s *Server) Connections() int64 {
	return atomic.LoadInt64(&s.conns)
}

// Commands returns how many commands have been handled.
func (s *Server) Commands() uint64 {
	return atomic.LoadUint64(&s.commands)
}

func (s *Server) accept(conn redcon.Conn) bool {
	conn.SetContext(&client{gen: s.newEngine()})
	atomic.AddInt64(&s.conns, 1)
	logger.Debug("RESP client connected", "remote", conn.RemoteAddr())
	return true
}

func (s *Server) closed(conn redcon.Conn, err error) {
	atomic.AddInt64(&s.conns, -1)
	if err != nil {
		logger.Debug("RESP client closed", "remote", conn.RemoteAddr(), "error", err)
	}
}

func commandArgs(cmd redcon.Command) []string {
	args := make([]string, len(cmd.Args))
	args[0] = strings.ToLower(string(cmd.Args[0]))
	for i := 1; i < len(cmd.Args); i++ {
		args[i] = string(cmd.Args[i])
	}
	return args
}

func writeErr(conn redcon.Conn, name string, err error) {
	if errors.Is(err, ErrWrongNumArgs) {
		conn.WriteError(fmt.Sprintf("ERR wrong number of arguments for '%s' command", name))
		return
	}
	conn.WriteError("ERR " + err.Error())
}

func (s *Server) handle(conn redcon.Conn, cmd redcon.Command) {
	atomic.AddUint64(&s.commands, 1)
	c := conn.Context().(*client)
	args := commandArgs(cmd)

	switch args[0] {
	case "ping":
		switch len(args) {
		case 1:
			conn.WriteString("PONG")
		case 2:
			conn.WriteBulkString(args[1])
		default:
			writeErr(conn, args[0], ErrWrongNumArgs)
		}

	case "echo":
		if len(args) != 2 {
			writeErr(conn, args[0], ErrWrongNumArgs)
			return
		}
		conn.WriteBulkString(args[1])

	case "quit":
		conn.WriteString("OK")
		conn.Close()

	case "seed":
		if len(args) != 2 {
			writeErr(conn, args[0], ErrWrongNumArgs)
			return
		}
		seed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			writeErr(conn, args[0], fmt.Errorf("seed %q is not an integer", args[1]))
			return
		}
		if seed == 0 {
			c.gen = s.newEngine()
		} else {
			c.gen = randgen.NewFastSeeded(seed)
		}
		conn.WriteString("OK")

	case "shuffle":
		items := args[1:]
		shuffle.InPlace(items, c.gen)
		conn.WriteArray(len(items))
		for _, it := range items {
			conn.WriteBulkString(it)
		}

	case "randbytes":
		if len(args) != 2 {
			writeErr(conn, args[0], ErrWrongNumArgs)
			return
		}
		req := sample.New(sample.KindBytes)
		if err := req.Set("count", args[1]); err != nil {
			writeErr(conn, args[0], err)
			return
		}
		b := req.Draw(c.gen, 0)
		if b.Kind == wire.KindError {
			conn.WriteError("ERR " + b.Err)
			return
		}
		conn.WriteBulk(b.Bytes)

	case "randint", "randfloat", "randgauss", "randexp":
		req, single, err := parseDraw(args)
		if err != nil {
			writeErr(conn, args[0], err)
			return
		}
		writeBatch(conn, req.Draw(c.gen, 0), single)

	default:
		conn.WriteError(fmt.Sprintf("ERR unknown command '%s'", args[0]))
	}
}

// drawParams lists the positional parameters of each draw command; an
// optional trailing count follows them.
var drawParams = map[string]struct {
	kind   string
	params []string
	least  int
}{
	"randint":   {sample.KindInt, []string{"min", "max"}, 2},
	"randfloat": {sample.KindFloat, []string{"min", "max"}, 0},
	"randgauss": {sample.KindGaussian, []string{"mean", "stddev"}, 0},
	"randexp":   {sample.KindExponential, []string{"rate"}, 0},
}

// parseDraw maps positional arguments onto a request. Parameters come all
// or nothing: RANDFLOAT takes zero or two bounds, then an optional count.
// single reports that no count was given and a scalar reply is expected.
func parseDraw(args []string) (req sample.Request, single bool, err error) {
	form := drawParams[args[0]]
	req = sample.New(form.kind)
	rest := args[1:]

	n := len(form.params)
	switch {
	case len(rest) == n || len(rest) == n+1:
	case form.least == 0 && len(rest) <= 1:
		n = 0
	default:
		return req, false, ErrWrongNumArgs
	}

	for i := 0; i < n; i++ {
		if err := req.Set(form.params[i], rest[i]); err != nil {
			return req, false, err
		}
	}
	single = len(rest) == n
	if !single {
		if err := req.Set("count", rest[n]); err != nil {
			return req, false, err
		}
	}
	return req, single, req.Validate()
}

func writeBatch(conn redcon.Conn, b wire.Batch, single bool) {
	if b.Kind == wire.KindError {
		conn.WriteError("ERR " + b.Err)
		return
	}
	if !single {
		conn.WriteArray(b.Len())
	}
	for _, v := range b.Ints {
		conn.WriteInt64(v)
	}
	for _, v := range b.Floats {
		conn.WriteBulkString(strconv.FormatFloat(v, 'g', -1, 64))
	}
}
