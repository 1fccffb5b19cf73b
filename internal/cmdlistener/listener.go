// Package cmdlistener serves the batch command port: a loopback TCP
// listener that reads newline-terminated commands and writes one reply line
// per command.
package cmdlistener

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrInvalidPort is returned by Start for ports outside 0-65535.
	ErrInvalidPort = errors.New("invalid port")
	// ErrNotRunning is returned by Port-dependent calls on a halted listener.
	ErrNotRunning = errors.New("command listener is not running")
)

// maxLine bounds a single command.
const maxLine = 64 * 1024

// Handler executes one command and returns the reply line.
type Handler interface {
	Execute(ctx context.Context, cmd string) string
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, cmd string) string

func (f HandlerFunc) Execute(ctx context.Context, cmd string) string {
	return f(ctx, cmd)
}

// Listener accepts batch command connections on a loopback port. It can be
// started and halted repeatedly.
type Listener struct {
	handler Handler
	logger  *log.Logger

	mu     sync.Mutex
	ln     net.Listener
	cancel context.CancelFunc
	conns  map[string]net.Conn
	wg     sync.WaitGroup
}

// New returns a halted listener that dispatches commands to h.
func New(h Handler, logger *log.Logger) *Listener {
	if logger == nil {
		logger = log.Default()
	}
	return &Listener{
		handler: h,
		logger:  logger,
		conns:   make(map[string]net.Conn),
	}
}

// Start listens on 127.0.0.1:port, halting any previous listener first.
// Port 0 picks a free port; see Port.
func (l *Listener) Start(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	l.Halt()

	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", port, err)
	}
	ctx, cancel := context.WithCancel(context.Background())

	l.mu.Lock()
	l.ln = ln
	l.cancel = cancel
	l.mu.Unlock()

	l.logger.Printf("cmdlistener: listening on %s", ln.Addr())
	l.wg.Add(1)
	go l.acceptLoop(ctx, ln)
	return nil
}

// Halt closes the listener and every open connection and waits for their
// goroutines to finish. Halting a halted listener does nothing.
func (l *Listener) Halt() {
	l.mu.Lock()
	ln := l.ln
	cancel := l.cancel
	l.ln = nil
	l.cancel = nil
	for _, c := range l.conns {
		c.Close()
	}
	l.mu.Unlock()

	if ln == nil {
		return
	}
	cancel()
	ln.Close()
	l.wg.Wait()
	l.logger.Printf("cmdlistener: halted %s", ln.Addr())
}

// Running reports whether the listener is accepting connections.
func (l *Listener) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ln != nil
}

// Port returns the bound port.
func (l *Listener) Port() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return 0, ErrNotRunning
	}
	return l.ln.Addr().(*net.TCPAddr).Port, nil
}

func (l *Listener) acceptLoop(ctx context.Context, ln net.Listener) {
	defer l.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				l.logger.Printf("cmdlistener: accept: %v", err)
			}
			return
		}

		id := uuid.Must(uuid.NewV7()).String()
		l.mu.Lock()
		if l.ln != ln {
			l.mu.Unlock()
			conn.Close()
			return
		}
		l.conns[id] = conn
		l.mu.Unlock()

		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.serve(ctx, id, conn)
		}()
	}
}

func (l *Listener) serve(ctx context.Context, id string, conn net.Conn) {
	defer func() {
		conn.Close()
		l.mu.Lock()
		delete(l.conns, id)
		l.mu.Unlock()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLine)
	w := bufio.NewWriter(conn)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}
		reply := l.handler.Execute(ctx, cmd)
		if _, err := io.WriteString(w, reply+"\n"); err != nil {
			l.logger.Printf("cmdlistener: %s: write: %v", id, err)
			return
		}
		if err := w.Flush(); err != nil {
			l.logger.Printf("cmdlistener: %s: write: %v", id, err)
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		l.logger.Printf("cmdlistener: %s: read: %v", id, err)
	}
}
