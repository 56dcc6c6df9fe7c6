package daemon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/runger/sequoia/internal/reporter"
	"github.com/runger/sequoia/internal/runner"
)

// Server listens on a Unix domain socket and runs one mining pipeline per
// accepted connection, matching the CLI's runner package.
type Server struct {
	SocketPath  string
	Logger      *slog.Logger
	IdleTimeout time.Duration // 0 disables idle shutdown

	listener  net.Listener
	lastUsed  atomic.Int64 // unix nanos of last request completion
	wg        sync.WaitGroup
	idleDone  chan struct{}
	closeOnce sync.Once
}

// NewServer builds a Server for socketPath. It does not touch the socket
// file; ListenAndServe removes a stale one before binding.
func NewServer(socketPath string, logger *slog.Logger, idleTimeout time.Duration) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{SocketPath: socketPath, Logger: logger, IdleTimeout: idleTimeout}
}

// ListenAndServe removes any file left at SocketPath (for example by a
// crashed daemon), binds the socket and serves connections until ctx-like
// shutdown via Close, or until the idle timeout elapses.
func (s *Server) ListenAndServe() error {
	_ = os.Remove(s.SocketPath)

	l, err := net.Listen("unix", s.SocketPath)
	if err != nil {
		return fmt.Errorf("daemon: listen on %s: %w", s.SocketPath, err)
	}
	s.listener = l
	s.lastUsed.Store(0)
	s.idleDone = make(chan struct{})

	if s.IdleTimeout > 0 {
		go s.idleWatcher()
	}

	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			return fmt.Errorf("daemon: accept: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

// Close shuts the server down, unblocking ListenAndServe.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.listener != nil {
			err = s.listener.Close()
		}
		if s.idleDone != nil {
			close(s.idleDone)
		}
		_ = os.Remove(s.SocketPath)
	})
	return err
}

func (s *Server) idleWatcher() {
	ticker := time.NewTicker(s.IdleTimeout / 4)
	defer ticker.Stop()
	for {
		select {
		case <-s.idleDone:
			return
		case <-ticker.C:
			last := s.lastUsed.Load()
			if last == 0 {
				continue
			}
			if time.Since(time.Unix(0, last)) > s.IdleTimeout {
				s.Logger.Info("idle timeout reached, shutting down")
				s.Close()
				return
			}
		}
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	defer s.lastUsed.Store(time.Now().UnixNano())

	dec := json.NewDecoder(conn)
	var req Request
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		s.Logger.Warn("failed to decode request", "error", err)
		return
	}

	resp := s.run(req)

	enc := json.NewEncoder(conn)
	if err := enc.Encode(resp); err != nil {
		s.Logger.Warn("failed to encode response", "error", err)
	}
}

func (s *Server) run(req Request) Response {
	f, err := os.Open(req.SourcePath)
	if err != nil {
		return Response{Error: fmt.Sprintf("open %s: %v", req.SourcePath, err)}
	}
	defer f.Close()

	opts := runner.Options{
		Read:            req.Read,
		Target:          req.Target,
		ZMin:            req.ZMin,
		ZMax:            req.ZMax,
		MinSupp:         req.MinSupp,
		BorderRaw:       req.Border,
		Format:          req.Format,
		CollectSpectrum: req.CollectSpectrum,
	}

	result, err := runner.Run(f, opts)
	if err != nil {
		return Response{Error: err.Error()}
	}

	resp := Response{
		Output:       result.Output,
		Transactions: result.Transactions,
		Items:        result.Items,
		PatternCount: result.PatternCount,
	}
	if result.Spectrum != nil {
		var buf bytes.Buffer
		if err := reporter.WriteSpectrum(&buf, result.Spectrum); err == nil {
			resp.SpectrumText = buf.Bytes()
		}
	}
	return resp
}
