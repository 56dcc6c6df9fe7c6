// Package integration exercises the sequoia daemon and CLI as complete
// processes rather than through their internal package APIs.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runger/sequoia/internal/daemon"
	"github.com/runger/sequoia/internal/mine"
	"github.com/runger/sequoia/internal/reporter"
	"github.com/runger/sequoia/internal/tabread"
)

const sampleTransactions = "a b c\nb c d\na b d\na c d\nb c d\n"

// startTestServer starts a daemon.Server on a socket inside a temp dir and
// returns it along with the socket path. The caller must Close the server.
func startTestServer(t *testing.T) (*daemon.Server, string) {
	t.Helper()
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "sequoiad.sock")

	srv := daemon.NewServer(socketPath, nil, 0)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(socketPath); err == nil {
			return srv, socketPath
		}
		select {
		case err := <-errCh:
			t.Fatalf("daemon exited before binding socket: %v", err)
		default:
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for daemon socket")
	return nil, ""
}

func writeSampleFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.tab")
	if err := os.WriteFile(path, []byte(sampleTransactions), 0o644); err != nil {
		t.Fatalf("failed to write sample transactions: %v", err)
	}
	return path
}

func TestDaemonLifecycle_MineRoundTrip(t *testing.T) {
	srv, socketPath := startTestServer(t)
	defer srv.Close()

	infile := writeSampleFile(t)

	client := daemon.NewClient(socketPath, 500*time.Millisecond)
	req := daemon.Request{
		SourcePath: infile,
		Read: tabread.Options{
			FieldSeps: []byte(" \t,"),
		},
		Target:  mine.TargetAll,
		ZMin:    1,
		MinSupp: -1,
		Format: reporter.Format{
			ItemSep: " ",
			InfoFn:  " (%S)",
		},
	}

	resp, err := client.Mine(req)
	if err != nil {
		t.Fatalf("Mine returned error: %v", err)
	}
	if resp.Transactions != 5 {
		t.Errorf("Transactions = %d, want 5", resp.Transactions)
	}
	if resp.PatternCount == 0 {
		t.Error("expected at least one pattern in the response")
	}
	if len(resp.Output) == 0 {
		t.Error("expected non-empty rendered output")
	}
}

func TestDaemonLifecycle_ClosedTargetNarrowsCount(t *testing.T) {
	srv, socketPath := startTestServer(t)
	defer srv.Close()

	infile := writeSampleFile(t)
	client := daemon.NewClient(socketPath, 500*time.Millisecond)

	base := daemon.Request{
		SourcePath: infile,
		Read:       tabread.Options{FieldSeps: []byte(" \t,")},
		ZMin:       1,
		MinSupp:    -1,
		Format:     reporter.Format{ItemSep: " "},
	}

	all := base
	all.Target = mine.TargetAll
	allResp, err := client.Mine(all)
	if err != nil {
		t.Fatalf("Mine(all) error: %v", err)
	}

	closed := base
	closed.Target = mine.TargetClosed
	closedResp, err := client.Mine(closed)
	if err != nil {
		t.Fatalf("Mine(closed) error: %v", err)
	}

	if closedResp.PatternCount > allResp.PatternCount {
		t.Errorf("closed pattern count %d exceeds all pattern count %d", closedResp.PatternCount, allResp.PatternCount)
	}
}

func TestDaemonLifecycle_UnreachableSocketReturnsErrNotRunning(t *testing.T) {
	dir := t.TempDir()
	client := daemon.NewClient(filepath.Join(dir, "no-such.sock"), 200*time.Millisecond)

	_, err := client.Mine(daemon.Request{SourcePath: writeSampleFile(t)})
	if err != daemon.ErrNotRunning {
		t.Errorf("err = %v, want daemon.ErrNotRunning", err)
	}
}

func TestDaemonLifecycle_ConcurrentRequests(t *testing.T) {
	srv, socketPath := startTestServer(t)
	defer srv.Close()

	infile := writeSampleFile(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const n = 8
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			client := daemon.NewClient(socketPath, time.Second)
			_, err := client.Mine(daemon.Request{
				SourcePath: infile,
				Read:       tabread.Options{FieldSeps: []byte(" \t,")},
				Target:     mine.TargetAll,
				ZMin:       1,
				MinSupp:    -1,
				Format:     reporter.Format{ItemSep: " "},
			})
			errCh <- err
		}()
	}

	for i := 0; i < n; i++ {
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("concurrent request %d failed: %v", i, err)
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for concurrent requests")
		}
	}
}
