// Package ipc implements the indexer's local query surface: a Unix
// domain socket accepting newline-terminated ASCII requests and
// replying with JSON (spec.md §6). Grounded on klingnet-chain's
// internal/rpc HTTP server (net/net-http/encoding-json, no framework),
// with the HTTP transport swapped for a raw Unix socket and JSON-RPC 2.0
// envelopes swapped for the plain `<command> <args>` line protocol
// spec.md §6 describes. The GraphQL/REST query layer itself is out of
// scope; this package only serves the five commands spec.md names.
package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/mina-indexer/internal/log"
	"github.com/Klingon-tech/mina-indexer/internal/query"
	"github.com/Klingon-tech/mina-indexer/pkg/types"
)

// ExitCode is the process exit status spec.md §6 assigns to each
// shutdown path.
type ExitCode int

const (
	ExitClean    ExitCode = 0
	ExitSIGTERM  ExitCode = 100
	ExitSIGINT   ExitCode = 101
)

// Server accepts connections on a Unix socket and dispatches each
// request line to a command handler.
type Server struct {
	reader   query.Reader
	listener net.Listener

	// Shutdown is invoked when a client sends the `shutdown` command; the
	// caller (cmd/minaindexerd) supplies the actual process-shutdown hook.
	Shutdown func()
}

// NewServer binds a Unix socket at path. Any stale socket file left by an
// unclean prior shutdown is removed first.
func NewServer(path string, reader query.Reader) (*Server, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ipc: removing stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipc: listening on %s: %w", path, err)
	}
	return &Server{reader: reader, listener: ln}, nil
}

// Serve accepts connections until ctx is cancelled or the listener is
// closed. Each connection is handled on its own goroutine; queries never
// block each other since query.Reader only ever reads an atomic snapshot
// plus the store's own concurrent-safe getters.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("ipc: accept: %w", err)
		}
		go s.handle(conn)
	}
}

// Close closes the listener and removes the socket file.
func (s *Server) Close() error {
	path := s.listener.Addr().String()
	err := s.listener.Close()
	os.Remove(path)
	return err
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply := s.dispatch(line)
		raw, err := json.Marshal(reply)
		if err != nil {
			log.IPC.Error().Err(err).Msg("encoding ipc reply")
			continue
		}
		if _, err := conn.Write(append(raw, '\n')); err != nil {
			return
		}
	}
}

// reply is the JSON envelope returned for every command.
type reply struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Result any    `json:"result,omitempty"`
}

func errReply(format string, args ...any) reply {
	return reply{OK: false, Error: fmt.Sprintf(format, args...)}
}

func (s *Server) dispatch(line string) reply {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return errReply("empty command")
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "account":
		return s.cmdAccount(args)
	case "best_chain":
		return s.cmdBestChain(args)
	case "best_ledger":
		return s.cmdBestLedger(args)
	case "summary":
		return s.cmdSummary(args)
	case "shutdown":
		return s.cmdShutdown()
	default:
		return errReply("unknown command %q", cmd)
	}
}

func (s *Server) cmdAccount(args []string) reply {
	if len(args) < 1 {
		return errReply("usage: account <pk>")
	}
	pk, err := types.NewPublicKey(args[0])
	if err != nil {
		return errReply("invalid public key: %v", err)
	}
	token := types.MinaTokenAddress
	if len(args) >= 2 {
		token = types.TokenAddress(args[1])
	}
	acct, err := s.reader.Account(token, pk)
	if err != nil {
		return errReply("account lookup: %v", err)
	}
	return reply{OK: true, Result: acct}
}

func (s *Server) cmdBestChain(args []string) reply {
	n := 10
	if len(args) >= 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return errReply("usage: best_chain <n>")
		}
		n = v
	}
	hashes, err := s.reader.BestChain(n)
	if err != nil {
		return errReply("best_chain: %v", err)
	}
	return reply{OK: true, Result: hashes}
}

func (s *Server) cmdBestLedger(args []string) reply {
	// Writing a full ledger snapshot to a file path is a materialization
	// convenience the GraphQL/REST layer would otherwise provide; out of
	// scope here beyond acknowledging the best tip it would be taken from.
	tip := s.reader.BestTip()
	if tip == nil {
		return errReply("best_ledger: no best tip yet")
	}
	return reply{OK: true, Result: map[string]any{"state_hash": tip.StateHash, "height": tip.BlockchainLength}}
}

func (s *Server) cmdSummary(args []string) reply {
	verbose := len(args) >= 1 && (args[0] == "true" || args[0] == "1")
	tip := s.reader.BestTip()
	if tip == nil {
		return reply{OK: true, Result: map[string]any{"synced": false}}
	}
	out := map[string]any{
		"state_hash":        tip.StateHash,
		"blockchain_length": tip.BlockchainLength,
		"global_slot":       tip.GlobalSlot,
	}
	if verbose {
		out["dangling_branches"] = tip.DanglingBranches
	}
	return reply{OK: true, Result: out}
}

func (s *Server) cmdShutdown() reply {
	if s.Shutdown != nil {
		go s.Shutdown()
	}
	return reply{OK: true}
}
