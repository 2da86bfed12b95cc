// Package jsonrpc exposes the host over JSON-RPC 2.0: instruction submission,
// balance queries, account provisioning, a long-poll account watch, and the
// chain-state reference clients fetch before submitting.
package jsonrpc

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/vaultnet/vaultd/errors"
	"github.com/vaultnet/vaultd/events"
	"github.com/vaultnet/vaultd/host"
	"github.com/vaultnet/vaultd/logx"
	"github.com/vaultnet/vaultd/types"
)

const (
	defaultWatchWait = 30 * time.Second
	maxWatchWait     = 2 * time.Minute
)

// --- Params/Results of the RPC surface ---

type SendInstructionParams struct {
	Target      string `json:"target"`
	Instruction string `json:"instruction"` // hex-encoded wire bytes
	Writable    *bool  `json:"writable,omitempty"`
}

type SendInstructionResult struct {
	Ok bool `json:"ok"`
}

type GetBalanceParams struct {
	Address string `json:"address"`
}

type GetBalanceResult struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
	Counter uint64 `json:"counter"`
}

type CreateAccountParams struct {
	Address string `json:"address"`
	Owner   string `json:"owner,omitempty"`
	Amount  uint64 `json:"amount,omitempty"`
}

type CreateAccountResult struct {
	Ok bool `json:"ok"`
}

type WatchAccountParams struct {
	Address string `json:"address"`
	WaitMs  int    `json:"wait_ms,omitempty"`
}

type WatchAccountResult struct {
	Updated bool   `json:"updated"`
	Balance uint64 `json:"balance,omitempty"`
	Counter uint64 `json:"counter,omitempty"`
	Seq     uint64 `json:"seq,omitempty"`
}

type RecentRefResult struct {
	Ref string `json:"ref"`
}

type Server struct {
	host *host.Host
	bus  *events.EventBus
}

func NewServer(h *host.Host, bus *events.EventBus) *Server {
	return &Server{host: h, bus: bus}
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		"ledger.sendinstruction": handler.New(s.rpcSendInstruction),
		"account.getbalance":     handler.New(s.rpcGetBalance),
		"account.create":         handler.New(s.rpcCreateAccount),
		"account.watch":          handler.New(s.rpcWatchAccount),
		"chain.getrecentref":     handler.New(s.rpcGetRecentRef),
	}
}

// Bridge returns the HTTP handler carrying the JSON-RPC surface.
func (s *Server) Bridge() jhttp.Bridge {
	return jhttp.NewBridge(s.buildMethodMap(), &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})
}

// Run serves the RPC surface on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	bridge := s.Bridge()
	defer bridge.Close()

	mux := http.NewServeMux()
	mux.Handle("/rpc", bridge)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logx.Info("JSONRPC", fmt.Sprintf("Serving JSON-RPC on %s/rpc", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) rpcSendInstruction(ctx context.Context, p SendInstructionParams) (*SendInstructionResult, error) {
	target, err := types.IdentityFromString(p.Target)
	if err != nil {
		return nil, toRPCError(errors.New(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
	}
	instruction, err := hex.DecodeString(p.Instruction)
	if err != nil {
		return nil, toRPCError(errors.New(errors.ErrCodeInvalidRequest, "instruction must be hex encoded"))
	}
	writable := true
	if p.Writable != nil {
		writable = *p.Writable
	}
	if err := s.host.SubmitInstruction(target, instruction, writable); err != nil {
		return nil, toRPCError(err)
	}
	return &SendInstructionResult{Ok: true}, nil
}

func (s *Server) rpcGetBalance(ctx context.Context, p GetBalanceParams) (*GetBalanceResult, error) {
	addr, err := types.IdentityFromString(p.Address)
	if err != nil {
		return nil, toRPCError(errors.New(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
	}
	record, err := s.host.Balance(addr)
	if err != nil {
		return nil, toRPCError(err)
	}
	return &GetBalanceResult{Address: p.Address, Balance: record.Balance, Counter: record.Counter}, nil
}

func (s *Server) rpcCreateAccount(ctx context.Context, p CreateAccountParams) (*CreateAccountResult, error) {
	addr, err := types.IdentityFromString(p.Address)
	if err != nil {
		return nil, toRPCError(errors.New(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
	}
	owner := s.host.ProgramID()
	if p.Owner != "" {
		if owner, err = types.IdentityFromString(p.Owner); err != nil {
			return nil, toRPCError(errors.New(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
		}
	}
	if err := s.host.CreateAccount(addr, owner, p.Amount); err != nil {
		return nil, toRPCError(err)
	}
	return &CreateAccountResult{Ok: true}, nil
}

func (s *Server) rpcWatchAccount(ctx context.Context, p WatchAccountParams) (*WatchAccountResult, error) {
	addr, err := types.IdentityFromString(p.Address)
	if err != nil {
		return nil, toRPCError(errors.New(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress))
	}
	wait := defaultWatchWait
	if p.WaitMs > 0 {
		wait = time.Duration(p.WaitMs) * time.Millisecond
	}
	if wait > maxWatchWait {
		wait = maxWatchWait
	}
	event, ok := s.bus.WaitFor(addr, wait)
	if !ok {
		return &WatchAccountResult{Updated: false}, nil
	}
	return &WatchAccountResult{
		Updated: true,
		Balance: event.Balance,
		Counter: event.Counter,
		Seq:     event.Seq,
	}, nil
}

func (s *Server) rpcGetRecentRef(ctx context.Context) (*RecentRefResult, error) {
	return &RecentRefResult{Ref: s.host.RecentRef()}, nil
}
