// Package ledgergrp maintains the group of handlers for the ledger.
package ledgergrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dhushyanthcpu/lib/business/web/errs"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/accounts"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/database"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/mempool"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/state"
	"github.com/Dhushyanthcpu/lib/foundation/events"
	"github.com/Dhushyanthcpu/lib/foundation/nameservice"
	"github.com/Dhushyanthcpu/lib/foundation/tasks"
	"github.com/Dhushyanthcpu/lib/foundation/validate"
	"github.com/Dhushyanthcpu/lib/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
	Tasks *tasks.Registry
	WS    websocket.Upgrader
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveGenesis(), http.StatusOK)
}

// CreateAccount generates a new account with a zero balance.
func (h Handlers) CreateAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address, err := h.State.CreateAccount()
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	return web.Respond(ctx, w, account{Address: address}, http.StatusCreated)
}

// Accounts returns the balance of every known account.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	balances := h.State.QueryAccounts()

	out := make([]account, 0, len(balances))
	for address, balance := range balances {
		out = append(out, account{Address: address, Name: h.name(address), Balance: balance})
	}

	return web.Respond(ctx, w, out, http.StatusOK)
}

// Balance returns the balance for the specified address. Unknown addresses
// report a zero balance.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := database.Address(web.Param(r, "address"))

	return web.Respond(ctx, w, account{Address: address, Name: h.name(address), Balance: h.State.QueryBalance(address)}, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return requestError(err)
	}

	nt, err := toNewTx(ntx)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tx", "traceid", web.GetTraceID(ctx), "sender", nt.Sender, "recipient", nt.Recipient, "amount", nt.Amount, "type", nt.Kind)

	tx, err := h.State.SubmitTransaction(nt)
	if err != nil {
		return ledgerError(err)
	}

	return web.Respond(ctx, w, submitted{Transaction: tx}, http.StatusCreated)
}

// Pending returns the set of uncommitted transactions.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.QueryPending(), http.StatusOK)
}

// VerifyTransaction checks the integrity of the transaction with the
// specified hash.
func (h Handlers) VerifyTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := h.State.VerifyTransaction(web.Param(r, "hash"))
	if err != nil {
		return ledgerError(err)
	}

	return web.Respond(ctx, w, verification{Verification: v, Verified: v.Verified()}, http.StatusOK)
}

// Mine mines the pending transactions into a new block and waits for the
// result.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var m mine
	if err := web.Decode(r, &m); err != nil {
		return requestError(err)
	}

	block, err := h.State.MineNewBlock(database.Address(m.Miner))
	if err != nil {
		return ledgerError(err)
	}

	return web.Respond(ctx, w, block, http.StatusCreated)
}

// MineAsync starts a mining operation in the background and returns the
// task that can be polled for the result.
func (h Handlers) MineAsync(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var m mine
	if err := web.Decode(r, &m); err != nil {
		return requestError(err)
	}

	task := h.Tasks.Run(func() (any, error) {
		return h.State.MineNewBlock(database.Address(m.Miner))
	})

	h.Log.Infow("mine async", "traceid", web.GetTraceID(ctx), "task", task.ID, "miner", m.Miner)

	return web.Respond(ctx, w, task, http.StatusAccepted)
}

// Task returns the status of a background task.
func (h Handlers) Task(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	task, err := h.Tasks.Get(web.Param(r, "id"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusNotFound)
	}

	return web.Respond(ctx, w, task, http.StatusOK)
}

// Blocks returns the blocks in the range given by the from and to query
// parameters. The whole chain is returned by default.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := queryIndex(r, "from", 0)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	to, err := queryIndex(r, "to", state.QueryLatest)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from must not be greater than to"), http.StatusBadRequest)
	}

	blocks := h.State.QueryBlocksByNumber(from, to)
	if blocks == nil {
		blocks = []database.Block{}
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlocksByAccount returns the blocks holding a transaction for the address.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.QueryBlocksByAccount(database.Address(web.Param(r, "address")))
	if blocks == nil {
		blocks = []database.Block{}
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Stats returns a summary of the ledger.
func (h Handlers) Stats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toStats(h.State.QueryStats()), http.StatusOK)
}

// DeployContract registers a new contract.
func (h Handlers) DeployContract(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nc newContract
	if err := web.Decode(r, &nc); err != nil {
		return requestError(err)
	}

	contract, tx, err := h.State.DeployContract(database.Address(nc.Owner), nc.Code, nc.InitialState)
	if err != nil {
		return ledgerError(err)
	}

	return web.Respond(ctx, w, submitted{Transaction: tx, Contract: contract}, http.StatusCreated)
}

// Contract returns the contract at the specified address.
func (h Handlers) Contract(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	contract, err := h.State.QueryContract(database.Address(web.Param(r, "address")))
	if err != nil {
		return ledgerError(err)
	}

	return web.Respond(ctx, w, contract, http.StatusOK)
}

// ExecuteContract records a call to the contract at the specified address.
func (h Handlers) ExecuteContract(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var e execute
	if err := web.Decode(r, &e); err != nil {
		return requestError(err)
	}

	address := database.Address(web.Param(r, "address"))

	contract, tx, err := h.State.ExecuteContract(address, database.Address(e.Caller), e.Function, e.Args, e.Amount)
	if err != nil {
		return ledgerError(err)
	}

	return web.Respond(ctx, w, submitted{Transaction: tx, Contract: contract}, http.StatusCreated)
}

// RegisterAIModel registers a model and charges the registration fee.
func (h Handlers) RegisterAIModel(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nm newModel
	if err := web.Decode(r, &nm); err != nil {
		return requestError(err)
	}

	model, tx, err := h.State.RegisterAIModel(database.Address(nm.Owner), nm.Config)
	if err != nil {
		return ledgerError(err)
	}

	return web.Respond(ctx, w, submitted{Transaction: tx, Model: model}, http.StatusCreated)
}

// AIModel returns the model with the specified id.
func (h Handlers) AIModel(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	model, err := h.State.QueryAIModel(web.Param(r, "id"))
	if err != nil {
		return ledgerError(err)
	}

	return web.Respond(ctx, w, model, http.StatusOK)
}

// =============================================================================

// name returns the wallet name known for the address.
func (h Handlers) name(address database.Address) string {
	if h.NS == nil {
		return ""
	}

	if name := h.NS.Lookup(address); name != string(address) {
		return name
	}
	return ""
}

// requestError passes validation errors through untouched so they are
// reported field by field, everything else is a bad request.
func requestError(err error) error {
	if validate.IsFieldErrors(err) {
		return err
	}
	return errs.NewTrusted(err, http.StatusBadRequest)
}

// ledgerError maps the errors returned by the ledger to a status code.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, state.ErrNotFound),
		errors.Is(err, state.ErrContractNotFound):
		return errs.NewTrusted(err, http.StatusNotFound)

	case errors.Is(err, mempool.ErrDuplicate),
		errors.Is(err, accounts.ErrAccountExists):
		return errs.NewTrusted(err, http.StatusConflict)

	case errors.Is(err, state.ErrInsufficientBalance),
		errors.Is(err, state.ErrNoPendingTransactions),
		errors.Is(err, database.ErrInvalidTransaction):
		return errs.NewTrusted(err, http.StatusBadRequest)

	case errors.Is(err, state.ErrOracleFailed):
		return errs.NewTrusted(err, http.StatusServiceUnavailable)
	}

	return err
}

// queryIndex reads a block index from the query string.
func queryIndex(r *http.Request, name string, def uint64) (uint64, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return def, nil
	}

	if value == "latest" {
		return state.QueryLatest, nil
	}

	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return n, nil
}
