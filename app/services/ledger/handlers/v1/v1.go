// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/Dhushyanthcpu/lib/app/services/ledger/handlers/v1/ledgergrp"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/state"
	"github.com/Dhushyanthcpu/lib/foundation/events"
	"github.com/Dhushyanthcpu/lib/foundation/nameservice"
	"github.com/Dhushyanthcpu/lib/foundation/tasks"
	"github.com/Dhushyanthcpu/lib/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
	Tasks *tasks.Registry
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	lgr := ledgergrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		Evts:  cfg.Evts,
		Tasks: cfg.Tasks,
	}

	app.Handle(http.MethodGet, version, "/events", lgr.Events)
	app.Handle(http.MethodGet, version, "/genesis", lgr.Genesis)
	app.Handle(http.MethodPost, version, "/accounts", lgr.CreateAccount)
	app.Handle(http.MethodGet, version, "/accounts", lgr.Accounts)
	app.Handle(http.MethodGet, version, "/accounts/:address/balance", lgr.Balance)
	app.Handle(http.MethodPost, version, "/tx/submit", lgr.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/tx/pending", lgr.Pending)
	app.Handle(http.MethodGet, version, "/tx/verify/:hash", lgr.VerifyTransaction)
	app.Handle(http.MethodPost, version, "/mine", lgr.Mine)
	app.Handle(http.MethodPost, version, "/mine/async", lgr.MineAsync)
	app.Handle(http.MethodGet, version, "/tasks/:id", lgr.Task)
	app.Handle(http.MethodGet, version, "/blocks", lgr.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/account/:address", lgr.BlocksByAccount)
	app.Handle(http.MethodGet, version, "/stats", lgr.Stats)
	app.Handle(http.MethodPost, version, "/contracts", lgr.DeployContract)
	app.Handle(http.MethodGet, version, "/contracts/:address", lgr.Contract)
	app.Handle(http.MethodPost, version, "/contracts/:address/execute", lgr.ExecuteContract)
	app.Handle(http.MethodPost, version, "/models", lgr.RegisterAIModel)
	app.Handle(http.MethodGet, version, "/models/:id", lgr.AIModel)
}
