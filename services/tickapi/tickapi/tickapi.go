package tickapi

import (
	"github.com/sirupsen/logrus"

	"github.com/tickpiar/tick/services/tickapi/chttp"
	tickCtx "github.com/tickpiar/tick/services/tickapi/context"
	"github.com/tickpiar/tick/services/tickapi/db"
	"github.com/tickpiar/tick/services/tickapi/ledger"
	"github.com/tickpiar/tick/services/tickapi/marketplace"
)

// TickAPI implements an HTTP server for the Tick reward economy using
// `chttp.API`. It is the boundary between external callers (the bot front
// end, the payment webhook) and the ledger/marketplace services.
type TickAPI struct {
	*chttp.API
	APIContext  tickCtx.APIContext
	DBClient    db.Datastore
	Ledger      *ledger.Service
	Marketplace *marketplace.Service

	log logrus.FieldLogger
}

// NewTickAPI returns a `TickAPI` instance wired to a fresh database client
func NewTickAPI(apiCtx tickCtx.APIContext, log logrus.FieldLogger) *TickAPI {
	dbClient := db.NewDBClient(apiCtx.Config)
	return NewTickAPIWithStore(apiCtx, dbClient, log)
}

// NewTickAPIWithStore returns a `TickAPI` instance on an explicit datastore
func NewTickAPIWithStore(apiCtx tickCtx.APIContext, store db.Datastore, log logrus.FieldLogger) *TickAPI {
	ta := TickAPI{
		API:         chttp.NewAPI(apiCtx),
		APIContext:  apiCtx,
		DBClient:    store,
		Ledger:      ledger.NewService(store, apiCtx.Config, log),
		Marketplace: marketplace.NewService(store, apiCtx.Config, log),
		log:         log.WithField("component", "tickapi"),
	}

	return &ta
}
