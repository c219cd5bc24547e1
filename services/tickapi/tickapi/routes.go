package tickapi

import (
	"net/http"

	"github.com/gorilla/handlers"

	"github.com/tickpiar/tick/services/tickapi/chttp"
)

// RegisterRoutes applies the Tick API routes to the `chttp.API` router
func (ta *TickAPI) RegisterRoutes() {
	api := ta.Subrouter("/api/v1")

	// Enable gzip compression
	api.Use(handlers.CompressHandler)
	api.Use(chttp.JSONResponseMiddleware)

	api.Handle("/ping", http.HandlerFunc(ta.HandlePing))

	// accounts and money
	api.HandleFunc("/register", ta.HandleRegister)
	api.HandleFunc("/account/{id:[0-9]+}", ta.HandleAccountDetails)
	api.HandleFunc("/account/{id:[0-9]+}/transactions", ta.HandleTransactions)

	// task marketplace
	api.HandleFunc("/tasks", ta.HandleTasks)
	api.HandleFunc("/tasks/own", ta.HandleOwnTasks)
	api.HandleFunc("/tasks/{id:[0-9]+}", ta.HandleTask)
	api.HandleFunc("/tasks/{id:[0-9]+}/complete", ta.HandleTaskCompletion)

	// payment channel
	api.HandleFunc("/deposits/invoice", ta.HandleDepositInvoice)
	api.HandleFunc("/deposits/confirm", ta.HandleDepositConfirm)

	// chat sponsor registry
	api.HandleFunc("/chats", ta.HandleChatRegistration)
	api.HandleFunc("/chats/{id:[0-9-]+}/sponsors", ta.HandleChatSponsors)
}
