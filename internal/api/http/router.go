package http

import (
	"net/http"

	"nftflow-backend/internal/security"
	"nftflow-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services bundles everything the API surface needs.
type Services struct {
	Auth       service.AuthService
	Rentals    service.RentalService
	Streams    service.StreamService
	Reputation service.ReputationService
	Ledger     service.LedgerService
	Events     service.EventService
}

// NewRouter wires the full REST surface. Auth endpoints are public;
// everything else sits behind the bearer-token middleware. Role checks live
// in the service layer, not here.
func NewRouter(svcs Services, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	authHandler := NewAuthHandler(svcs.Auth)
	public := router.PathPrefix("/api/v1/auth").Subrouter()
	public.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	public.HandleFunc("/login", authHandler.Login).Methods("POST")
	public.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware(tokens))

	listings := NewListingHandler(svcs.Rentals)
	api.HandleFunc("/listings", listings.Create).Methods("POST")
	api.HandleFunc("/listings", listings.List).Methods("GET")
	api.HandleFunc("/listings/{id}", listings.Get).Methods("GET")
	api.HandleFunc("/listings/{id}/delist", listings.Delist).Methods("POST")

	rentals := NewRentalHandler(svcs.Rentals)
	api.HandleFunc("/rentals", rentals.Rent).Methods("POST")
	api.HandleFunc("/rentals", rentals.ListMine).Methods("GET")
	api.HandleFunc("/rentals/lendings", rentals.ListLendings).Methods("GET")
	api.HandleFunc("/rentals/recover", rentals.Recover).Methods("POST")
	api.HandleFunc("/rentals/{id}", rentals.Get).Methods("GET")
	api.HandleFunc("/rentals/{id}/complete", rentals.Complete).Methods("POST")
	api.HandleFunc("/rentals/{id}/cancel", rentals.Cancel).Methods("POST")
	api.HandleFunc("/rentals/{id}/disputes", rentals.OpenDispute).Methods("POST")
	api.HandleFunc("/rentals/{id}/disputes/resolve", rentals.ResolveDispute).Methods("POST")

	streams := NewStreamHandler(svcs.Streams)
	api.HandleFunc("/streams/{id}", streams.Get).Methods("GET")
	api.HandleFunc("/streams/{id}/withdrawable", streams.Withdrawable).Methods("GET")
	api.HandleFunc("/streams/{id}/withdraw", streams.Withdraw).Methods("POST")
	api.HandleFunc("/streams/{id}/finalize", streams.Finalize).Methods("POST")
	api.HandleFunc("/streams/{id}/cancel", streams.Cancel).Methods("POST")

	reputation := NewReputationHandler(svcs.Reputation)
	api.HandleFunc("/reputation/{user_id}", reputation.Get).Methods("GET")
	api.HandleFunc("/reputation/{user_id}/blacklist", reputation.SetBlacklisted).Methods("POST")
	api.HandleFunc("/achievements", reputation.ListAchievements).Methods("GET")

	ledger := NewLedgerHandler(svcs.Ledger)
	api.HandleFunc("/ledger/balance", ledger.GetBalance).Methods("GET")
	api.HandleFunc("/ledger/entries", ledger.ListEntries).Methods("GET")
	api.HandleFunc("/ledger/{user_id}/credit", ledger.Credit).Methods("POST")

	events := NewEventHandler(svcs.Events)
	api.HandleFunc("/events", events.List).Methods("GET")

	return router
}
