package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"pqr-portal/logging"
	"pqr-portal/server/handlers"
)

type Router struct {
	wizardHandler   *handlers.WizardHandler
	pqrHandler      *handlers.PqrHandler
	passwordHandler *handlers.PasswordHandler
	healthHandler   *handlers.HealthHandler
	router          *mux.Router
	log             zerolog.Logger
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	wizardHandler *handlers.WizardHandler,
	pqrHandler *handlers.PqrHandler,
	passwordHandler *handlers.PasswordHandler,
	healthHandler *handlers.HealthHandler,
	router *mux.Router) *Router {
	return &Router{
		wizardHandler:   wizardHandler,
		pqrHandler:      pqrHandler,
		passwordHandler: passwordHandler,
		healthHandler:   healthHandler,
		router:          router,
		log:             logging.Component("Router"),
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(r.logRequests)

	r.router.HandleFunc("/v1/wizard", r.wizardHandler.Open).Methods("POST")
	r.router.HandleFunc("/v1/wizard", r.wizardHandler.State).Methods("GET")
	r.router.HandleFunc("/v1/wizard/mode", r.wizardHandler.SetSearchMode).Methods("POST")
	r.router.HandleFunc("/v1/wizard/search/code", r.wizardHandler.SearchByCode).Methods("POST")
	r.router.HandleFunc("/v1/wizard/search/address", r.wizardHandler.SearchByAddress).Methods("POST")
	r.router.HandleFunc("/v1/wizard/select", r.wizardHandler.Select).Methods("POST")
	r.router.HandleFunc("/v1/wizard/next", r.wizardHandler.Next).Methods("POST")
	r.router.HandleFunc("/v1/wizard/prev", r.wizardHandler.Prev).Methods("POST")
	r.router.HandleFunc("/v1/wizard/zoom", r.wizardHandler.Zoom).Methods("POST")
	r.router.HandleFunc("/v1/wizard/infowindow", r.wizardHandler.InfoWindow).Methods("POST")
	r.router.HandleFunc("/v1/wizard/submit", r.wizardHandler.Submit).Methods("POST")
	r.router.HandleFunc("/v1/wizard/options", r.wizardHandler.Options).Methods("GET")
	r.router.HandleFunc("/v1/wizard/map", r.wizardHandler.Map).Methods("GET")

	// status is one of recibidas, revision, atendidas
	r.router.HandleFunc("/v1/pqrs/{status}", r.pqrHandler.List).Methods("POST")

	r.router.HandleFunc("/v1/password/recover", r.passwordHandler.Recover).Methods("POST")
	r.router.HandleFunc("/v1/password/change/{token}", r.passwordHandler.Change).Methods("POST")

	r.router.HandleFunc("/ping", r.healthHandler.Ping).Methods("GET")
}

func (r *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		r.log.Debug().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("Handled request")
	})
}
