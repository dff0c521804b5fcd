package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vasiliy-maslov/frutilize/internal/auth"
	"github.com/vasiliy-maslov/frutilize/internal/handler"
)

// Handlers collects the HTTP surface pieces wired by the composition root.
type Handlers struct {
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Customer *handler.CustomerHandler
	Checkout *handler.CheckoutHandler
	Auth     *handler.AuthHandler
	Admin    *handler.AdminHandler
	Sessions *auth.SessionStore
}

func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	h.Catalog.RegisterRoutes(r)
	h.Cart.RegisterRoutes(r)
	h.Customer.RegisterRoutes(r)
	h.Checkout.RegisterRoutes(r)
	h.Auth.RegisterRoutes(r)

	r.Group(func(admin chi.Router) {
		admin.Use(handler.RequireAdmin(h.Sessions))
		h.Admin.RegisterRoutes(admin)
	})

	return r
}
