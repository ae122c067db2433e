package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinetab/api/internal/config"
	"github.com/dinetab/api/internal/database"
	"github.com/dinetab/api/internal/handler"
	"github.com/dinetab/api/internal/integration"
	mw "github.com/dinetab/api/internal/middleware"
	"github.com/dinetab/api/internal/service"
	"github.com/dinetab/api/internal/ws"
)

// New wires all application routes. Webhooks and the websocket endpoint sit
// outside the JWT group; webhooks authenticate via HMAC signature and the
// websocket validates its token from a query param.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	orderService := service.NewOrderService(pool, queries, func(db database.DBTX) service.Store {
		return database.New(db)
	})

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	r.Route("/auth", authHandler.RegisterRoutes)

	ingestService := integration.NewService(queries, orderService)
	webhookHandler := handler.NewWebhookHandler(ingestService)
	r.Route("/webhooks", webhookHandler.RegisterRoutes)

	r.Get("/ws/restaurants/{rid}/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		r.Route("/restaurants/{rid}", func(r chi.Router) {
			r.Use(mw.RequireRestaurant(queries))

			orderHandler := handler.NewOrderHandler(orderService, queries, hub)
			paymentHandler := handler.NewPaymentHandler(orderService, hub)
			r.Route("/orders", func(r chi.Router) {
				orderHandler.RegisterRoutes(r)
				paymentHandler.RegisterRoutes(r)
			})

			customerHandler := handler.NewCustomerHandler(orderService, queries)
			r.Route("/customers", func(r chi.Router) {
				customerHandler.RegisterRoutes(r)
			})

			tableHandler := handler.NewTableHandler(queries, orderService)
			r.Route("/tables", tableHandler.RegisterRoutes)
		})
	})

	return r
}
