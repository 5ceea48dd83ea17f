package httpserver

import (
	"net/http"
	"time"

	"church-app-go/internal/config"
	"church-app-go/internal/identity"
	"church-app-go/internal/session"
	"church-app-go/internal/transport/httpserver/handler"
	authmw "church-app-go/internal/transport/httpserver/middleware"
	"church-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, provider identity.Provider, log logger.Logger) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := authmw.NewMetrics(registry)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))
	r.Use(metrics.Middleware)

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Post("/auth/register-church", handlers.RegisterChurch)

		auth := authmw.NewSessionAuth(cfg.Supabase, provider, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Route("/admin", func(r chi.Router) {
				r.Use(authmw.RequireRole(session.RoleAdmin))
				r.Use(authmw.RequireTenant)

				r.Get("/church", handlers.GetOwnChurch)
				r.Patch("/church", handlers.UpdateOwnChurch)

				r.Get("/branches", handlers.ListBranches)
				r.Post("/branches", handlers.CreateBranch)
				r.Get("/branches/{id}", handlers.GetBranch)
				r.Patch("/branches/{id}", handlers.UpdateBranch)
				r.Delete("/branches/{id}", handlers.DeleteBranch)

				r.Get("/members", handlers.ListMembers)
				r.Post("/members", handlers.CreateMember)
				r.Get("/members/{id}", handlers.GetMember)
				r.Patch("/members/{id}", handlers.UpdateMember)
				r.Delete("/members/{id}", handlers.DeleteMember)

				r.Get("/pastors", handlers.ListPastors)
				r.Post("/pastors", handlers.CreatePastor)
				r.Get("/pastors/member-search", handlers.MemberSearch)
				r.Post("/pastors/member", handlers.QuickCreateMember)
				r.Get("/pastors/{id}", handlers.GetPastor)
				r.Patch("/pastors/{id}", handlers.UpdatePastor)
				r.Delete("/pastors/{id}", handlers.DeletePastor)

				r.Get("/families", handlers.ListFamilies)
				r.Post("/families", handlers.CreateFamily)
				r.Get("/families/{id}", handlers.GetFamily)
				r.Patch("/families/{id}", handlers.UpdateFamily)
				r.Post("/families/{id}/add-member", handlers.AddFamilyMember)

				r.Get("/groups", handlers.ListGroups)
				r.Post("/groups", handlers.CreateGroup)
				r.Get("/groups/{id}", handlers.GetGroup)
				r.Patch("/groups/{id}", handlers.UpdateGroup)
				r.Get("/groups/{id}/members", handlers.ListGroupMembers)
				r.Post("/groups/{id}/members", handlers.AddGroupMember)
				r.Post("/groups/{id}/members/remove", handlers.RemoveGroupMember)
				r.Get("/groups/{id}/announcements", handlers.ListAnnouncements)
				r.Post("/groups/{id}/announcements", handlers.CreateAnnouncement)
			})

			r.Route("/pastor", func(r chi.Router) {
				r.Use(authmw.RequireRole(session.RolePastor))
				r.Use(authmw.RequireTenant)

				r.Get("/members", handlers.PastorListMembers)
				r.Post("/members", handlers.PastorCreateMember)
				r.Get("/members/{id}", handlers.PastorGetMember)
			})

			r.Route("/superadmin", func(r chi.Router) {
				r.Use(authmw.RequireRole(session.RoleSuperAdmin))

				r.Get("/churches", handlers.ListChurches)
				r.Post("/churches", handlers.CreateChurch)
				r.Get("/churches/{ref}", handlers.GetChurch)
				r.Patch("/churches/{ref}", handlers.UpdateChurch)
				r.Delete("/churches/{ref}", handlers.DeleteChurch)

				r.Get("/outbox", handlers.ListOutboxFailures)
			})
		})
	})

	return r
}
