package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/projectflow/engine/internal/api/handlers"
	mw "github.com/projectflow/engine/internal/api/middleware"
)

type Dependencies struct {
	HMACSecret           []byte
	AuthHandler          *handlers.AuthHandler
	GroupsHandler        *handlers.GroupsHandler
	ApprovalsHandler     *handlers.ApprovalsHandler
	GuidesHandler        *handlers.GuidesHandler
	AbstractsHandler     *handlers.AbstractsHandler
	SDGHandler           *handlers.SDGHandler
	NotificationsHandler *handlers.NotificationsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	// Swagger documentation
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/docs/doc.json"),
	))

	r.Route("/api/v1", func(api chi.Router) {
		// Auth routes (public)
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", dep.AuthHandler.Register)
			ar.Post("/login", dep.AuthHandler.Login)
			ar.Post("/logout", dep.AuthHandler.Logout)
		})

		// Protected routes
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.HMACSecret))
			protected.Use(mw.ActiveRole)

			// Student project workspace
			protected.Route("/project", func(pr chi.Router) {
				pr.Get("/", dep.GroupsHandler.Overview)
			})

			// Group formation
			protected.Route("/groups", func(gr chi.Router) {
				gr.Post("/invite", dep.GroupsHandler.Invite)
				gr.Post("/requests/{id}/respond", dep.GroupsHandler.Respond)
				gr.Get("/requests/pending", dep.GroupsHandler.PendingRequests)
				gr.Get("/requests/sent", dep.GroupsHandler.SentRequests)
				gr.Get("/students", dep.GroupsHandler.SearchStudents)
			})

			// Coordinator approval gate
			protected.Route("/approvals", func(ar chi.Router) {
				ar.Post("/", dep.ApprovalsHandler.Request)
				ar.Post("/{id}/decide", dep.ApprovalsHandler.Decide)
			})
			protected.Get("/coordinators", dep.ApprovalsHandler.ListCoordinators)
			protected.Get("/coordinator/dashboard", dep.ApprovalsHandler.Dashboard)

			// Guide assignment
			protected.Route("/guide-requests", func(gr chi.Router) {
				gr.Post("/", dep.GuidesHandler.Request)
				gr.Post("/{id}/decide", dep.GuidesHandler.Decide)
				gr.Get("/pending", dep.GuidesHandler.PendingRequests)
			})
			protected.Get("/guides", dep.GuidesHandler.ListGuides)
			protected.Get("/guide/groups", dep.GuidesHandler.AssignedGroups)
			protected.Get("/guide/review-queue", dep.AbstractsHandler.ReviewQueue)

			// Abstract pipeline
			protected.Route("/abstracts", func(ar chi.Router) {
				ar.Post("/", dep.AbstractsHandler.Submit)
				ar.Get("/", dep.AbstractsHandler.List)
				ar.Post("/{id}/guide-review", dep.AbstractsHandler.GuideReview)
				ar.Post("/{id}/coordinator-review", dep.AbstractsHandler.CoordinatorReview)
				ar.Get("/{id}/download", dep.AbstractsHandler.Download)
			})

			// SDG declaration
			protected.Route("/sdg", func(sr chi.Router) {
				sr.Post("/", dep.SDGHandler.Submit)
				sr.Get("/", dep.SDGHandler.Get)
			})

			// Notifications
			protected.Get("/notifications", dep.NotificationsHandler.List)
		})
	})

	return r
}
