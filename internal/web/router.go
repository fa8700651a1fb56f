// Package web assembles the HTTP router: middleware stack, public surface,
// and the authenticated and admin subtrees.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hkm/sadhana/internal/auth"
	"github.com/hkm/sadhana/internal/config"
	"github.com/hkm/sadhana/internal/handlers"
	"github.com/hkm/sadhana/internal/services"
	"github.com/hkm/sadhana/internal/store"
)

func Router(cfg *config.Config, st *store.Store) http.Handler {
	activities := services.NewActivities(st)
	quickEntry := services.NewQuickEntry(st)
	adminSvc := services.NewAdmin(st)

	authH := handlers.NewAuth(st, cfg.JWTSecret)
	activityH := handlers.NewActivity(activities)
	monthlyH := handlers.NewMonthly(activities)
	quickH := handlers.NewQuickEntry(quickEntry)
	adminH := handlers.NewAdmin(adminSvc)
	qrH := handlers.NewQR(st)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handlers.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)
	r.Post("/auth/admin-login", authH.AdminLogin)

	// Anonymous quick-entry surface; the token is the credential.
	r.Get("/quick-entry/{token}", quickH.Validate)
	r.Post("/quick-entry/{token}", quickH.Submit)
	r.Get("/qr/{token}.png", qrH.Image)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(cfg.JWTSecret, st))

		r.Post("/auth/change-password", authH.ChangePassword)
		r.Post("/auth/logout", authH.Logout)
		r.Post("/auth/qr-token", authH.GenerateQRToken)

		r.Get("/activities/week-data", activityH.WeekData)
		r.Post("/activities/add-or-edit-day", activityH.AddOrEditDay)
		r.Delete("/activities/{id}/delete-day", activityH.DeleteDay)
		r.Get("/activities/filter", activityH.Filter)
		r.Get("/activities/chanting-round-count", activityH.ChantingRoundCount)

		r.Get("/monthly/current-month", monthlyH.CurrentMonth)
		r.Get("/monthly/get-month", monthlyH.GetMonth)
		r.Post("/monthly/add-or-edit", monthlyH.AddOrEdit)
		r.Get("/monthly/filter", monthlyH.Filter)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Get("/admin/devotees", adminH.Devotees)
			r.Get("/admin/devotees/{id}", adminH.DevoteeDetail)
			r.Get("/admin/devotees/{id}/filter-activities", adminH.FilterDevoteeActivities)
			r.Get("/admin/analytics", adminH.Analytics)
		})
	})

	return r
}
