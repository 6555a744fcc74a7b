package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/zhengrowth/growth-api/internal/infra/http/middleware"
)

// Routes groups every HTTP handler of the API.
type Routes struct {
	Health        *HealthHandler
	Leads         *LeadHandler
	Offers        *OfferHandler
	Coupons       *CouponHandler
	Checkout      *CheckoutHandler
	Subscriptions *SubscriptionHandler
	Webhooks      *WebhookHandler
	Paywall       *PaywallHandler
	Lessons       *LessonHandler
	Bookings      *BookingHandler
	Nudges        *NudgeHandler
	Referrals     *ReferralHandler
	Engagement    *EngagementHandler
	Content       *ContentHandler
	Secrets       *SecretHandler
}

func (rt Routes) Register(r chi.Router, auth *middleware.Authenticator) {
	r.Get("/health", rt.Health.Handle)

	r.Route("/api", func(r chi.Router) {
		r.Post("/leads", rt.Leads.Capture)
		r.Get("/offers", rt.Offers.List)
		r.Get("/offers/{slug}", rt.Offers.Get)
		r.Post("/pricing/assign", rt.Offers.Assign)
		r.Post("/coupons/validate", rt.Coupons.Validate)
		r.Post("/checkout", rt.Checkout.Handle)
		r.Post("/webhooks/payments", rt.Webhooks.Handle)
		r.Get("/lessons", rt.Lessons.List)
		r.Get("/lessons/{slug}", rt.Lessons.Get)
		r.Post("/bookings", rt.Bookings.Create)
		r.Get("/bookings/{id}/ics", rt.Bookings.ICS)
		r.Post("/bookings/{id}/cancel", rt.Bookings.Cancel)
		r.Post("/referrals/track", rt.Referrals.Track)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Get("/subscriptions/me", rt.Subscriptions.Me)
			r.Get("/paywall/can-watch", rt.Paywall.CanWatch)
			r.Post("/paywall/mark-watch", rt.Paywall.MarkWatch)
			r.Post("/nudges/evaluate", rt.Nudges.Evaluate)
			r.Get("/nudges", rt.Nudges.List)
			r.Post("/nudges/{id}/dismiss", rt.Nudges.Dismiss)
			r.Post("/referrals/code", rt.Referrals.Code)
			r.Get("/referrals", rt.Referrals.List)
			r.Get("/engagement/me", rt.Engagement.Me)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/leads", rt.Leads.List)
				r.Post("/coupons", rt.Coupons.Create)
				r.Post("/lessons/{id}/versions", rt.Lessons.PublishVersion)
				r.Get("/lessons/{id}/versions", rt.Lessons.History)
				r.Post("/lessons/{id}/versions/{version}/restore", rt.Lessons.Restore)
				r.Get("/bookings", rt.Bookings.List)
				r.Get("/engagement/{user_id}", rt.Engagement.ForUser)
				r.Get("/content-calendar", rt.Content.Calendar)
				r.Post("/social/dispatch", rt.Content.DispatchSocial)
				r.Get("/secrets", rt.Secrets.List)
				r.Put("/secrets/{name}", rt.Secrets.Put)
				r.Delete("/secrets/{name}", rt.Secrets.Delete)
			})
		})
	})
}
