package httpserver

import (
	"net/http"
	"time"

	"band-manager-go/internal/config"
	"band-manager-go/internal/transport/httpserver/handler"
	authmw "band-manager-go/internal/transport/httpserver/middleware"
	"band-manager-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth authmw.Authenticator, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Post("/register", handlers.Register)

		basic := authmw.NewBasicAuth(cfg.Auth, auth, log)
		r.Group(func(r chi.Router) {
			r.Use(basic.Middleware)

			r.Get("/auth/me", handlers.AuthMe)
			r.Patch("/auth/me", handlers.UpdateAccount)

			r.Get("/users", handlers.ListUsers)
			r.Get("/users/{user_id}", handlers.GetUser)
			r.Get("/users/{user_id}/contact", handlers.EffectiveContact)
			r.Get("/users/{user_id}/needed-parts", handlers.NeededMusicParts)
			r.Get("/users/{user_id}/owned-parts", handlers.OwnedMusicParts)

			r.Post("/guardians", handlers.LinkChild)
			r.Get("/children", handlers.ListChildren)
			r.Get("/children/mine", handlers.ListMyChildren)

			r.Get("/committee", handlers.ListCommitteeMembers)
			r.Post("/committee", handlers.PromoteToCommittee)
			r.Delete("/committee/{user_id}", handlers.DemoteFromCommittee)

			r.Get("/bands", handlers.ListBands)
			r.Post("/bands", handlers.CreateBand)
			r.Get("/bands/mine", handlers.ListMyBands)
			r.Get("/bands/{band_id}", handlers.GetBand)
			r.Get("/bands/{band_id}/members", handlers.ListBandMembers)
			r.Post("/bands/{band_id}/members", handlers.AddBandMember)
			r.Delete("/bands/{band_id}/members/{user_id}", handlers.RemoveBandMember)

			r.Get("/performances", handlers.ListPerformances)
			r.Post("/performances", handlers.CreatePerformance)
			r.Get("/performances/{performance_id}", handlers.GetPerformance)
			r.Put("/performances/{performance_id}", handlers.UpdatePerformance)
			r.Delete("/performances/{performance_id}", handlers.DeletePerformance)
			r.Get("/performances/{performance_id}/bands", handlers.ListPerformanceBands)
			r.Put("/performances/{performance_id}/bands/{band_id}", handlers.LinkPerformanceBand)
			r.Delete("/performances/{performance_id}/bands/{band_id}", handlers.UnlinkPerformanceBand)
			r.Get("/performances/{performance_id}/sets", handlers.ListPerformanceMusicSets)
			r.Put("/performances/{performance_id}/sets/{set_id}", handlers.LinkPerformanceMusicSet)
			r.Delete("/performances/{performance_id}/sets/{set_id}", handlers.UnlinkPerformanceMusicSet)
			r.Get("/performances/{performance_id}/attendance", handlers.ListAttendance)
			r.Put("/performances/{performance_id}/attendance", handlers.SetMyAvailability)

			r.Get("/music-sets", handlers.ListMusicSets)
			r.Post("/music-sets", handlers.CreateMusicSet)
			r.Get("/music-sets/{set_id}", handlers.GetMusicSet)
			r.Put("/music-sets/{set_id}", handlers.UpdateMusicSet)
			r.Delete("/music-sets/{set_id}", handlers.DeleteMusicSet)
			r.Get("/music-sets/{set_id}/parts", handlers.ListMusicParts)
			r.Post("/music-sets/{set_id}/parts", handlers.AddMusicPart)
			r.Put("/music-sets/{set_id}/bands/{band_id}", handlers.AttachMusicSetBand)
			r.Delete("/music-sets/{set_id}/bands/{band_id}", handlers.DetachMusicSetBand)
			r.Delete("/music-sets/{set_id}/bands", handlers.ClearMusicSetBands)
			r.Get("/music-sets/{set_id}/notes", handlers.ListMusicSetNotes)
			r.Post("/music-sets/{set_id}/notes", handlers.AddMusicSetNote)
			r.Get("/music-parts", handlers.FindMusicPart)
			r.Delete("/music-parts/{part_id}", handlers.DeleteMusicPart)

			r.Get("/orders", handlers.ListMusicOrders)
			r.Post("/orders", handlers.CreateMusicOrder)
			r.Get("/orders/{order_id}", handlers.GetMusicOrder)
			r.Delete("/orders/{order_id}", handlers.DeleteMusicOrder)
			r.Get("/orders/{order_id}/parts", handlers.ListMusicOrderParts)
			r.Post("/orders/{order_id}/parts", handlers.AddMusicOrderPart)
			r.Post("/orders/{order_id}/ready", handlers.MarkOrderReady)
			r.Post("/orders/{order_id}/fulfilled", handlers.MarkOrderFulfilled)

			r.Get("/instruments", handlers.ListInstruments)
			r.Post("/instruments", handlers.CreateInstrument)
			r.Get("/instruments/{instrument_id}", handlers.GetInstrument)
			r.Put("/instruments/{instrument_id}", handlers.UpdateInstrument)
			r.Delete("/instruments/{instrument_id}", handlers.DeleteInstrument)
			r.Post("/instruments/{instrument_id}/loan", handlers.LoanInstrument)
			r.Post("/instruments/{instrument_id}/return", handlers.ReturnInstrument)
			r.Get("/instruments/{instrument_id}/notes", handlers.ListInstrumentNotes)
			r.Post("/instruments/{instrument_id}/notes", handlers.AddInstrumentNote)
			r.Get("/instrument-loans/mine", handlers.ListMyInstrumentLoans)
			r.Post("/instrument-loans/{loan_id}/return", handlers.ReturnInstrumentLoan)

			r.Get("/misc", handlers.ListMiscellaneous)
			r.Get("/misc/find", handlers.FindMiscellaneousItem)
			r.Post("/misc", handlers.CreateMiscellaneous)
			r.Get("/misc/{misc_id}", handlers.GetMiscellaneous)
			r.Put("/misc/{misc_id}", handlers.UpdateMiscellaneous)
			r.Delete("/misc/{misc_id}", handlers.DeleteMiscellaneous)
			r.Post("/misc/{misc_id}/loan", handlers.LoanMiscellaneous)
			r.Post("/misc-loans/{loan_id}/return", handlers.ReturnMiscellaneous)
			r.Get("/misc-loans/mine", handlers.ListMyMiscellaneousLoans)
		})
	})

	return r
}
