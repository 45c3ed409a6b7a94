package http

import (
	"net/http"

	_ "github.com/shariq8055/ClosetCoach/docs" // Импорт сгенерированных файлов
	"github.com/shariq8055/ClosetCoach/internal/usecase"
	"github.com/shariq8055/ClosetCoach/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(
	cirUC usecase.CirUC,
	wardrobeUC usecase.WardrobeUC,
	stylistUC usecase.StylistUC,
	inference usecase.InferenceInfra,
) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			WriteSuccess(w, http.StatusOK, map[string]string{
				"status":  "ok",
				"message": "ClosetCoach API is running",
			})
		})

		cirHandler := NewCirHandler(cirUC, inference, r.logger)
		wardrobeHandler := NewWardrobeHandler(wardrobeUC, r.logger)
		stylistHandler := NewStylistHandler(stylistUC, r.logger)

		registerCirRoutes(v1, cirHandler, wardrobeHandler)
		registerOutfitRoutes(v1, stylistHandler, wardrobeHandler)
		registerWardrobeRoutes(v1, wardrobeHandler)
	})
}

func registerCirRoutes(router chi.Router, cirHandler *CirHandler, wardrobeHandler *WardrobeHandler) {
	router.Route("/cir", func(cir chi.Router) {
		cir.Post("/", cirHandler.retrieveComplementary)
		cir.Post("/user", wardrobeHandler.retrieveUserCIR)
	})
}

func registerOutfitRoutes(router chi.Router, stylistHandler *StylistHandler, wardrobeHandler *WardrobeHandler) {
	router.Route("/outfits", func(outfits chi.Router) {
		outfits.Post("/", stylistHandler.recommend)
		outfits.Post("/user", wardrobeHandler.generateOutfit)
	})
}

func registerWardrobeRoutes(router chi.Router, wardrobeHandler *WardrobeHandler) {
	router.Route("/wardrobe", func(wardrobe chi.Router) {
		wardrobe.Post("/{userID}/items", wardrobeHandler.addItem)
	})
}
