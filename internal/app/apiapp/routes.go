package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/harryrismananda/lingohub/backend/internal/config"
	authsvc "github.com/harryrismananda/lingohub/backend/internal/services/auth"
	catalogsvc "github.com/harryrismananda/lingohub/backend/internal/services/catalog"
	contentsvc "github.com/harryrismananda/lingohub/backend/internal/services/content"
	entsvc "github.com/harryrismananda/lingohub/backend/internal/services/entitlements"
	paymentssvc "github.com/harryrismananda/lingohub/backend/internal/services/payments"
	progresssvc "github.com/harryrismananda/lingohub/backend/internal/services/progress"
	userssvc "github.com/harryrismananda/lingohub/backend/internal/services/users"
	"github.com/harryrismananda/lingohub/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService        *authsvc.Service
	CatalogService     *catalogsvc.Service
	ContentService     *contentsvc.Service
	EntitlementService *entsvc.Service
	PaymentService     *paymentssvc.Service
	ProgressService    *progresssvc.Service
	UserService        *userssvc.Service
	Logger             *zap.Logger
	Config             config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	languageHandler := handlers.NewLanguageHandler(deps.CatalogService)
	courseHandler := handlers.NewCourseHandler(deps.CatalogService)
	questionHandler := handlers.NewQuestionHandler(deps.CatalogService, deps.ContentService)
	profileHandler := handlers.NewProfileHandler(deps.UserService)
	progressHandler := handlers.NewProgressHandler(deps.ProgressService)
	transactionHandler := handlers.NewTransactionHandler(deps.PaymentService, deps.Logger)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminMW := RequireRole("admin")
	premiumMW := RequirePremium(deps.EntitlementService)

	r.Get("/healthz", healthHandler.Get)

	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/google-login", authHandler.Google)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout-all", authHandler.LogoutAll)
	})

	r.Route("/languages", func(r chi.Router) {
		r.Get("/", languageHandler.List)
		r.Get("/{id}", languageHandler.Get)
		r.With(authMW, adminMW).Post("/", languageHandler.Create)
		r.With(authMW, adminMW).Delete("/{id}", languageHandler.Delete)
	})

	r.Route("/courses", func(r chi.Router) {
		r.With(authMW).Get("/", courseHandler.List)
		r.With(authMW).Get("/language/{languageId}", courseHandler.ListByLanguage)
		r.With(authMW, premiumMW).Get("/{id}", courseHandler.Get)
		r.With(authMW, adminMW).Post("/", courseHandler.Create)
		r.With(authMW, adminMW).Put("/{id}", courseHandler.Update)
		r.With(authMW, adminMW).Delete("/{id}", courseHandler.Delete)
	})

	r.Route("/questions", func(r chi.Router) {
		r.With(authMW).Get("/", questionHandler.List)
		r.With(authMW).Get("/{id}", questionHandler.Get)
		r.With(authMW, premiumMW).Get("/course/{courseId}", questionHandler.ListByCourse)
		r.With(authMW, adminMW).Post("/", questionHandler.Create)
		r.With(authMW, adminMW).Post("/generate", questionHandler.Generate)
		r.With(authMW, adminMW).Put("/{id}", questionHandler.Update)
		r.With(authMW, adminMW).Delete("/{id}", questionHandler.Delete)
	})

	r.Route("/users/{id}", func(r chi.Router) {
		r.With(authMW).Get("/profile", profileHandler.Get)
		r.With(authMW).Put("/profile", profileHandler.Update)
		r.With(authMW).Patch("/profile/image", profileHandler.SetImage)
		r.With(authMW, adminMW).Delete("/", profileHandler.Delete)

		r.With(authMW).Post("/progress", progressHandler.Enroll)
		r.With(authMW).Get("/progress", progressHandler.List)
		r.With(authMW).Get("/progress/{languageId}", progressHandler.Get)
		r.With(authMW).Put("/progress/{languageId}", progressHandler.Update)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.With(authMW).Post("/create-order", transactionHandler.CreateOrder)
		r.With(authMW).Post("/create-transaction", transactionHandler.CreateTransaction)
		r.With(authMW).Get("/", transactionHandler.Get)
		r.Post("/notification", transactionHandler.Notification)
	})
}
