package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wordstackio/backend/internal/config"
	pgrepo "github.com/wordstackio/backend/internal/repo/postgres"
	authsvc "github.com/wordstackio/backend/internal/services/auth"
	feedsvc "github.com/wordstackio/backend/internal/services/feed"
	inksvc "github.com/wordstackio/backend/internal/services/ink"
	paymentsvc "github.com/wordstackio/backend/internal/services/payments"
	poemsvc "github.com/wordstackio/backend/internal/services/poems"
	poetsvc "github.com/wordstackio/backend/internal/services/poets"
	postsvc "github.com/wordstackio/backend/internal/services/posts"
	"github.com/wordstackio/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	FeedService    *feedsvc.Service
	InkService     *inksvc.Service
	PaymentService *paymentsvc.Service
	PoemService    *poemsvc.Service
	PoetService    *poetsvc.Service
	PostService    *postsvc.Service
	WalletRepo     *pgrepo.WalletRepo
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	healthHandler := handlers.NewHealthHandler()
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	poemHandler := handlers.NewPoemHandler(deps.PoemService)
	postHandler := handlers.NewPostHandler(deps.PostService)
	poetHandler := handlers.NewPoetHandler(deps.PoetService)
	inkHandler := handlers.NewInkHandler(deps.InkService)
	purchaseHandler := handlers.NewPurchaseHandler(deps.PaymentService, deps.WalletRepo)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
	})

	r.Route("/v1", func(r chi.Router) {
		r.With(authMW).Get("/feed", feedHandler.Get)

		r.With(authMW).Post("/poems", poemHandler.Publish)
		r.Get("/poems/{id}", poemHandler.Get)

		r.With(authMW).Post("/posts", postHandler.Publish)
		r.Get("/posts/{id}", postHandler.Get)

		r.Get("/poets/{id}", poetHandler.GetProfile)
		r.Get("/poets/{id}/poems", poemHandler.ListByPoet)
		r.With(authMW).Post("/poets/{id}/follow", poetHandler.Follow)
		r.With(authMW).Delete("/poets/{id}/follow", poetHandler.Unfollow)

		r.With(authMW).Get("/me/follows", poetHandler.Following)
		r.With(authMW).Put("/me/profile", poetHandler.UpdateProfile)

		r.With(authMW).Get("/ink", inkHandler.Snapshot)
		r.With(authMW).Post("/ink/support", inkHandler.Support)

		r.With(authMW).Get("/wallet", purchaseHandler.Wallet)
		r.With(authMW).Post("/purchase/create", purchaseHandler.Create)
		r.Post("/purchase/webhook", purchaseHandler.Webhook)
	})
}
