package handler

import (
	"net/http"

	"github.com/warinb/linkgrove/pkg/adapters/handler"
	"github.com/warinb/linkgrove/pkg/adapters/repository"
	"github.com/warinb/linkgrove/pkg/assets"
	"github.com/warinb/linkgrove/pkg/config"
	"github.com/warinb/linkgrove/pkg/core/services"
	"github.com/warinb/linkgrove/pkg/wallet"
)

var mux http.Handler

func init() {
	cfg := config.Load()

	// Note: On Vercel, grove.sqlite is ephemeral unless using a remote SQL/Turso URL in DATABASE_URL
	repo, err := repository.New(cfg.DatabaseURL)
	if err != nil {
		// Log but don't fatal, let internal error happen on request if crucial
		panic(err)
	}

	signer := wallet.MockSigner{}
	events := services.NewEventBus()
	profileService := services.NewProfileService(repo, signer, events)
	linkService := services.NewLinkService(repo, signer, events)
	mux = handler.NewRouter(cfg, profileService, linkService, &assets.StaticEnumerator{}, wallet.InsecureVerifier{})
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
