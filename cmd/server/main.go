package main

import (
	"log"
	"net/http"
	"time"

	"github.com/warinb/linkgrove/pkg/adapters/handler"
	"github.com/warinb/linkgrove/pkg/adapters/repository"
	"github.com/warinb/linkgrove/pkg/assets"
	"github.com/warinb/linkgrove/pkg/config"
	"github.com/warinb/linkgrove/pkg/core/domain"
	"github.com/warinb/linkgrove/pkg/core/services"
	"github.com/warinb/linkgrove/pkg/wallet"
)

func main() {
	cfg := config.Load()

	// Initialize Repository
	repo, err := repository.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize Services
	signer := wallet.MockSigner{}
	events := services.NewEventBus()
	events.OnProfileCreated(func(ev domain.ProfileCreated) {
		log.Printf("profile created: %s owner=%s", ev.ProfileID, ev.Owner)
	})
	events.OnLinkAdded(func(ev domain.LinkAdded) {
		log.Printf("link added: %s/%d %s", ev.ProfileID, ev.LinkID, ev.URL)
	})
	events.OnLinkDeleted(func(ev domain.LinkDeleted) {
		log.Printf("link deleted: %s/%d", ev.ProfileID, ev.LinkID)
	})
	profileService := services.NewProfileService(repo, signer, events)
	linkService := services.NewLinkService(repo, signer, events)

	// Initialize Router
	mux := handler.NewRouter(cfg, profileService, linkService, &assets.StaticEnumerator{}, wallet.InsecureVerifier{})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
