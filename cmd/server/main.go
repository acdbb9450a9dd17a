package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	vocta "github.com/vocta-football/vocta"
	"github.com/vocta-football/vocta/catalog"
	"github.com/vocta-football/vocta/realtime"
	"github.com/vocta-football/vocta/server"
	"github.com/vocta-football/vocta/shoptools"
	"github.com/vocta-football/vocta/stores"
)

const tracesKeptFor = 30 * 24 * time.Hour

func main() {
	cfg := vocta.LoadConfig()

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	store, err := stores.NewStore(stores.NewStoreConfig(cfg.TraceStore, cfg.TraceDSN))
	if err != nil {
		log.Fatalf("Failed to open trace store: %v", err)
	}
	defer store.Close()

	chatAgent := vocta.Create_Agent(vocta.NewModel(cfg, vocta.PersonaPrompt()), shoptools.StoreTools())
	voiceAgent := vocta.Create_Agent(vocta.NewModel(cfg, vocta.VoicePrompt), nil)

	hub := realtime.NewHub()

	// Speech clients use application default credentials and are optional:
	// text chat and the dashboard work without them.
	ctx := context.Background()
	var streamer realtime.SpeechStreamer
	var synth realtime.SpeechSynthesizer

	if gs, err := realtime.NewGoogleSpeechStreamer(ctx, cfg.SpeechLanguage); err != nil {
		log.Printf("Speech-to-text disabled: %v", err)
	} else {
		streamer = gs
		defer gs.Close()
	}

	if ts, err := realtime.NewGoogleSynthesizer(ctx, cfg.TTSVoice, cfg.TTSLanguage); err != nil {
		log.Printf("Text-to-speech disabled: %v", err)
	} else {
		synth = ts
		defer ts.Close()
	}

	scheduler := cron.New()
	scheduler.AddFunc("@every 30s", hub.Sweep)
	scheduler.AddFunc("@daily", func() {
		pruned, err := store.PruneBefore(time.Now().Add(-tracesKeptFor))
		if err != nil {
			log.Printf("Trace prune failed: %v", err)
			return
		}
		if pruned > 0 {
			log.Printf("Pruned %d old turn traces", pruned)
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	srv := server.NewServer(cfg, cat, &chatAgent, &voiceAgent, hub, store, streamer, synth)

	router := gin.Default()
	srv.Routes(router)

	log.Printf("Listening on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
