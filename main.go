package main

import (
	"log"
	"net/http"
	"os"
)

func main() {
	cfg, err := LoadConfig(os.Getenv("COFFEE_CONFIG"))
	if err != nil {
		log.Fatal("Error loading config:", err)
	}
	jwtSecret = []byte(cfg.JWTSecret)

	initDB(cfg.DatabaseURL)

	hub := newHub()
	source := newPostgresSource(db, cfg.Matching)
	publisher := newPostgresPublisher(db, hub)
	engine := NewEngine(cfg.Matching, source, publisher)

	mux := http.NewServeMux()

	// Operator auth
	mux.Handle("/login", loginHandler(db))

	// Matching run trigger (the scheduler and the operator console both
	// land here; one call per locale per run)
	mux.Handle("/match/trigger", matchTriggerHandler(engine))

	// Pairing event feed for notifier processes
	mux.Handle("/ws/events", wsEventsHandler(hub))

	// Health check endpoint for Docker
	mux.Handle("/health", healthHandler())

	log.Println("Matching service starting on", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, withCORS(mux)))
}
