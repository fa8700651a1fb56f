package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/hkm/sadhana/internal/config"
	"github.com/hkm/sadhana/internal/db"
	"github.com/hkm/sadhana/internal/store"
	"github.com/hkm/sadhana/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	if err := db.Init(cfg.DBPath); err != nil {
		log.Fatalf("init database: %v", err)
	}

	router := web.Router(cfg, store.New(db.Conn()))

	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server: %v", err)
	}
}
