package main

import (
	"log"
	"net/http"

	"voxqa/internal/api"
	"voxqa/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	h := api.NewServer(cfg)
	log.Printf("voxqa api listening on %s extractors=%q model=%s", cfg.APIAddr, cfg.Extractors, cfg.QAModel)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
