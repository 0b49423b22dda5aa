package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/gnarhq/gnarscore/internal/app"
	"github.com/gnarhq/gnarscore/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	catalogHandler := handlers.NewCatalogHandler(service)
	gameHandler := handlers.NewGameHandler(service)

	http.HandleFunc("POST /api/v1/mountains", catalogHandler.HandleImport)
	http.HandleFunc("GET /api/v1/mountains", catalogHandler.HandleList)
	http.HandleFunc("GET /api/v1/mountains/{mountain}", catalogHandler.HandleGet)

	http.HandleFunc("POST /api/v1/games", gameHandler.HandleCreateGame)
	http.HandleFunc("GET /api/v1/games", gameHandler.HandleListGames)
	http.HandleFunc("GET /api/v1/games/{game}", gameHandler.HandleGetGame)
	http.HandleFunc("POST /api/v1/games/{game}/players", gameHandler.HandleAddPlayer)
	http.HandleFunc("POST /api/v1/games/{game}/scores", gameHandler.HandleRecordScore)
	http.HandleFunc("GET /api/v1/games/{game}/scores", gameHandler.HandleListScores)
	http.HandleFunc("PUT /api/v1/games/{game}/scores/{score}", gameHandler.HandleEditScore)
	http.HandleFunc("DELETE /api/v1/games/{game}/scores/{score}", gameHandler.HandleDeleteScore)
	http.HandleFunc("GET /api/v1/games/{game}/leaderboard", gameHandler.HandleLeaderboard)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting gnarscore server on %s", service.Config.Server.Port)
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("gnarscore server failed: %v", err)
	}
}
