package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/accountsvc/internal/server"
	"github.com/dmitrijs2005/accountsvc/internal/server/config"
)

func main() {
	// optional local .env, ignored when absent
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
