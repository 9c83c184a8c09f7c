// Command useradd creates a Smart Notes account from the terminal. It reads
// the same configuration flags and JSON file as the server.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
	"github.com/dmitrijs2005/smartnotes/internal/useradd"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, "warn")

	db, rm, err := server.OpenDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	users := services.NewUserService(db, rm, cfg, logger)
	if err := useradd.Run(ctx, users, os.Stdin, os.Stdout); err != nil {
		log.Printf("%v", err)
		db.Close()
		os.Exit(1)
	}
}
