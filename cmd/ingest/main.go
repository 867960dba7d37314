package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/legaflow/internal/app"
	"github.com/dmitrijs2005/legaflow/internal/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.Load(config.ServiceIngest)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(2)
	}

	if err := app.NewIngestApp(cfg).Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
