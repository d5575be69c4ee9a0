package main

import (
	"context"
	"log"

	"github.com/streetsource/streetsource-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("streetsource api exited: %v", err)
	}
}
