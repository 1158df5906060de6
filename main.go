package main

import (
	"github.com/bookdeck/bookdeck/internal/config"
	"github.com/bookdeck/bookdeck/internal/entrypoint"
)

func main() {
	cfg := config.NewConfig()
	entrypoint.Run(cfg)
}
