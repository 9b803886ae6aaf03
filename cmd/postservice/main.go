// Command postservice runs the agora post service.
package main

import (
	"log"

	"agora/internal/bootstrap"
	"agora/internal/config"
)

func main() {
	if err := bootstrap.Run(config.ServicePost); err != nil {
		log.Fatalf("post service: %v", err)
	}
}
