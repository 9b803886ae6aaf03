// Command gateway runs the agora gateway.
package main

import (
	"log"

	"agora/internal/bootstrap"
	"agora/internal/config"
)

func main() {
	if err := bootstrap.Run(config.ServiceGateway); err != nil {
		log.Fatalf("gateway: %v", err)
	}
}
