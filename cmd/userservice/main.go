// Command userservice runs the agora user service.
package main

import (
	"log"

	"agora/internal/bootstrap"
	"agora/internal/config"
)

func main() {
	if err := bootstrap.Run(config.ServiceUser); err != nil {
		log.Fatalf("user service: %v", err)
	}
}
