// Command commentservice runs the agora comment service.
package main

import (
	"log"

	"agora/internal/bootstrap"
	"agora/internal/config"
)

func main() {
	if err := bootstrap.Run(config.ServiceComment); err != nil {
		log.Fatalf("comment service: %v", err)
	}
}
