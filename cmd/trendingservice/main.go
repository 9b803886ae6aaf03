// Command trendingservice runs the agora trending service.
package main

import (
	"log"

	"agora/internal/bootstrap"
	"agora/internal/config"
)

func main() {
	if err := bootstrap.Run(config.ServiceTrending); err != nil {
		log.Fatalf("trending service: %v", err)
	}
}
