package bootstrap

import (
	"context"
	"testing"
	"time"

	"agora/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatewayConfig(redisURL string) *config.Config {
	return &config.Config{
		Service:                  config.ServiceGateway,
		Env:                      "test",
		Port:                     "8080",
		UserServiceBase:          "http://127.0.0.1:1",
		ServiceTimeout:           time.Second,
		HealthTimeout:            time.Second,
		JWTSecret:                "bootstrap-test-secret-32-characters",
		JWTAlgorithm:             "HS256",
		JWTIssuer:                "agora-gateway",
		AccessTokenExpireMinutes: 15,
		RedisURL:                 redisURL,
	}
}

func TestBuild_UnknownService(t *testing.T) {
	_, err := Build(context.Background(), &config.Config{Service: "billing"})
	assert.ErrorContains(t, err, "unknown service")
}

func TestBuild_GatewayRejectsBadSigningConfig(t *testing.T) {
	cfg := gatewayConfig("127.0.0.1:1")
	cfg.JWTAlgorithm = "RS256"
	_, err := Build(context.Background(), cfg)
	assert.ErrorContains(t, err, "token issuer")
}

func TestBuild_Gateway(t *testing.T) {
	mr := miniredis.RunT(t)

	srv, err := Build(context.Background(), gatewayConfig(mr.Addr()))
	require.NoError(t, err)
	require.NotNil(t, srv.NewApp())
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestInit_UnknownService(t *testing.T) {
	_, _, err := Init("billing")
	assert.Error(t, err)
}
