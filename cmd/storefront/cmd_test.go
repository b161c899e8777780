package main

import (
	"context"
	"errors"
	"testing"

	"github.com/MikeMC777/catering-ecom/internal/config"
)

func TestServe_RefusesWeakSecretInProduction(t *testing.T) {
	for _, secret := range []string{"", config.DefaultJWTSecret} {
		cfg := config.Config{AppEnv: "production", JWTSecret: secret, PostgresDSN: "postgres://unreachable:1/none"}
		err := serve(context.Background(), cfg, false)
		if !errors.Is(err, config.ErrWeakJWTSecret) {
			t.Fatalf("secret %q: err=%v", secret, err)
		}
	}
}
