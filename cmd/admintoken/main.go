// Command admintoken prints a bearer token accepted by hard_delete_product.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/example/catalog-service/config"
	"github.com/example/catalog-service/middleware/adminguard"
	"github.com/spf13/pflag"
)

func main() {
	subject := pflag.StringP("sub", "s", "ops", "token subject")
	ttl := pflag.DurationP("ttl", "t", 15*time.Minute, "token lifetime")
	pflag.Parse()

	cfg := config.Load()
	if cfg.AdminSecret == "" {
		log.Fatal("CATALOG_ADMIN_SECRET is not set")
	}

	guardCfg := adminguard.DefaultConfig()
	guardCfg.Secret = cfg.AdminSecret
	guardCfg.Issuer = cfg.AdminIssuer
	guardCfg.TokenTTL = *ttl

	token, err := adminguard.NewTokenIssuer(guardCfg).Issue(*subject)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println("Bearer " + token)
}
