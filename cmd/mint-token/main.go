// Command mint-token issues a bearer token for a station or operator,
// signed with the server's configured JWT secret.
//
//	VSE_JWT_SECRET=... go run ./cmd/mint-token --subject bar-1 --role station
package main

import (
	"fmt"
	"os"
	"time"

	"venue-settlement-engine/config"
	"venue-settlement-engine/internal/service"

	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("mint-token", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to config file (defaults to ./config.yaml)")
	subject := flags.StringP("subject", "s", "", "token subject: station ID or operator name")
	role := flags.StringP("role", "r", service.RoleStation, "station or admin")
	expiry := flags.Duration("expiry", 0, "override jwt.expiry")
	_ = flags.Parse(os.Args[1:])

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "--subject is required")
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "jwt.secret is not set (VSE_JWT_SECRET)")
		os.Exit(1)
	}

	ttl := cfg.JWT.Expiry
	if *expiry > 0 {
		ttl = *expiry
	}

	token, expiresAt, err := service.NewJWTTokenService(cfg.JWT.Secret, ttl, cfg.JWT.Issuer).Generate(*subject, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to mint token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "subject=%s role=%s expires=%s\n", *subject, *role, expiresAt.UTC().Format(time.RFC3339))
	fmt.Println(token)
}
