package main

import (
	"context"
	"fmt"
	"log"

	"session-token-service/core"
)

func main() {
	cfg, err := core.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	ctx := context.Background()
	db, err := core.Connect(ctx, cfg.DSN(), cfg.DBConnectTimeout)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	var revocation core.RevocationStore
	if cfg.RedisURL != "" {
		redisClient, err := core.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer redisClient.Close()
		revocation = core.NewRedisRevocationStore(redisClient)
		log.Printf("sign-out revocation watermark enabled")
	}

	users := core.NewPgUserRepository(db)
	tokens := core.NewTokenIssuer(cfg)
	sessions := core.NewSessionService(users, tokens, revocation)

	router := core.NewRouter(cfg, sessions)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting api server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
