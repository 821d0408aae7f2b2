package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mondaymcp/server/internal/auth"
	"mondaymcp/server/internal/broker"
	"mondaymcp/server/internal/credentials"
	"mondaymcp/server/internal/db"
	"mondaymcp/server/internal/mcp"
	"mondaymcp/server/internal/middleware"
	"mondaymcp/server/internal/observability"
)

func main() {
	// Initialize observability (Loki)
	observability.Init()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8089"
	}

	// Instance identification for LB
	instanceID := os.Getenv("INSTANCE_ID")
	if instanceID == "" {
		instanceID = "local"
	}

	// Hosted mode needs a database and credential encryption; without
	// DATABASE_URL the server runs single-user against MONDAY_API_KEY.
	var credentialStore *db.CredentialStore
	if os.Getenv("DATABASE_URL") != "" {
		database := db.Open()
		log.Printf("Database connected")

		db.InitEncryptionKey()
		log.Printf("Credential encryption initialized")

		broker.InitTokenBroker(database)
		credentialStore = db.NewCredentialStore(database)
	} else {
		if os.Getenv("MONDAY_API_KEY") == "" {
			log.Fatal("MONDAY_API_KEY is required when DATABASE_URL is not set")
		}
		broker.InitTokenBroker(nil)
		log.Printf("Running in single-user mode")
	}

	// Gateway JWT verification is optional: without GATEWAY_JWT_SECRET all
	// requests are attributed to the local user.
	var gatewayVerifier *auth.GatewayVerifier
	if secret := os.Getenv("GATEWAY_JWT_SECRET"); secret != "" {
		gatewayVerifier = auth.NewGatewayVerifier(secret)
		log.Printf("Gateway token verification enabled")
	}
	authorizer := middleware.NewAuthorizer(gatewayVerifier)

	// Create router (Go 1.22+ method-aware patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Instance-ID", instanceID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","instance":"%s"}`, instanceID)
	})

	// MCP endpoint with authorization + rate limit + transport middleware
	rateLimiter := middleware.NewRateLimiter(10)
	mcpHandler := mcp.NewHandler()
	mux.Handle("/v1/mcp", middleware.Recovery(authorizer.Authorize(rateLimiter.Middleware(middleware.Transport(mcpHandler)))))

	// Credential management is only reachable in hosted mode; single-user
	// mode takes its token from the environment.
	if credentialStore != nil {
		credHandler := credentials.NewHandler(credentialStore, broker.GetTokenBroker())
		mux.Handle("/v1/credentials", middleware.Recovery(authorizer.Authorize(credHandler)))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting MCP server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal %s, shutting down gracefully...", sig)

	// Give in-flight requests up to 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Printf("Server stopped")
}
