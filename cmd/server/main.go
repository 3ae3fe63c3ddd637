package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/jrsteele09/go-identity-provider/executor"
	"github.com/jrsteele09/go-identity-provider/internal/config"
	"github.com/jrsteele09/go-identity-provider/oidcclient"
	"github.com/jrsteele09/go-identity-provider/provider"
	"github.com/jrsteele09/go-identity-provider/server"
	"github.com/jrsteele09/go-identity-provider/tenants"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	authProvider, pool, err := buildProvider(c)
	if err != nil {
		return err
	}
	defer pool.Close()

	resourceServer, err := server.New(c, authProvider)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: resourceServer}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildProvider(c config.Config) (*provider.Provider, *executor.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := oidcclient.New(ctx, oidcclient.Config{
		Issuer:           c.GetIssuer(),
		ClientID:         c.GetClientID(),
		ClientSecret:     c.GetClientSecret(),
		IntrospectionURL: c.GetIntrospectionURL(),
		PublicKey:        c.GetPublicKey(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("oidcclient.New: %w", err)
	}

	tenantRepo := tenants.NewInMemoryRepo()
	if err := tenantRepo.Upsert(&tenants.Context{
		Config: tenants.Config{
			ID:        c.GetTenantID(),
			Issuer:    c.GetIssuer(),
			PublicKey: c.GetPublicKey(),
		},
		Client: client,
	}); err != nil {
		return nil, nil, fmt.Errorf("registering tenant: %w", err)
	}

	resolver, err := tenants.NewRepoResolver(tenantRepo)
	if err != nil {
		return nil, nil, fmt.Errorf("tenants.NewRepoResolver: %w", err)
	}

	pool := executor.NewPool(8, 64)

	// HTTP handlers run on their own goroutines, so blocking is allowed.
	authProvider, err := provider.New(resolver, func() bool { return true }, pool)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("provider.New: %w", err)
	}
	return authProvider, pool, nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
