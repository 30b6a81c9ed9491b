package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shiricson7/gpt-us-report/internal/draft"
	"github.com/shiricson7/gpt-us-report/internal/guardian"
	"github.com/shiricson7/gpt-us-report/internal/httpapi"
	"github.com/shiricson7/gpt-us-report/internal/identity"
	"github.com/shiricson7/gpt-us-report/internal/llm"
	"github.com/shiricson7/gpt-us-report/internal/store"
	"github.com/shiricson7/gpt-us-report/internal/telemetry"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "./data/reports.db", "path to SQLite database file")
	hospital := flag.String("hospital", "", "hospital name printed on reports")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, "report-server")
	if err != nil {
		log.Fatalf("tracing setup: %v", err)
	}
	defer func() {
		shutdownCtx, c := context.WithTimeout(context.Background(), 5*time.Second)
		defer c()
		_ = shutdownTracing(shutdownCtx)
	}()

	var drafter *draft.Drafter
	var builder *guardian.Builder
	caller, err := llm.NewAnthropicCallerFromEnv()
	if err != nil {
		log.Printf("drafting disabled: %v", err)
		builder = guardian.NewBuilder(nil)
	} else {
		drafter = draft.NewDrafter(caller)
		builder = guardian.NewBuilder(caller)
	}

	var cipher *identity.Cipher
	if secret := strings.TrimSpace(os.Getenv("RRN_ENCRYPTION_SECRET")); secret != "" {
		cipher, err = identity.NewCipher(secret)
		if err != nil {
			log.Fatalf("identifier cipher: %v", err)
		}
	} else {
		log.Printf("RRN_ENCRYPTION_SECRET not set; secure identifier endpoint disabled")
	}

	reports, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("open report store (%s): %v", *dbPath, err)
	}
	defer reports.Close()

	handler := httpapi.NewServer(httpapi.Config{
		Drafter:  drafter,
		Guardian: builder,
		Cipher:   cipher,
		Reports:  reports,
		Hospital: *hospital,
		Token:    os.Getenv("REPORT_API_TOKEN"),
	})

	srv := &http.Server{Addr: *addr, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, c := context.WithTimeout(context.Background(), 10*time.Second)
		defer c()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("report-server listening on %s (db=%s)", *addr, *dbPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
