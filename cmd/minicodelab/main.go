package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/minicodelab"
	"github.com/eringen/minicodelab/logging"
	"github.com/eringen/minicodelab/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe()
	case "build":
		dir := "dist"
		if len(os.Args) > 2 {
			dir = os.Args[2]
		}
		err = runBuild(dir)
	case "version":
		fmt.Printf("minicodelab %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *minicodelab.App {
	logger := logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	return minicodelab.New(configFromEnv(), views.Default(), minicodelab.WithLogger(logger))
}

func runServe() error {
	app := newApp()
	defer app.Close()

	errc := make(chan error, 1)
	go func() {
		errc <- app.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

func runBuild(dir string) error {
	app := newApp()
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	return app.Export(ctx, dir)
}

func printUsage() {
	fmt.Println(`minicodelab - the MiniCodeLab blog server

Usage:
  minicodelab <command> [arguments]

Commands:
  serve         Serve the site, regenerating pages on their intervals
  build [dir]   Generate the site as static files (default "dist")
  version       Print the minicodelab version
  help          Show this help message

Configuration is read from the environment and an optional .env file.`)
}
