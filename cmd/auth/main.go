// Command auth runs the tubetab accounts service.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/tubetab/internal/auth/app"
)

func main() {
	printVersion := flag.Bool("version", false, "print the build version and exit")
	flag.Parse()

	if *printVersion {
		fmt.Println(app.BuildVersion)
		return
	}

	if err := run(); err != nil {
		slog.Error("accounts service stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	application, err := app.New(app.LoadConfig())
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return application.Run()
}
