package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/app"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/log"
	"github.com/IrinaTerentieva/DroneFlightPlanner/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to the planner configuration file")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("shadowplan-server %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	filename, _ := filepath.Abs(*cfgFile)
	cfg, err := config.NewYAMLProvider(filename).LoadConfig()
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	application := app.New(cfg, log.GetSugaredLogger())
	if err := application.RunServe(context.Background()); err != nil {
		log.Errorf("Server error: %v", err)
		os.Exit(1)
	}
}
