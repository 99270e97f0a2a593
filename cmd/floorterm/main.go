package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"storefloor/internal/config"
	"storefloor/internal/feedback"
	"storefloor/internal/feedback/speaker"
	"storefloor/internal/terminal"
	"storefloor/internal/tracking"
	"storefloor/internal/zones"
)

func main() {
	_ = godotenv.Load()
	appCfg := config.Load()

	// the screen owns stdout, so logs go to a file when one is given
	log.SetOutput(io.Discard)
	if path := os.Getenv("FLOORTERM_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			defer f.Close()
			log.SetOutput(f)
		}
	}

	layout, err := zones.ParseLayout(appCfg.Layout)
	if err != nil {
		log.Printf("[Zones] %v, using %s\n", err, zones.LayoutCircles)
		layout = zones.LayoutCircles
	}

	cfg := terminal.Config{
		Tracking: tracking.Config{
			Layout:     layout,
			StoreDwell: appCfg.StoreDwell,
		},
		LogCapacity: appCfg.LogCapacity,
	}
	if appCfg.AudioEnabled {
		spk, err := speaker.New(feedback.DefaultTone)
		if err != nil {
			log.Printf("[Feedback] %v (using terminal bell)\n", err)
		} else {
			defer spk.Close()
			cfg.Cue = spk
		}
	} else {
		cfg.Cue = feedback.Nop{}
	}

	if err := terminal.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start terminal: %v\n", err)
		os.Exit(1)
	}
}
