package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RedJS19J/YT-Analytics/collector"
	"github.com/RedJS19J/YT-Analytics/shared/config"
	"github.com/RedJS19J/YT-Analytics/shared/report"
	"github.com/RedJS19J/YT-Analytics/shared/scheduler"
	"github.com/RedJS19J/YT-Analytics/shared/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := collector.New(cfg)
	s := scheduler.New(cfg, agent)

	mode := ""
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "":
		// Default invocation: one full collection cycle.
		if err := agent.Initialize(); err != nil {
			log.Fatalf("Failed to initialize agent: %v", err)
		}
		if err := s.RunOnce(ctx); err != nil {
			log.Fatalf("Failed to run: %v", err)
		}

	case "--schedule":
		fmt.Println("Starting scheduler...")
		if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Scheduler failed: %v", err)
		}

	case "--all-videos":
		if err := agent.Initialize(); err != nil {
			log.Fatalf("Failed to initialize agent: %v", err)
		}
		if err := agent.CollectAllVideos(ctx); err != nil {
			log.Fatalf("Failed to collect videos: %v", err)
		}
		fmt.Printf("Video listing written to %s\n", cfg.Output.AllVideosFile)

	case "--top-videos":
		if err := agent.Initialize(); err != nil {
			log.Fatalf("Failed to initialize agent: %v", err)
		}
		if err := agent.CollectTopVideos(ctx); err != nil {
			log.Fatalf("Failed to collect top videos: %v", err)
		}
		fmt.Printf("Top-video report written to %s\n", cfg.Output.TopVideosFile)

	case "--report":
		generator := report.NewGenerator(storage.NewAnalyticsLog(cfg.Output.AnalyticsFile))
		html, err := generator.Generate(cfg.Output.ReportFile)
		if err != nil {
			log.Fatalf("Failed to generate report: %v", err)
		}
		fmt.Printf("Report written to %s\n", cfg.Output.ReportFile)

		if cfg.Email.Configured() {
			subject := fmt.Sprintf("YouTube Channel Analytics - %s", time.Now().Format("Jan 2, 2006"))
			if err := report.NewSender(&cfg.Email).SendHTML(subject, html); err != nil {
				log.Fatalf("Failed to email report: %v", err)
			}
			fmt.Printf("Report emailed to %s\n", cfg.Email.ToEmail)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "usage: yt-analytics [--schedule|--all-videos|--top-videos|--report]")
		os.Exit(2)
	}
}
