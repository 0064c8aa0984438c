package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"trolley/internal/config"
	"trolley/internal/domain"
	"trolley/internal/log"
	"trolley/internal/priceserver"
	"trolley/internal/service"
	"trolley/internal/store"
	"trolley/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("trolley %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting trolley", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	session := &domain.Session{
		ServerURL: cfg.Server.URL,
		Token:     cfg.Server.Token,
		Username:  cfg.Server.Username,
		Region:    cfg.Server.Region,
	}

	client := priceserver.NewClient(session, logger)

	snapshots, err := store.NewSnapshotStore(cfg.Cache.Dir, cfg.Server.URL, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)
	if err != nil {
		logger.Warn("snapshot cache unavailable, continuing without it", "error", err)
		snapshots = nil
	}
	if snapshots != nil {
		defer snapshots.Close()
	}

	// Services
	var cache domain.SnapshotCache
	if snapshots != nil {
		cache = snapshots
	}
	listSync := service.NewListSynchronizer(client, client, cache, logger)
	search := service.NewSearchService(client, cfg.Server.Region, logger)
	sessions := service.NewSessionService(client, session, logger)

	model := tui.NewModel(listSync, search, sessions)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Trolley!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	var serverURL string
	for {
		fmt.Print("Enter the price service URL (e.g., https://prices.example.com/api): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimSpace(input)
		if serverURL != "" {
			break
		}
		fmt.Println("Server URL cannot be empty. Please try again.")
	}

	authFlow := priceserver.NewAuthFlow(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := authFlow.Run(ctx, serverURL)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	cfg.Server.URL = strings.TrimRight(serverURL, "/")
	cfg.Server.Token = result.Token
	cfg.Server.Username = result.Username

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run trolley again to start the application.")

	return nil
}
