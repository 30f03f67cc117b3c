package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/goldenstatemt/intakeflow/internal/api"
	"github.com/goldenstatemt/intakeflow/internal/genai"
	"github.com/goldenstatemt/intakeflow/internal/intake"
	"github.com/goldenstatemt/intakeflow/internal/messaging"
	"github.com/goldenstatemt/intakeflow/internal/store"
	"github.com/goldenstatemt/intakeflow/internal/twiliosms"
	"github.com/goldenstatemt/intakeflow/internal/util"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for intakeflow state data
	DefaultStateDir = "/var/lib/intakeflow"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "intakeflow.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	genaiClient, err := genai.NewClient(buildGenAIOptions(flags)...)
	if err != nil {
		slog.Error("Failed to initialize GenAI client", "error", err)
		os.Exit(1)
	}

	registry := intake.NewRegistry()
	orchestrator := intake.NewOrchestrator(genaiClient, registry, st)

	smsService := buildSMSService()
	emailService := buildEmailService()

	var streamer genai.Streamer
	if flags.chatEnabled {
		streamer = genaiClient
	}

	server := api.NewServer(orchestrator, smsService, emailService, streamer, st, api.WithAddr(*flags.apiAddr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Bootstrapping intakeflow",
		"api_addr", *flags.apiAddr,
		"sms_enabled", smsService != nil,
		"email_enabled", emailService != nil,
		"chat_enabled", streamer != nil)
	if err := server.Start(ctx); err != nil {
		slog.Error("intakeflow failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("intakeflow exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL string
	StateDir    string
	OpenAIKey   string
	OpenAIModel string
	APIAddr     string
	ChatEnabled bool
}

// Flags holds command line flag values
type Flags struct {
	stateDir    *string
	dbDSN       *string
	openaiKey   *string
	openaiModel *string
	apiAddr     *string
	chatEnabled bool
}

// initializeLogger sets up structured logging
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("INTAKEFLOW_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StateDir:    os.Getenv("INTAKEFLOW_STATE_DIR"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: os.Getenv("OPENAI_MODEL"),
		APIAddr:     util.EnvOrDefault("API_ADDR", api.DefaultAddr),
		ChatEnabled: util.ParseBoolEnv("CHAT_ENABLED", true),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No INTAKEFLOW_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"INTAKEFLOW_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr,
		"CHAT_ENABLED", config.ChatEnabled)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:    flag.String("state-dir", config.StateDir, "state directory for intakeflow data (overrides $INTAKEFLOW_STATE_DIR)"),
		dbDSN:       flag.String("db-dsn", config.DatabaseURL, "database DSN for the intake record store (overrides $DATABASE_URL)"),
		openaiKey:   flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		openaiModel: flag.String("openai-model", config.OpenAIModel, "OpenAI chat model (overrides $OPENAI_MODEL)"),
		apiAddr:     flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		chatEnabled: config.ChatEnabled,
	}

	flag.Parse()

	// Follow the state directory when the DSN was left at its derived default
	if *flags.dbDSN == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "new_state_dir", *flags.stateDir)
	}

	return flags
}

// buildStore picks the store backend from the DSN shape.
func buildStore(flags Flags) (store.IntakeStore, error) {
	dsn := *flags.dbDSN
	if dsn == "" {
		slog.Debug("No database DSN provided, using in-memory store")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(dsn) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
		return store.NewPostgresStore(store.WithPostgresDSN(dsn))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", dsn)
	return store.NewSQLiteStore(store.WithSQLiteDSN(dsn))
}

// buildGenAIOptions constructs GenAI configuration options
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.openaiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(*flags.openaiKey))
	}
	if *flags.openaiModel != "" {
		genaiOpts = append(genaiOpts, genai.WithModel(openai.ChatModel(*flags.openaiModel)))
	}
	return genaiOpts
}

// buildSMSService wires the Twilio SMS channel when credentials are present.
func buildSMSService() messaging.Service {
	if os.Getenv("TWILIO_ACCOUNT_SID") == "" {
		slog.Info("Twilio credentials not set, SMS channel disabled")
		return nil
	}
	client, err := twiliosms.NewClient()
	if err != nil {
		slog.Error("Failed to initialize Twilio client, SMS channel disabled", "error", err)
		return nil
	}
	return messaging.NewSMSService(client)
}

// buildEmailService wires the SMTP email channel when configured.
func buildEmailService() messaging.Service {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		slog.Info("SMTP_HOST not set, email channel disabled")
		return nil
	}
	svc, err := messaging.NewEmailService(
		messaging.WithSMTPHost(host),
		messaging.WithSMTPPort(util.EnvOrDefault("SMTP_PORT", "587")),
		messaging.WithSMTPCredentials(os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD")),
		messaging.WithFromAddress(os.Getenv("SMTP_FROM")),
	)
	if err != nil {
		slog.Error("Failed to initialize email service, email channel disabled", "error", err)
		return nil
	}
	return svc
}
