package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iwvelando/stock-planner/internal/catalog"
	"github.com/iwvelando/stock-planner/internal/config"
	"github.com/iwvelando/stock-planner/internal/planner"
	"github.com/iwvelando/stock-planner/internal/server"
	"github.com/iwvelando/stock-planner/internal/storage"
	"github.com/iwvelando/stock-planner/pkg/adapters"
	"github.com/iwvelando/stock-planner/pkg/constants"
	"github.com/iwvelando/stock-planner/pkg/output"
	"github.com/iwvelando/stock-planner/pkg/validation"
)

var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	dataDir := flag.String("data-dir", "", "farm state directory override")
	target := flag.Float64("target", -1, "target revenue to plan for (omit to show current stock)")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	locale := flag.String("locale", "", "product name language override (en, es)")
	serve := flag.Bool("serve", false, "start the HTTP server instead of a one-shot computation")
	listen := flag.String("listen", "", "HTTP listen address override for serve mode")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	if *dataDir != "" {
		conf.Storage.DataDir = *dataDir
	}
	if *locale != "" {
		conf.Locale = *locale
	}
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal("failed to load product catalog",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	store, err := storage.NewStore(logger, conf.Storage.DataDir)
	if err != nil {
		logger.Fatal("failed to load farm state",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if *serve {
		address := conf.Server.Address
		if *listen != "" {
			address = *listen
		}
		handler := server.NewHandler(logger, store, cat, conf.Locale, conf.Server.MaxRequestSizeBytes, version)
		logger.Info("starting HTTP server",
			zap.String("op", "main"),
			zap.String("address", address),
		)
		if err := http.ListenAndServe(address, handler); err != nil {
			logger.Fatal("HTTP server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	farm := store.ActiveFarm()
	name := func(productID string) string {
		return cat.Name(productID, conf.Locale)
	}

	// Surface stock data the planner will exclude
	for _, warning := range validation.ValidateStock(farm.Stock) {
		logger.Warn("Stock warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Without a target there is nothing to optimize; report the stock and
	// the last calculated plan instead.
	if *target < 0 {
		switch outputFormat {
		case constants.OutputFormatPretty:
			output.PrettyStock(farm.Name, farm.Stock, name)
			if farm.LastPlan != nil {
				fmt.Printf("\n")
				output.PrettyPlan(adapters.RecordToPlan(farm.LastPlan), name)
			}
		case constants.OutputFormatCSV:
			output.CsvStock(farm.Stock, name)
		}
		return
	}

	plan, err := planner.Optimize(adapters.StockToPlannerEntries(farm.Stock), decimal.NewFromFloat(*target))
	if err != nil {
		logger.Fatal("failed to compute selling plan",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Persist as the farm's last calculated plan
	if err := store.SetLastPlan(adapters.PlanToRecord(plan)); err != nil {
		logger.Fatal("failed to persist selling plan",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if !plan.TargetMet {
		logger.Warn("target not reachable with current stock",
			zap.String("op", "main"),
			zap.Float64("target", *target),
			zap.Float64("achievable", plan.TotalRevenue.InexactFloat64()),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyPlan(plan, name)
	case constants.OutputFormatCSV:
		output.CsvPlan(plan, name)
	}
}
