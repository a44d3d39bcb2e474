package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"payopt/internal/config"
	"payopt/internal/input"
	"payopt/internal/optimizer"
	"payopt/internal/server"
	"payopt/pkg/constants"
	"payopt/pkg/output"
	"payopt/pkg/validation"
)

// version is set at build time via -ldflags.
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
	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
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

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// loadConfiguration loads the application config, falling back to
// defaults when the file is absent and no explicit path was given.
func loadConfiguration(path string, explicit bool) (*config.Configuration, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}
	return config.LoadConfiguration(path)
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: report, pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "run the HTTP server instead of processing files")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	flag.Parse()

	explicitConfig := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicitConfig = true
		}
	})

	conf, err := loadConfiguration(*configLocation, explicitConfig)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *serve {
		runServer(logger, *serverConfigLocation)
		return
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatReport
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: payopt [flags] <orders.json> <paymentmethods.json>")
		os.Exit(1)
	}

	orders, err := input.ReadOrders(args[0])
	if err != nil {
		logger.Error("failed to load orders",
			zap.String("op", "main"),
			zap.Error(err),
		)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	methods, err := input.ReadPaymentMethods(args[1])
	if err != nil {
		logger.Error("failed to load payment methods",
			zap.String("op", "main"),
			zap.Error(err),
		)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	warnings, err := validation.ValidatePaymentMethods(methods)
	if err != nil {
		logger.Fatal("invalid payment methods",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	warnings = append(warnings, validation.ValidateOrders(orders, methods)...)
	for _, warning := range warnings {
		logger.Warn("Input warning: "+warning,
			zap.String("op", "main"),
		)
	}

	engine, err := optimizer.New(logger, orders, methods,
		optimizer.WithPointsMethodID(conf.Engine.PointsMethodID))
	if err != nil {
		logger.Fatal("failed to initialize allocation engine",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	summary := engine.Optimize()

	switch outputFormat {
	case constants.OutputFormatReport:
		output.Report(summary)
	case constants.OutputFormatPretty:
		output.PrettyFormat(summary, engine.UnderfundedOrders())
	case constants.OutputFormatCSV:
		output.CsvFormat(summary)
	}
}

func runServer(logger *zap.Logger, configPath string) {
	serverConfig, err := server.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("failed to load server configuration",
			zap.String("op", "main.runServer"),
			zap.Error(err),
		)
	}

	handler := server.NewHandler(logger, serverConfig.BodySizeBytes(), version)

	logger.Info("starting HTTP server",
		zap.String("op", "main.runServer"),
		zap.String("address", serverConfig.Address),
		zap.Int64("maxBodySize", serverConfig.BodySizeBytes()),
	)

	if err := http.ListenAndServe(serverConfig.Address, handler); err != nil {
		logger.Fatal("HTTP server failed",
			zap.String("op", "main.runServer"),
			zap.Error(err),
		)
	}
}
