package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the service log.
const (
	logMaxSizeMB  = 100
	logMaxBackups = 3
	logMaxAgeDays = 30
)

// LogConfig says where the service log is written.
type LogConfig struct {
	File    string    // rotated log file
	Console io.Writer // copy of every line; os.Stdout when nil
}

// getLogConfig resolves the log file: the -log flag, then NOTELENS_LOG_FILE,
// then service/notelens.log under the data directory.
func getLogConfig(flagValue, dataDir string) LogConfig {
	file := flagValue
	if file == "" {
		file = os.Getenv("NOTELENS_LOG_FILE")
	}
	if file == "" {
		file = filepath.Join(dataDir, "service", "notelens.log")
	}
	return LogConfig{File: file}
}

// SetupLogging points the standard logger at the console and the rotated
// log file. The caller closes the returned rotator on shutdown.
func SetupLogging(config LogConfig) (*lumberjack.Logger, error) {
	console := config.Console
	if console == nil {
		console = os.Stdout
	}

	if err := os.MkdirAll(filepath.Dir(config.File), 0755); err != nil {
		log.SetOutput(console)
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   config.File,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(console, rotator))
	return rotator, nil
}
