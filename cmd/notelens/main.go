package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/patrickward/notelens/internal/clipboard"
)

const (
	appName    = "notelens"
	appVersion = "0.1.0"
)

// getXDGDataHome determines the XDG_DATA_HOME directory.
func getXDGDataHome() (string, error) {
	xdgDataHome := os.Getenv("XDG_DATA_HOME")
	if xdgDataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %v", err)
		}
		xdgDataHome = filepath.Join(homeDir, ".local", "share")
	}

	return xdgDataHome, nil
}

// getDataDirectory determines the data directory using a tiered approach:
// 1. the command-line flag (-data) takes the highest precedence.
// 2. Environment variable NOTELENS_DATA_DIR if a flag is not set.
// 3. XDG_DATA_HOME/notelens or $HOME/.local/share/notelens as fallback.
func getDataDirectory(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if envDir := os.Getenv("NOTELENS_DATA_DIR"); envDir != "" {
		return envDir, nil
	}

	xdgDataHome, err := getXDGDataHome()
	if err != nil {
		return "", fmt.Errorf("unable to determine XDG_DATA_HOME: %v", err)
	}

	return filepath.Join(xdgDataHome, "notelens"), nil
}

func main() {
	// A .env file in the working directory may set NOTELENS_* variables.
	_ = godotenv.Load()

	var port int
	var addr string
	var dataDirFlag string
	var logFileFlag string
	var convertMode bool
	var useClipboard bool
	var showVersion bool

	flagSet := flag.NewFlagSet(appName, flag.ExitOnError)
	flagSet.StringVar(&dataDirFlag, "data", "", "Directory containing markdown notes.")
	flagSet.StringVar(&dataDirFlag, "d", "", "Directory containing markdown notes.")
	flagSet.StringVar(&logFileFlag, "log", "", "Log file path.")
	flagSet.StringVar(&logFileFlag, "l", "", "Log file path.")

	flagSet.BoolVar(&convertMode, "convert", false, "Convert HTML from stdin to Markdown on stdout and exit.")
	flagSet.BoolVar(&convertMode, "c", false, "Convert HTML from stdin to Markdown on stdout and exit.")
	flagSet.BoolVar(&useClipboard, "clipboard", false, "Use the system clipboard for -convert input and output, and for copies made through the server.")

	flagSet.IntVar(&port, "port", 8080, "Port to run the server on.")
	flagSet.IntVar(&port, "p", 8080, "Port to run the server on.")
	flagSet.StringVar(&addr, "addr", "localhost", "Address to bind the server to.")
	flagSet.StringVar(&addr, "a", "localhost", "Address to bind the server to.")

	flagSet.BoolVar(&showVersion, "version", false, "Show application version.")
	flagSet.BoolVar(&showVersion, "v", false, "Show application version.")

	flagSet.Usage = func() {
		_, _ = fmt.Fprintf(flagSet.Output(), "notelens - search and clipboard tools for markdown notes\n\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "Examples:\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "  # Serve the notes in a directory:\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "  %s -data ~/notes\n\n", appName)
		_, _ = fmt.Fprintf(flagSet.Output(), "  # Convert copied HTML to Markdown in place:\n")
		_, _ = fmt.Fprintf(flagSet.Output(), "  %s -convert -clipboard\n\n", appName)
		_, _ = fmt.Fprintf(flagSet.Output(), "Options:\n")
		flagSet.PrintDefaults()
	}

	// Parse the flags
	err := flagSet.Parse(os.Args[1:])
	if err != nil {
		log.Fatal(fmt.Errorf("error parsing flags: %v", err))
	}

	if showVersion {
		fmt.Printf("notelens version %s\n", appVersion)
		os.Exit(0)
		return
	}

	if convertMode {
		if err := runConvert(os.Stdin, os.Stdout, useClipboard); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Resolve the data directory.
	dataDir, err := getDataDirectory(dataDirFlag)
	if err != nil {
		log.Fatal(fmt.Errorf("error determining data directory: %v", err))
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatal(fmt.Errorf("error creating data directory: %v", err))
	}

	rotator, err := SetupLogging(getLogConfig(logFileFlag, dataDir))
	if err != nil {
		log.Printf("Error setting up log file, logging to stdout only: %v", err)
	} else {
		defer func() {
			_ = rotator.Close()
		}()
	}

	// Create a context for the server
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opts []ServerOption
	if useClipboard {
		opts = append(opts, WithClipboard(clipboard.System{}))
	}

	server, err := NewServer(ctx, dataDir, opts...)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing server: %v", err))
	}

	err = server.Start(addr, port)
	if err != nil {
		log.Fatal(err)
	}
}
