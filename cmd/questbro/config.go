package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"
)

// persistedConfig is the JSON structure stored in ~/.questbro/config.json.
type persistedConfig struct {
	GamePath string `json:"game_path,omitempty"` // Catalogue JSON path
	RunName  string `json:"run_name,omitempty"`  // Active run
}

// appConfig is the resolved runtime configuration.
type appConfig struct {
	DataDir  string
	GamePath string
	RunName  string
}

// configFilePath returns the path to config.json.
func configFilePath(dataDir string) string {
	return filepath.Join(dataDir, "config.json")
}

func dataDir() string {
	if dir := os.Getenv("QUESTBRO_DATA"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".questbro"
	}
	return filepath.Join(home, ".questbro")
}

// loadConfig resolves configuration from config.json plus env overrides.
func loadConfig() appConfig {
	cfg := appConfig{DataDir: dataDir()}

	if raw, err := os.ReadFile(configFilePath(cfg.DataDir)); err == nil {
		var pc persistedConfig
		if err := json.Unmarshal(raw, &pc); err == nil {
			cfg.GamePath = pc.GamePath
			cfg.RunName = pc.RunName
		}
	}

	if p := os.Getenv("QUESTBRO_GAME"); p != "" {
		cfg.GamePath = p
	}
	if r := os.Getenv("QUESTBRO_RUN"); r != "" {
		cfg.RunName = r
	}

	if cfg.GamePath == "" {
		fmt.Fprintf(os.Stderr, "no catalogue configured; run `%s init` or set QUESTBRO_GAME\n", appName)
		os.Exit(1)
	}
	if cfg.RunName == "" {
		cfg.RunName = newRunName()
	}
	return cfg
}

// newRunName generates a fresh run name.
func newRunName() string {
	return "run-" + uuid.New().String()[:8]
}

// runInit is the interactive setup wizard. It requires a terminal.
func runInit() {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "init requires an interactive terminal; set QUESTBRO_GAME and QUESTBRO_RUN instead")
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s v%s setup\n\n", appName, version)

	gamePath := prompt(reader, "Catalogue JSON path", "")
	if gamePath == "" {
		fmt.Fprintln(os.Stderr, "a catalogue path is required")
		os.Exit(1)
	}
	runName := prompt(reader, "Run name", newRunName())

	dir := dataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fatal(err)
	}
	raw, _ := json.MarshalIndent(persistedConfig{GamePath: gamePath, RunName: runName}, "", "  ")
	if err := os.WriteFile(configFilePath(dir), raw, 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("\nconfig written to %s\n", configFilePath(dir))
}

func prompt(reader *bufio.Reader, label, fallback string) string {
	if fallback != "" {
		fmt.Printf("%s [%s]: ", label, fallback)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}
	return line
}

// confirm asks a yes/no question when attached to a terminal; otherwise it
// answers no, keeping scripted invocations side-effect free.
func confirm(question string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
