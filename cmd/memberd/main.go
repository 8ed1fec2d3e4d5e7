// ABOUTME: Entry point for the memberd API server
// ABOUTME: Serves the token-authenticated user API and admin bootstrap commands

package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/workhardslave/memberd/internal/auth"
	"github.com/workhardslave/memberd/internal/config"
	"github.com/workhardslave/memberd/internal/i18n"
	"github.com/workhardslave/memberd/internal/password"
	"github.com/workhardslave/memberd/internal/server"
	"github.com/workhardslave/memberd/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                           _                   _
 _ __ ___   ___ _ __ ___ | |__   ___ _ __ __| |
| '_ ' _ \ / _ \ '_ ' _ \| '_ \ / _ \ '__/ _' |
| | | | | |  __/ | | | | | |_) |  __/ | | (_| |
|_| |_| |_|\___|_| |_| |_|_.__/ \___|_|  \__,_|
`

// getConfigPath returns the path to the memberd config file.
// Priority: MEMBERD_CONFIG env var > XDG_CONFIG_HOME/memberd/config.yaml > ~/.config/memberd/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("MEMBERD_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "memberd", "config.yaml")
}

// getDataPath returns the path to the memberd data directory.
// Priority: XDG_DATA_HOME/memberd > ~/.local/share/memberd
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "memberd")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: memberd <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                        Start the API server")
		fmt.Println("  init                         Create a config file with a random secret")
		fmt.Println("  bootstrap --uid U --name N   Create the initial admin account")
		fmt.Println("  hash                         Hash a password read from stdin")
		fmt.Println("  health                       Check server health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "bootstrap":
		err = runBootstrap(ctx)
	case "hash":
		err = runHash()
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	// Version info
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	// Startup info
	green := color.New(color.FgGreen)

	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	if cfg.Metrics.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Metrics:  %s%s\n", cfg.Metrics.Addr, cfg.Metrics.Path)
	}
	fmt.Println()

	logger.Info("starting memberd",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
	)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	bundle, err := i18n.NewBundle(cfg.I18N.DefaultLocale)
	if err != nil {
		return fmt.Errorf("loading message bundle: %w", err)
	}

	opts := server.Options{
		Addr:   cfg.Server.HTTPAddr,
		Store:  st,
		Tokens: tokens,
		Bundle: bundle,
		Logger: logger.With("component", "server"),
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = auth.NewMetrics()
		opts.MetricsAddr = cfg.Metrics.Addr
		opts.MetricsPath = cfg.Metrics.Path
	}

	return server.New(opts).Run(ctx)
}

// runInit writes a starter config file with a freshly generated secret.
// Refuses to overwrite an existing file.
func runInit() error {
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists: %s", configPath)
	}

	secret, err := generateSecret()
	if err != nil {
		return err
	}

	dbPath := filepath.Join(getDataPath(), "memberd.db")

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.MkdirAll(getDataPath(), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	configContent := fmt.Sprintf(`# memberd configuration
# Generated by memberd init

server:
  http_addr: "localhost:8080"

database:
  path: "%s"

auth:
  jwt_secret: "%s"
  token_ttl: "1h"

logging:
  level: "info"
  format: "text"

i18n:
  default_locale: "ko"
`, dbPath, secret)

	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	color.New(color.FgGreen).Printf("  ✓ Created config: %s\n", configPath)
	return nil
}

// runBootstrap creates the initial admin account:
// memberd bootstrap --uid admin@example.com --name "Admin"
// The password is read from stdin to keep it out of shell history.
func runBootstrap(ctx context.Context) error {
	var uid, name string
	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--uid":
			if i+1 >= len(args) {
				return fmt.Errorf("--uid requires a value")
			}
			uid = args[i+1]
			i++
		case strings.HasPrefix(arg, "--uid="):
			uid = strings.TrimPrefix(arg, "--uid=")
		case arg == "--name" || arg == "-n":
			if i+1 >= len(args) {
				return fmt.Errorf("--name requires a value")
			}
			name = args[i+1]
			i++
		case strings.HasPrefix(arg, "--name="):
			name = strings.TrimPrefix(arg, "--name=")
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		default:
			return fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	uid = strings.TrimSpace(uid)
	name = strings.TrimSpace(name)
	if uid == "" {
		return fmt.Errorf("--uid flag is required")
	}
	if name == "" {
		return fmt.Errorf("--name flag is required")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Print("Password: ")
	plain, err := readLine(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	if plain == "" {
		return fmt.Errorf("password cannot be empty")
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Database: %s\n", cfg.Database.Path)

	existing, err := st.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("checking users: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("bootstrap already complete: %d user(s) exist", len(existing))
	}

	user := &store.User{
		LoginID:      uid,
		Name:         name,
		PasswordHash: hash,
		Roles:        []string{store.RoleUser, store.RoleAdmin},
	}
	if err := st.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	green.Printf("  ✓ Created admin account: %s (id %d)\n", uid, user.ID)
	return nil
}

// runHash hashes a password from stdin, for seeding accounts by hand.
func runHash() error {
	fmt.Print("Password: ")
	plain, err := readLine(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	if plain == "" {
		return fmt.Errorf("password cannot be empty")
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	fmt.Println(hash)
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/healthz", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

func generateSecret() (string, error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generating JWT secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(secretBytes), nil
}

func readLine(r io.Reader) (string, error) {
	var line strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			line.WriteByte(buf[0])
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
	}
	return strings.TrimRight(line.String(), "\r"), nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
