package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"virtualco/internal/app"
	"virtualco/internal/config"
	"virtualco/internal/db"
	"virtualco/internal/logging"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "vco",
	Short: "virtualco: a virtual startup simulator",
	Long: `virtualco simulates a small software company run by seven AI agents.
- Session: one live simulation with its own clock, snapshots and settings.
- Tick: one step of the clock; an agent does one thing and the calendar moves a day.
- Snapshot: a deep copy of the company you can restore or branch from.
- Workspace: the .virtualco directory holding the SQLite database.
Run 'vco run' for an offline simulation or 'vco serve' for the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	workspace, _ := rootCmd.PersistentFlags().GetString("workspace")
	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load(filepath.Join(workspace, ".env"))
	viper.SetEnvPrefix("VCO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("log-level", "", "log level (default info for serve, warn otherwise)")
	rootCmd.PersistentFlags().String("env", "development", "environment (production logs JSON)")
	rootCmd.PersistentFlags().String("backend", string(config.BackendSQLite), "kv backend: sqlite, redis or memory")
	rootCmd.PersistentFlags().String("redis-url", "", "redis url for the redis backend")
	for _, name := range []string{"workspace", "json", "log-level", "env", "backend", "redis-url"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(simsCmd())
	rootCmd.AddCommand(settingsCmd())
	rootCmd.AddCommand(domainsCmd())
	rootCmd.AddCommand(versionCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("vco", version)
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Prepare a workspace: database, settings file and a JWT secret in .env",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			conn.Close()
			settingsPath := config.Path(workspace)
			if _, err := os.Stat(settingsPath); errors.Is(err, os.ErrNotExist) {
				if err := os.WriteFile(settingsPath, []byte(config.GenerateDefault()), 0o644); err != nil {
					return err
				}
				fmt.Println("wrote", settingsPath)
			}
			envPath := filepath.Join(workspace, ".env")
			env, err := godotenv.Read(envPath)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if env == nil {
				env = map[string]string{}
			}
			if env["VCO_JWT_SECRET"] == "" {
				buf := make([]byte, 32)
				if _, err := rand.Read(buf); err != nil {
					return err
				}
				env["VCO_JWT_SECRET"] = hex.EncodeToString(buf)
				if err := godotenv.Write(env, envPath); err != nil {
					return err
				}
				fmt.Println("wrote VCO_JWT_SECRET to", envPath)
			}
			fmt.Println("workspace ready:", db.Path(workspace))
			return nil
		},
	}
}

// --- helpers ---

// newLogger builds the process logger; fallback applies when no level was
// configured.
func newLogger(fallback string) *logrus.Logger {
	level := viper.GetString("log-level")
	if level == "" {
		level = fallback
	}
	return logging.New(viper.GetString("env"), level)
}

// serverConfig reads the process configuration from flags, VCO_* variables
// and .env.
func serverConfig() config.Server {
	cfg := config.DefaultServer()
	cfg.Workspace = viper.GetString("workspace")
	cfg.Backend = config.Backend(viper.GetString("backend"))
	cfg.RedisURL = viper.GetString("redis-url")
	cfg.JWTSecret = viper.GetString("jwt-secret")
	if ttl := viper.GetDuration("token-ttl"); ttl > 0 {
		cfg.TokenTTL = ttl
	}
	if addr := viper.GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if base := viper.GetString("base-path"); base != "" {
		cfg.BasePath = base
	}
	cfg.WebhookURLs = viper.GetStringSlice("webhook-urls")
	cfg.Env = viper.GetString("env")
	if level := viper.GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg
}

// withApp opens the workspace for one command. Commands that do not issue
// tokens run without a configured JWT secret.
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	cfg := serverConfig()
	log := newLogger("warn")
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(title string, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	if title != "" {
		tw.SetTitle(title)
	}
	tw.AppendHeader(header)
	return tw
}
