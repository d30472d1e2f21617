package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/google/uuid"
	"github.com/hylla/choreboard/internal/adapters/remote"
	"github.com/hylla/choreboard/internal/adapters/server"
	"github.com/hylla/choreboard/internal/adapters/server/common"
	"github.com/hylla/choreboard/internal/adapters/storage/sqlite"
	"github.com/hylla/choreboard/internal/app"
	"github.com/hylla/choreboard/internal/config"
	"github.com/hylla/choreboard/internal/domain"
	"github.com/hylla/choreboard/internal/platform"
	"github.com/hylla/choreboard/internal/tui"
	"github.com/spf13/cobra"
)

// version is stamped at build time.
var version = "dev"

// sourceCLI marks status changes written directly by the CLI.
const sourceCLI = "cli"

// program is the part of a bubbletea program the root command drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program. Tests replace it.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveCommandRunner runs the store server. Tests replace it.
var serveCommandRunner = server.Run

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	dbPath     string
	appName    string
	devMode    bool
	remoteURL  string
	kid        string
}

// run builds the command tree and executes args against it.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return fang.Execute(ctx, root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	)
}

// newRootCommand wires every subcommand under the board command.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{appName: "choreboard", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("CHORES_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("CHORES_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:   "chores",
		Short: "Swipe through today's chores",
		Long:  "Run the chore board against the remote store. Swipe right for done, left for skipped, hold a finished chore to put it back.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(cmd.Context(), opts, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.dbPath, "db", "", "path to sqlite database")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")
	flags.StringVar(&opts.remoteURL, "remote", "", "base URL of the chore store")
	flags.StringVar(&opts.kid, "kid", "", "only show one kid's chores")

	root.AddCommand(
		newServeCommand(opts, stderr),
		newSetCommand(opts, stdout, stderr),
		newListCommand(opts, stdout, stderr),
		newPathsCommand(opts, stdout),
		newExportCommand(opts, stdout, stderr),
		newImportCommand(opts, stdout, stderr),
	)
	return root
}

func newServeCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var bind string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chore store over HTTP and MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, bind, stderr)
		},
	}
	cmd.Flags().StringVarP(&bind, "bind", "b", "", "listen address (overrides server.bind)")
	return cmd
}

func newSetCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "set <id> <pending|done|skipped>",
		Short: "Set today's status for one chore",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd.Context(), opts, args, local, stdout, stderr)
		},
	}
	cmd.Flags().BoolVarP(&local, "local", "l", false, "write to the local database instead of the remote store")
	return cmd
}

func newListCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print today's board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), opts, local, stdout, stderr)
		},
	}
	cmd.Flags().BoolVarP(&local, "local", "l", false, "read the local database instead of the remote store")
	return cmd
}

func newPathsCommand(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPaths(opts, stdout)
		},
	}
}

func newExportCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a JSON snapshot of the local store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath := "-"
			if len(args) == 1 {
				outPath = args[0]
			}
			return withLocalService(cmd.Context(), opts, stderr, "export", func(ctx context.Context, rt *runtimeEnv, svc *app.Service) error {
				return runExport(ctx, svc, outPath, stdout)
			})
		},
	}
}

func newImportCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON snapshot into the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLocalService(cmd.Context(), opts, stderr, "import", func(ctx context.Context, rt *runtimeEnv, svc *app.Service) error {
				count, err := runImport(ctx, svc, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(stdout, "imported %d chores from %s\n", count, args[0])
				return nil
			})
		},
	}
}

// runtimeEnv is the resolved configuration for one command invocation.
type runtimeEnv struct {
	paths      platform.Paths
	configPath string
	cfg        config.Config
	logger     *runtimeLogger
}

// Close releases the log sinks.
func (rt *runtimeEnv) Close(stderr io.Writer) {
	if rt == nil {
		return
	}
	if err := rt.logger.Close(); err != nil && rt.logger.shouldLogToSink(rt.logger.consoleSink) {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// resolveRuntime merges flags, environment and the config file.
func resolveRuntime(opts *rootOptions, command string, stderr io.Writer) (*runtimeEnv, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return nil, err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("CHORES_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbPath := strings.TrimSpace(opts.dbPath)
	dbOverridden := dbPath != ""
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("CHORES_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}
	if remoteURL := strings.TrimSpace(opts.remoteURL); remoteURL != "" {
		cfg.Remote.BaseURL = remoteURL
	} else if envURL := strings.TrimSpace(os.Getenv("CHORES_REMOTE_URL")); envURL != "" {
		cfg.Remote.BaseURL = envURL
	}
	if kid := strings.TrimSpace(opts.kid); kid != "" {
		cfg.Board.Kid = kid
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// Runtime logs stay in the dev-file sink while the board is on screen.
		logger.SetConsoleEnabled(false)
	}
	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}
	return &runtimeEnv{paths: paths, configPath: configPath, cfg: cfg, logger: logger}, nil
}

// newRemoteClient builds the HTTP client for the configured store.
func newRemoteClient(cfg config.Config) (*remote.Client, error) {
	timeout, err := cfg.RemoteTimeout()
	if err != nil {
		return nil, err
	}
	return remote.NewClient(remote.Config{
		BaseURL:     cfg.Remote.BaseURL,
		APIEndpoint: cfg.Remote.APIEndpoint,
		Timeout:     timeout,
	})
}

// openLocalService opens the sqlite store and seeds it when empty.
func openLocalService(ctx context.Context, rt *runtimeEnv) (*app.Service, func(), error) {
	rt.logger.Info("opening sqlite repository", "db_path", rt.cfg.Database.Path)
	repo, err := sqlite.Open(rt.cfg.Database.Path)
	if err != nil {
		rt.logger.Error("sqlite open failed", "db_path", rt.cfg.Database.Path, "err", err)
		return nil, nil, fmt.Errorf("open sqlite repository: %w", err)
	}
	closeRepo := func() {
		if closeErr := repo.Close(); closeErr != nil {
			rt.logger.Warn("sqlite close failed", "db_path", rt.cfg.Database.Path, "err", closeErr)
		}
	}
	svc := app.NewService(repo, time.Now, app.ServiceConfig{})
	seeded, err := svc.EnsureSeed(ctx, toSeedChores(rt.cfg.Seed))
	if err != nil {
		closeRepo()
		return nil, nil, fmt.Errorf("seed chores: %w", err)
	}
	if seeded > 0 {
		rt.logger.Info("seeded empty store", "chores", seeded)
	}
	rt.logger.Info("sqlite repository ready", "db_path", rt.cfg.Database.Path)
	return svc, closeRepo, nil
}

// withLocalService runs fn against the local store with logging around it.
func withLocalService(ctx context.Context, opts *rootOptions, stderr io.Writer, command string, fn func(context.Context, *runtimeEnv, *app.Service) error) error {
	rt, err := resolveRuntime(opts, command, stderr)
	if err != nil {
		return err
	}
	defer rt.Close(stderr)

	svc, closeRepo, err := openLocalService(ctx, rt)
	if err != nil {
		return err
	}
	defer closeRepo()

	rt.logger.Info("command flow start", "command", command)
	if err := fn(ctx, rt, svc); err != nil {
		rt.logger.Error("command flow failed", "command", command, "err", err)
		return fmt.Errorf("run %s command: %w", command, err)
	}
	rt.logger.Info("command flow complete", "command", command)
	return nil
}

// runBoard runs the TUI against the remote store.
func runBoard(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	rt, err := resolveRuntime(opts, "tui", stderr)
	if err != nil {
		return err
	}
	defer rt.Close(stderr)

	client, err := newRemoteClient(rt.cfg)
	if err != nil {
		return fmt.Errorf("configure remote store: %w", err)
	}
	rt.logger.Info("command flow start", "command", "tui", "remote", rt.cfg.Remote.BaseURL)

	m := tui.NewModel(
		client,
		tui.WithRuntimeConfig(toTUIRuntimeConfig(rt.cfg)),
		tui.WithLogger(rt.logger.componentLogger("tui")),
	)
	if _, err := programFactory(m).Run(); err != nil {
		rt.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "tui")
	return nil
}

// runServe serves the local store until ctx is cancelled.
func runServe(ctx context.Context, opts *rootOptions, bind string, stderr io.Writer) error {
	rt, err := resolveRuntime(opts, "serve", stderr)
	if err != nil {
		return err
	}
	defer rt.Close(stderr)

	svc, closeRepo, err := openLocalService(ctx, rt)
	if err != nil {
		return err
	}
	defer closeRepo()

	cfg := server.Config{
		HTTPBind:      rt.cfg.Server.Bind,
		APIEndpoint:   rt.cfg.Server.APIEndpoint,
		MCPEndpoint:   rt.cfg.Server.MCPEndpoint,
		ServerName:    "choreboard",
		ServerVersion: version,
	}
	if bind = strings.TrimSpace(bind); bind != "" {
		cfg.HTTPBind = bind
	}
	rt.logger.Info("command flow start", "command", "serve", "bind", cfg.HTTPBind)
	err = serveCommandRunner(ctx, cfg, server.Dependencies{
		Service: common.NewAppServiceAdapter(svc),
		Logger:  rt.logger.componentLogger("server"),
	})
	if err != nil {
		rt.logger.Error("command flow failed", "command", "serve", "err", err)
		return fmt.Errorf("run serve command: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "serve")
	return nil
}

// runSet sets one chore's status for today.
func runSet(ctx context.Context, opts *rootOptions, args []string, local bool, stdout, stderr io.Writer) error {
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("chore id must be a positive integer: %q", args[0])
	}
	status, err := domain.ParseStatus(args[1])
	if err != nil {
		return err
	}

	if local {
		return withLocalService(ctx, opts, stderr, "set", func(ctx context.Context, _ *runtimeEnv, svc *app.Service) error {
			ctx = app.WithRequestMeta(ctx, app.RequestMeta{RequestID: uuid.NewString(), Source: sourceCLI})
			chore, err := svc.UpdateStatus(ctx, id, status)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "%s (%s): %s\n", chore.Title, chore.Kid, chore.Status.Label())
			return nil
		})
	}

	rt, err := resolveRuntime(opts, "set", stderr)
	if err != nil {
		return err
	}
	defer rt.Close(stderr)
	client, err := newRemoteClient(rt.cfg)
	if err != nil {
		return fmt.Errorf("configure remote store: %w", err)
	}
	ack, err := client.UpdateStatus(ctx, id, status)
	if err != nil {
		rt.logger.Error("status update failed", "chore_id", id, "status", status, "err", err)
		return err
	}
	if !ack.OK {
		rt.logger.Warn("status update rejected", "chore_id", id, "status", status, "reason", ack.Error)
		return fmt.Errorf("update rejected: %s", ack.Error)
	}
	_, _ = fmt.Fprintf(stdout, "chore %d: %s\n", id, status.Label())
	return nil
}

// runList prints today's board.
func runList(ctx context.Context, opts *rootOptions, local bool, stdout, stderr io.Writer) error {
	if local {
		return withLocalService(ctx, opts, stderr, "list", func(ctx context.Context, rt *runtimeEnv, svc *app.Service) error {
			view, err := svc.Board(ctx, rt.cfg.Board.Kid)
			if err != nil {
				return err
			}
			return printBoard(stdout, view)
		})
	}

	rt, err := resolveRuntime(opts, "list", stderr)
	if err != nil {
		return err
	}
	defer rt.Close(stderr)
	client, err := newRemoteClient(rt.cfg)
	if err != nil {
		return fmt.Errorf("configure remote store: %w", err)
	}
	view, err := client.Board(ctx, rt.cfg.Board.Kid)
	if err != nil {
		rt.logger.Error("board fetch failed", "remote", rt.cfg.Remote.BaseURL, "err", err)
		return err
	}
	return printBoard(stdout, view)
}

// printBoard writes a board as aligned plain text.
func printBoard(w io.Writer, view app.BoardView) error {
	header := "chores for " + view.Day
	if view.Kid != "" {
		header += " (" + view.Kid + ")"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if len(view.Chores) == 0 {
		_, err := fmt.Fprintln(w, "  no chores")
		return err
	}
	kidWidth := 0
	for _, chore := range view.Chores {
		kidWidth = max(kidWidth, len(chore.Kid))
	}
	for _, chore := range view.Chores {
		if _, err := fmt.Fprintf(w, "  %4d  %-*s  %-10s  %s\n", chore.ID, kidWidth, chore.Kid, chore.Status, chore.Title); err != nil {
			return err
		}
	}
	return nil
}

// runPaths prints the resolved paths without touching the store.
func runPaths(opts *rootOptions, stdout io.Writer) error {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
	_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
	_, _ = fmt.Fprintf(stdout, "config: %s\n", paths.ConfigPath)
	_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
	_, _ = fmt.Fprintf(stdout, "db: %s\n", paths.DBPath)
	_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", paths.LogDir)
	return nil
}

// runExport writes a snapshot to outPath, or stdout for "-".
func runExport(ctx context.Context, svc *app.Service, outPath string, stdout io.Writer) error {
	snap, err := svc.ExportSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
		return nil
	}
	if err := config.EnsureConfigDir(outPath); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// runImport loads a snapshot file and returns the number of chores in it.
func runImport(ctx context.Context, svc *app.Service, inPath string) (int, error) {
	if strings.TrimSpace(inPath) == "" {
		return 0, errors.New("import file is required")
	}
	content, err := os.ReadFile(inPath)
	if err != nil {
		return 0, fmt.Errorf("read import file: %w", err)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return 0, fmt.Errorf("decode snapshot json: %w", err)
	}
	if err := svc.ImportSnapshot(ctx, snap); err != nil {
		return 0, fmt.Errorf("import snapshot: %w", err)
	}
	return len(snap.Chores), nil
}

// parseBoolEnv reads a boolean environment variable. ok is false when unset or invalid.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// toSeedChores maps configured seeds onto service seeds.
func toSeedChores(in []config.SeedConfig) []app.SeedChore {
	out := make([]app.SeedChore, 0, len(in))
	for _, seed := range in {
		out = append(out, app.SeedChore{
			Kid:       strings.TrimSpace(seed.Kid),
			Title:     strings.TrimSpace(seed.Title),
			SortOrder: seed.SortOrder,
		})
	}
	return out
}

// toTUIRuntimeConfig maps persisted config values into runtime model options.
func toTUIRuntimeConfig(cfg config.Config) tui.RuntimeConfig {
	return tui.RuntimeConfig{
		UnitsPerCell:      cfg.Board.UnitsPerCell,
		SnapBackOnFailure: cfg.Board.SnapBackOnFailure,
		Kid:               strings.TrimSpace(cfg.Board.Kid),
		Keys: tui.KeyConfig{
			Help:    cfg.Keys.Help,
			Reload:  cfg.Keys.Reload,
			NextTab: cfg.Keys.NextTab,
			PrevTab: cfg.Keys.PrevTab,
			Copy:    cfg.Keys.Copy,
		},
	}
}
