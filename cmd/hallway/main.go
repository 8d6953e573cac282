// Package main provides the CLI entrypoint for hallway.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hallway/internal/config"
	"hallway/internal/report"
	"hallway/internal/store"
	"hallway/internal/tui"
)

const terminalWidthBackup = 80

var (
	storageBackend string
	storageDir     string
	storageDB      string
	reportLimit    int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hallway",
		Short:         "TUI usability testing tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runStudyCmd,
	}

	rootCmd.PersistentFlags().StringVar(&storageBackend, "backend", store.BackendSQLite, "storage backend (sqlite or csv)")
	rootCmd.PersistentFlags().StringVar(&storageDir, "data-dir", config.DefaultDataDir(), "directory for CSV data files")
	rootCmd.PersistentFlags().StringVar(&storageDB, "db", config.DefaultDBPath(), "path to the SQLite database")
	rootCmd.PersistentFlags().IntVar(&reportLimit, "limit", 0, "max records per table (0 = unbounded)")

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func openStore(cmd *cobra.Command) (store.Store, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "backend", &storageBackend, fileCfg.Storage.Backend)
	applyStringConfig(cmd, "data-dir", &storageDir, fileCfg.Storage.Dir)
	applyStringConfig(cmd, "db", &storageDB, fileCfg.Storage.DBPath)
	applyIntConfig(cmd, "limit", &reportLimit, fileCfg.Report.Limit)

	st, err := store.Open(store.Options{
		Backend: storageBackend,
		DBPath:  storageDB,
		Dir:     storageDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

func runStudyCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close store: %v\n", cerr)
		}
	}()

	model := tui.NewModel(st, reportLimit)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the study report",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close store: %v\n", cerr)
		}
	}()

	data, err := report.Load(cmd.Context(), st, reportLimit)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	if err := report.Render(cmd.OutOrStdout(), data, terminalWidth(), false); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# hallway configuration
# Uncomment a value to enable it. CLI flags override config values.

[storage]
# backend = %q       # Storage backend (%q or %q)
# dir = %q           # Directory for CSV data files
# db = %q            # Path to the SQLite database

[report]
# limit = 0               # Max records per table (0 = unbounded)
`,
		store.BackendSQLite,
		store.BackendSQLite,
		store.BackendCSV,
		"~/.local/share/hallway",
		"~/.local/share/hallway/usability_data.db",
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
