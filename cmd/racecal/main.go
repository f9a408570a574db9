// Package main provides the CLI entrypoint for racecal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quietrun/racecal/internal/catalog"
	"github.com/quietrun/racecal/internal/config"
	"github.com/quietrun/racecal/internal/engine"
	"github.com/quietrun/racecal/internal/export"
	"github.com/quietrun/racecal/internal/kv"
	"github.com/quietrun/racecal/internal/paces"
	"github.com/quietrun/racecal/internal/plan"
	"github.com/quietrun/racecal/internal/render"
	"github.com/quietrun/racecal/internal/session"
	"github.com/quietrun/racecal/internal/tui"
)

const defaultTermWidth = 80

var (
	rootProfile   string
	rootPlan      string
	rootEnd       string
	rootUnits     string
	rootWeekStart string
	rootFromLink  string
	rootVerbose   bool

	showSummary bool

	exportFormat string
	exportDir    string

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "racecal",
		Short:         "Race training calendar",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCalendarCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootProfile, "profile", "", "profile to load")
	rootCmd.PersistentFlags().StringVar(&rootPlan, "plan", "", "training plan id (or a unique prefix)")
	rootCmd.PersistentFlags().StringVar(&rootEnd, "end", "", "race/end date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&rootUnits, "units", "", "distance units (mi or km)")
	rootCmd.PersistentFlags().StringVar(&rootWeekStart, "week-starts-on", "", "week start day (monday, sunday, saturday)")
	rootCmd.PersistentFlags().StringVar(&rootFromLink, "from-link", "", "seed settings from a share link")
	rootCmd.PersistentFlags().BoolVar(&rootVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newPlansCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newLinkCmd())
	rootCmd.AddCommand(newPacesCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles everything a command needs once config and storage are open.
type app struct {
	cfg      config.FileConfig
	catalog  *catalog.Catalog
	store    kv.Store
	sessions *session.Store
	engine   *engine.Engine
	logger   zerolog.Logger
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		// Best-effort close.
		a.logger.Error().Err(err).Msg("failed to close store")
	}
}

func newApp(logger zerolog.Logger) (*app, error) {
	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	backend := kv.BackendSQLite
	if cfg.Storage.Backend != nil {
		backend = kv.Backend(*cfg.Storage.Backend)
	}
	path := ""
	if cfg.Storage.Path != nil {
		path = *cfg.Storage.Path
	}
	if path == "" {
		switch backend {
		case kv.BackendBadger:
			path = config.DefaultBadgerDir()
		default:
			path = config.DefaultSQLitePath()
		}
	}
	store, err := kv.Open(backend, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", string(backend), err)
	}

	cat, err := catalog.New()
	if err != nil {
		if cerr := store.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("failed to close store")
		}
		return nil, fmt.Errorf("failed to load plan catalog: %w", err)
	}

	sessions := session.NewStore(store, logger)
	return &app{
		cfg:      cfg,
		catalog:  cat,
		store:    store,
		sessions: sessions,
		engine:   engine.New(cat, sessions, logger),
		logger:   logger,
	}, nil
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if rootVerbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// resolveOptions merges share link, config file, and flags into startup
// options. Flags win over the link, the link over the config file.
func resolveOptions(cmd *cobra.Command, cfg config.FileConfig) (engine.Options, error) {
	applyStringConfig(cmd, "profile", &rootProfile, cfg.Calendar.Profile)
	applyStringConfig(cmd, "plan", &rootPlan, cfg.Calendar.Plan)
	applyStringConfig(cmd, "units", &rootUnits, cfg.Calendar.Units)
	applyStringConfig(cmd, "week-starts-on", &rootWeekStart, cfg.Calendar.WeekStartsOn)

	opts := engine.Options{Profile: rootProfile, PlanID: rootPlan}
	if rootUnits != "" {
		u, err := plan.ParseUnits(rootUnits)
		if err != nil {
			return engine.Options{}, fmt.Errorf("invalid --units value: %w", err)
		}
		opts.Units = u
	}
	if rootWeekStart != "" {
		ws, err := plan.ParseWeekStart(rootWeekStart)
		if err != nil {
			return engine.Options{}, fmt.Errorf("invalid --week-starts-on value: %w", err)
		}
		opts.WeekStartsOn = ws
	}
	if rootEnd != "" {
		d, err := plan.ParseDate(rootEnd)
		if err != nil {
			return engine.Options{}, fmt.Errorf("invalid --end value: %w", err)
		}
		opts.EndDate = d
	}

	if rootFromLink == "" {
		return opts, nil
	}
	params, err := engine.ParseParams(rootFromLink, engine.Params{
		Units:        opts.Units,
		PlanID:       opts.PlanID,
		EndDate:      opts.EndDate,
		WeekStartsOn: opts.WeekStartsOn,
	})
	if err != nil {
		return engine.Options{}, err
	}
	// Flags explicitly set on the command line still win over the link.
	if !cmd.Flags().Changed("plan") {
		opts.PlanID = params.PlanID
	}
	if !cmd.Flags().Changed("units") {
		opts.Units = params.Units
	}
	if !cmd.Flags().Changed("end") {
		opts.EndDate = params.EndDate
	}
	if !cmd.Flags().Changed("week-starts-on") {
		opts.WeekStartsOn = params.WeekStartsOn
	}
	return opts, nil
}

// startSync boots the engine and completes any pending rebuild before
// returning. CLI commands use this; the TUI fetches asynchronously instead.
func startSync(ctx context.Context, a *app, cmd *cobra.Command) error {
	opts, err := resolveOptions(cmd, a.cfg)
	if err != nil {
		return err
	}
	if r := a.engine.Start(ctx, opts); r != nil {
		if err := a.engine.Rebuild(ctx, r); err != nil {
			return fmt.Errorf("failed to build plan: %w", err)
		}
	}
	return nil
}

func profileList(cfg config.FileConfig, active string) []string {
	profiles := append([]string(nil), cfg.Calendar.Profiles...)
	for _, p := range profiles {
		if p == active {
			return profiles
		}
	}
	return append(profiles, active)
}

func runCalendarCmd(cmd *cobra.Command, _ []string) error {
	// The TUI owns the terminal; only errors may interleave with it.
	a, err := newApp(newLogger().Level(zerolog.ErrorLevel))
	if err != nil {
		return err
	}
	defer a.close()

	opts, err := resolveOptions(cmd, a.cfg)
	if err != nil {
		return err
	}
	pending := a.engine.Start(context.Background(), opts)
	profiles := profileList(a.cfg, a.engine.Profile())

	model := tui.NewModel(a.engine, a.catalog, profiles, ".", pending)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the calendar",
		Args:  cobra.NoArgs,
		RunE:  runShowCmd,
	}
	cmd.Flags().BoolVar(&showSummary, "summary", false, "print only the weekly totals")
	return cmd
}

func runShowCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(newLogger())
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	if err := startSync(ctx, a, cmd); err != nil {
		return err
	}
	p, ok := a.engine.RacePlan()
	if !ok {
		return fmt.Errorf("no plan available")
	}

	width := defaultTermWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	lines := render.SummaryTable(p, a.engine.Units())
	if !showSummary {
		lines = append(append(render.Calendar(p, a.engine.Units(), width), ""), lines...)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s · ends %s · profile %s\n\n", a.engine.Plan().Name, a.engine.EndDate(), a.engine.Profile())
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List available training plans",
		Args:  cobra.NoArgs,
		RunE:  runPlansCmd,
	}
}

func runPlansCmd(cmd *cobra.Command, _ []string) error {
	cat, err := catalog.New()
	if err != nil {
		return fmt.Errorf("failed to load plan catalog: %w", err)
	}
	for _, s := range cat.Available() {
		marker := " "
		if s.ID == catalog.DefaultPlanID {
			marker = "*"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %s\n", marker, s.ID, s.Name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the calendar as iCal or CSV",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "ics", "export format (ics or csv)")
	cmd.Flags().StringVar(&exportDir, "out", ".", "output directory")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(newLogger())
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	if err := startSync(ctx, a, cmd); err != nil {
		return err
	}
	p, ok := a.engine.RacePlan()
	if !ok {
		return fmt.Errorf("no plan available")
	}

	var content string
	switch exportFormat {
	case "ics":
		content, ok = export.ToIcal(p, a.engine.Units())
	case "csv":
		content, ok = export.ToCsv(p, a.engine.Units(), a.engine.WeekStartsOn())
	default:
		return fmt.Errorf("unknown export format %q (use ics or csv)", exportFormat)
	}
	if !ok {
		return fmt.Errorf("plan has no workouts to export")
	}
	path, err := export.WriteFile(exportDir, export.BaseName, exportFormat, content)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Print a share link query for the current settings",
		Args:  cobra.NoArgs,
		RunE:  runLinkCmd,
	}
}

func runLinkCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(newLogger())
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	if err := startSync(ctx, a, cmd); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "?"+a.engine.ShareLink()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newPacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paces",
		Short: "Show training paces for a profile",
		Args:  cobra.NoArgs,
		RunE:  runPacesCmd,
	}
}

func runPacesCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(newLogger())
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	applyStringConfig(cmd, "profile", &rootProfile, a.cfg.Calendar.Profile)
	profile := rootProfile
	if profile == "" {
		profile = a.sessions.CurrentProfile(ctx)
	}

	history, err := paces.Load(config.DefaultPacesDir(), profile)
	if err != nil {
		return err
	}
	entry, ok := history.Latest()
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "no pace data for %s\n", profile)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s · as of %s\n\n", profile, entry.Date)
	for _, line := range render.PaceTable(entry) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved state for a profile",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(newLogger())
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	applyStringConfig(cmd, "profile", &rootProfile, a.cfg.Calendar.Profile)
	profile := rootProfile
	if profile == "" {
		profile = a.sessions.CurrentProfile(ctx)
	}

	if !resetYes {
		fmt.Fprintf(cmd.OutOrStdout(), "delete saved calendar for %q? [y/N] ", profile)
		var answer string
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &answer); err != nil || !strings.HasPrefix(strings.ToLower(answer), "y") {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
	}
	if err := a.sessions.Clear(ctx, profile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", profile)
	return nil
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# racecal configuration
# Uncomment a value to enable it. CLI flags override config values.

[calendar]
# plan = %q       # Training plan id
# units = "mi"                     # Distance units (mi or km)
# week-starts-on = "monday"        # Week start day (monday, sunday, saturday)
# profile = %q                # Profile to load on start
# profiles = [%q]             # Profiles the TUI cycles through

[storage]
# backend = "sqlite"               # Storage backend (sqlite or badger)
# path = ""                        # Database file (sqlite) or directory (badger)
`,
		catalog.DefaultPlanID,
		session.DefaultProfile,
		session.DefaultProfile,
	)
}
