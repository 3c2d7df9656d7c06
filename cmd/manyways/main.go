package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	_ "github.com/vanderheijden86/manyways/pkg/ttyguard"

	"github.com/vanderheijden86/manyways/pkg/catalog"
	"github.com/vanderheijden86/manyways/pkg/config"
	"github.com/vanderheijden86/manyways/pkg/debug"
	"github.com/vanderheijden86/manyways/pkg/metrics"
	"github.com/vanderheijden86/manyways/pkg/prompt"
	"github.com/vanderheijden86/manyways/pkg/ui"
	"github.com/vanderheijden86/manyways/pkg/version"
	"github.com/vanderheijden86/manyways/pkg/watcher"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without os.Exit, so deferred cleanup (CPU profile, log
// flush, watcher) always happens. It returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("manyways", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cpuProfile := fs.String("cpu-profile", "", "Write CPU profile to file")
	help := fs.Bool("help", false, "Show help")
	versionFlag := fs.Bool("version", false, "Show version")
	accessible := fs.Bool("accessible", false, "Ask questions line by line instead of drawing full screens")
	catalogPath := fs.String("catalog", "", "Load categories and voices from a YAML file")
	noWatch := fs.Bool("no-watch", false, "Do not reload --catalog when the file changes")
	debugFlag := fs.Bool("debug", false, "Write a debug log (log.file, MANYWAYS_DEBUG_FILE or the state directory)")
	robotCatalog := fs.Bool("robot-catalog", false, "Print the catalog as JSON and exit")
	robotRender := fs.Bool("robot-render", false, "Print the Welcome view as JSON and exit")
	robotReplay := fs.String("robot-replay", "", "Replay a comma separated action script and print the trace as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Could not create CPU profile: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Fprintln(stdout, "Usage: manyways [options]")
		fmt.Fprintln(stdout, "\nMany Ways to Be Here: a four-step reflection on student life.")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "manyways %s\n", version.Version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	cfg.ApplyEnv(os.LookupEnv)
	applyFlags(&cfg, flagOverrides{
		accessible:  flagWasSet(fs, "accessible"),
		accessibleV: *accessible,
		catalogPath: *catalogPath,
		noWatch:     *noWatch,
		debug:       *debugFlag,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error in configuration: %v\n", err)
		return 1
	}

	if cfg.Log.Enabled {
		logPath := cfg.Log.File
		if logPath == "" {
			logPath = debug.DefaultLogPath()
		}
		if err := debug.Init(cfg.Log.Level, logPath); err != nil {
			fmt.Fprintf(stderr, "Could not open debug log: %v\n", err)
		}
	}
	defer func() { _ = debug.Sync() }()

	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading catalog: %v\n", err)
		return 1
	}
	source := catalogSource(cfg.Catalog.Path)
	debug.Logw("startup", "version", version.Version, "catalog", source, "categories", cat.Len())

	switch {
	case *robotCatalog:
		return writeRobot(stdout, stderr, newRobotCatalogOutput(cat, source, time.Now()), nil)
	case *robotRender:
		return writeRobot(stdout, stderr, newRobotRenderOutput(cat, time.Now()), nil)
	case *robotReplay != "":
		out, replayErr := runReplay(cat, *robotReplay, time.Now())
		return writeRobot(stdout, stderr, out, replayErr)
	}

	if useLineMode(cfg, prompt.IsTerminal()) {
		err = runLineMode(cat, cfg, stdout)
	} else {
		err = runTUI(cat, cfg)
	}
	debug.Log("metrics:\n%s", metrics.Summary())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// writeRobot prints v as JSON. The JSON is printed even when the command
// itself failed; failed only decides the exit code.
func writeRobot(stdout, stderr io.Writer, v any, failed error) int {
	if err := writeRobotJSON(stdout, v); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if failed != nil {
		debug.Logw("robot command failed", "error", failed)
		return 1
	}
	return 0
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// flagOverrides carries the CLI flags that win over env and config.
type flagOverrides struct {
	accessible  bool // --accessible was given
	accessibleV bool
	catalogPath string
	noWatch     bool
	debug       bool
}

func applyFlags(cfg *config.Config, f flagOverrides) {
	if f.accessible {
		v := f.accessibleV
		cfg.UI.Accessible = &v
	}
	if f.catalogPath != "" {
		cfg.Catalog.Path = f.catalogPath
	}
	if f.noWatch {
		cfg.Catalog.Watch = false
	}
	if f.debug {
		cfg.Log.Enabled = true
	}
}

// useLineMode picks the accessible line mode when configured, or when
// stdin is not a terminal and nothing says otherwise.
func useLineMode(cfg config.Config, isTTY bool) bool {
	if cfg.UI.Accessible != nil {
		return *cfg.UI.Accessible
	}
	return !isTTY
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFrom(path)
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

func runLineMode(cat *catalog.Catalog, cfg config.Config, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ask := prompt.HuhAsker{Accessible: true}
	r := prompt.NewRunner(cat, ask, out, cfg.UI.ShowFooter)
	err := r.Run(ctx)
	if errors.Is(err, prompt.ErrAborted) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runTUI(cat *catalog.Catalog, cfg config.Config) error {
	opts := []ui.Option{
		ui.WithTheme(ui.ThemeFor(lipgloss.DefaultRenderer(), cfg.UI.Theme)),
		ui.WithFooter(cfg.UI.ShowFooter),
	}

	if cfg.Catalog.Path != "" && cfg.Catalog.Watch {
		w, err := watcher.New(cfg.Catalog.Path)
		if err == nil {
			err = w.Start(context.Background())
		}
		if err != nil {
			// Non-fatal: run without live reload
			debug.Logw("catalog watch disabled", "path", cfg.Catalog.Path, "error", err)
		} else {
			defer w.Stop()
			opts = append(opts, ui.WithCatalogWatcher(w))
		}
	}

	return runTUIProgram(ui.NewModel(cat, opts...), cfg.UI.Mouse)
}

func runTUIProgram(m ui.Model, mouse bool) error {
	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	}
	if mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, programOpts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set MANYWAYS_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("MANYWAYS_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
