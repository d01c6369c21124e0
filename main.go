package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"

	"github.com/AndyGlx/am-process-selector/internal/ctxlog"
	"github.com/AndyGlx/am-process-selector/internal/model"
	"github.com/AndyGlx/am-process-selector/internal/query"
	"github.com/AndyGlx/am-process-selector/internal/settings"
	"github.com/AndyGlx/am-process-selector/internal/source"
	"github.com/AndyGlx/am-process-selector/internal/tui"
	"github.com/AndyGlx/am-process-selector/internal/web"
)

// loadFunc fetches the configuration; every mode shares one.
type loadFunc = func(ctx context.Context) (*model.Configuration, error)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "AndyGlx",
		Repository: "am-process-selector",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/AndyGlx/am-process-selector/releases")
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: procselect [options]\n\n")
		fmt.Fprintf(os.Stderr, "procselect narrows a catalog of manufacturing processes and their variants\n")
		fmt.Fprintf(os.Stderr, "down to the ones compatible with a set of filter selections.\n")
		fmt.Fprintf(os.Stderr, "The catalog is read from a tabular CSV source, with a JSON or YAML fallback.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  procselect                          # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  procselect -r -s material=steel     # Print a report for a selection\n")
		fmt.Fprintf(os.Stderr, "  procselect -r -o r.txt              # Save report to file\n")
		fmt.Fprintf(os.Stderr, "  procselect --json -s size=l         # Output match state as JSON\n")
		fmt.Fprintf(os.Stderr, "  procselect --web --watch            # Serve the web UI, reload on edits\n")
	}

	pflag.String("source", "", "Tabular configuration source (path or http(s) URL)")
	pflag.String("fallback", "", "Structured fallback source, JSON or YAML (path or URL)")
	configFlag := pflag.StringP("config", "c", "", "Settings file (default ./"+settings.FileName+" or $"+settings.EnvVar+")")
	selectFlag := pflag.StringArrayP("select", "s", nil, "Select an option as category=option (repeatable)")
	jsonFlag := pflag.BoolP("json", "j", false, "Output match state for the selection as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Generate a text report for the selection (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include effective compatibility of every variant in the report")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode")
	pflag.String("addr", "", "Web listen address (default from settings, :8080)")
	pflag.Bool("watch", false, "Reload the configuration in web mode when a source file changes")
	pflag.String("log-level", "", "Log level: debug, info, warn or error")
	pflag.String("log-format", "", "Log format: text or json")
	pflag.String("log-file", "", "Write logs to this file instead of stderr")
	initConfigFlag := pflag.Bool("init-config", false, "Write a default settings file and exit")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("procselect version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	if *initConfigFlag {
		path := *configFlag
		if path == "" {
			path = settings.FileName
		}
		if err := settings.WriteDefault(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Settings written to %s\n", path)
		return
	}

	cfg, err := settings.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyFlagOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sel, err := model.ParseSelection(*selectFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so it only logs when a file is given
	tuiMode := !*webFlag && !*reportFlag && !*jsonFlag
	logger, closeLog, err := newLogger(cfg.Log, tuiMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	preferred := source.Detect(cfg.Source)
	fallback := source.Detect(cfg.Fallback)
	load := func(ctx context.Context) (*model.Configuration, error) {
		return source.Load(ctx, preferred, fallback)
	}

	switch {
	case *webFlag:
		err = runWebMode(ctx, cfg.Web, load, preferred, fallback)
	case *reportFlag:
		err = runReportMode(ctx, load, sel, *outputFlag, *verboseFlag)
	case *jsonFlag:
		err = runJsonMode(ctx, load, sel)
	default:
		err = runTuiMode(ctx, load, sel)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// applyFlagOverrides lets explicitly set flags win over the settings file.
func applyFlagOverrides(s *settings.Settings) {
	override := func(name string, dst *string) {
		if f := pflag.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	override("source", &s.Source)
	override("fallback", &s.Fallback)
	override("addr", &s.Web.Addr)
	override("log-level", &s.Log.Level)
	override("log-format", &s.Log.Format)
	override("log-file", &s.Log.File)
	if f := pflag.Lookup("watch"); f != nil && f.Changed {
		s.Web.Watch = f.Value.String() == "true"
	}
}

func newLogger(ls settings.LogSettings, quiet bool) (*slog.Logger, func(), error) {
	if ls.File != "" {
		f, err := os.OpenFile(ls.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		var once bool
		return ctxlog.New(ls.Level, ls.Format, f), func() {
			if !once {
				once = true
				f.Close()
			}
		}, nil
	}
	if quiet {
		return ctxlog.Discard(), func() {}, nil
	}
	return ctxlog.New(ls.Level, ls.Format, os.Stderr), func() {}, nil
}

func runWebMode(ctx context.Context, ws settings.WebSettings, load loadFunc, sources ...source.Source) error {
	cfg, err := load(ctx)
	if err != nil {
		return err
	}
	srv := web.NewServer(query.New(cfg), load, ctxlog.FromContext(ctx))

	if ws.Watch {
		var paths []string
		for _, src := range sources {
			if p, ok := source.LocalPath(src); ok {
				paths = append(paths, p)
			}
		}
		go func() {
			if err := srv.Watch(ctx, paths...); err != nil {
				ctxlog.FromContext(ctx).Warn("configuration watch stopped", "error", err)
			}
		}()
	}

	return web.StartServer(ctx, ws.Addr, srv)
}

func runReportMode(ctx context.Context, load loadFunc, sel model.Selection, outputFile string, verbose bool) error {
	cfg, err := load(ctx)
	if err != nil {
		return err
	}

	report := query.GenerateReport(query.New(cfg), sel, verbose)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(report), 0644); err != nil {
			return fmt.Errorf("writing report to %s: %w", outputFile, err)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
		return nil
	}
	fmt.Println(report)
	return nil
}

// jsonOutput mirrors the web /api/state payload.
type jsonOutput struct {
	query.Result
	Selection model.Selection       `json:"selection"`
	Filters   []query.CategoryState `json:"filters"`
}

func runJsonMode(ctx context.Context, load loadFunc, sel model.Selection) error {
	cfg, err := load(ctx)
	if err != nil {
		return err
	}
	catalog := query.New(cfg)

	return writeJSON(os.Stdout, jsonOutput{
		Result:    catalog.Evaluate(sel),
		Selection: sel,
		Filters:   catalog.OptionStates(sel),
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runTuiMode(ctx context.Context, load loadFunc, sel model.Selection) error {
	m := tui.InitialModel(ctx, load)
	m.Selection = sel
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
