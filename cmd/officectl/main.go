package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/metrics"
	"github.com/wippyai/comproxy/office"
	"github.com/wippyai/comproxy/proxy"
	"github.com/wippyai/comproxy/sim"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

type options struct {
	scenario    string
	fire        string
	metricsAddr string
	interactive bool
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.scenario, "scenario", "", "Path to a YAML object graph")
	flag.StringVar(&opts.fire, "fire", "", "Raise a native event on every proxy of a type (Type:Event, e.g. Chart:Activate)")
	flag.StringVar(&opts.metricsAddr, "metrics", "", "Serve Prometheus metrics on this address after the run")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.verbose, "v", false, "Log proxy lifecycle at debug level")
	flag.Parse()

	if opts.scenario == "" {
		fmt.Fprintln(os.Stderr, "Usage: officectl -scenario <graph.yaml> [-fire Type:Event] [-metrics :9090] [-v]")
		fmt.Fprintln(os.Stderr, "       officectl -scenario <graph.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	proxy.SetLogger(log)

	if opts.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(opts.scenario, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(os.Stdout, opts, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// errLeaked is returned when the run ends with native references still held
// or the runtime saw a contract violation.
var errLeaked = errors.New("native references leaked")

func run(w io.Writer, opts options, log *zap.Logger) error {
	rt, err := sim.LoadScenarioFile(opts.scenario)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	collector := metrics.New()
	unwatch := rt.Watch(collector)
	defer unwatch()

	s := proxy.NewSession(rt, proxy.WithLogger(log), proxy.WithObserver(collector))
	app, err := office.NewApplication(s, rt.Root())
	if err != nil {
		return fmt.Errorf("open application: %w", err)
	}

	entries := walk(app, func(msg string) { fmt.Fprintf(w, "event: %s\n", msg) })
	dump(w, entries)

	if opts.fire != "" {
		if err := fire(w, rt, entries, opts.fire); err != nil {
			app.Dispose()
			return err
		}
	}

	app.Dispose()
	leaked := report(w, rt, isTerminal(w))

	if opts.metricsAddr != "" {
		if err := serveMetrics(opts.metricsAddr, collector, log); err != nil {
			return err
		}
	}
	if leaked {
		return errLeaked
	}
	return nil
}

func fire(w io.Writer, rt *sim.Runtime, entries []entry, spec string) error {
	typeName, eventName, ok := strings.Cut(spec, ":")
	if !ok {
		return fmt.Errorf("fire: want Type:Event, got %q", spec)
	}
	id, ok := office.EventByName(eventName)
	if !ok {
		return fmt.Errorf("fire: unknown event %q", eventName)
	}
	hs := targets(entries, typeName)
	if len(hs) == 0 {
		return fmt.Errorf("fire: no live %s proxies", typeName)
	}
	for _, h := range hs {
		n := rt.Fire(h, id)
		fmt.Fprintf(w, "fired %s on %s#%d (%d sinks)\n", eventName, typeName, h, n)
	}
	return nil
}

// report prints the leak summary after teardown and reports whether anything
// leaked.
func report(w io.Writer, rt *sim.Runtime, styled bool) bool {
	render := func(s lipgloss.Style, msg string) string {
		if styled {
			return s.Render(msg)
		}
		return msg
	}

	outstanding := rt.Outstanding()
	violations := rt.Violations()
	if outstanding == 0 && len(violations) == 0 {
		fmt.Fprintln(w, render(okStyle, "all native references released"))
		return false
	}

	fmt.Fprintln(w, render(failStyle, fmt.Sprintf("%d native references outstanding", outstanding)))
	rt.Each(func(h comproxy.Handle, typeName string, refs int32) bool {
		if refs > 0 {
			fmt.Fprintf(w, "  %s#%d refs=%d\n", typeName, h, refs)
		}
		return true
	})
	for _, v := range violations {
		fmt.Fprintln(w, render(failStyle, fmt.Sprintf("  violation: %s on #%d %s", v.Kind, v.Handle, v.Member)))
	}
	return true
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func serveMetrics(addr string, c *metrics.Collector, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving metrics", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
