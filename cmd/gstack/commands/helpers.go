package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/systmms/gstack/internal/checker"
	"github.com/systmms/gstack/internal/config"
	"github.com/systmms/gstack/internal/logging"
	"github.com/systmms/gstack/internal/metrics"
	"github.com/systmms/gstack/internal/script"
	"github.com/systmms/gstack/pkg/stack"
)

// session bundles what a command needs to drive stacks
type session struct {
	def      config.Definition
	checker  *checker.Checker
	registry *prometheus.Registry
}

func newSession(cfg *config.Config) (*session, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.New(false, true)
	}
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	def := cfg.Active()

	s := &session{def: def}
	var m *metrics.StackMetrics
	if def.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		m = metrics.NewStackMetrics(s.registry)
	}
	s.checker = checker.New(cfg.Logger, m, def.AbortOnFault)
	return s, nil
}

// runner returns a script runner over a fresh stack. Options are built per
// stack so limited allocators are not shared.
func (s *session) runner(label string) (*script.Runner, error) {
	opts, err := s.def.StackOptions()
	if err != nil {
		return nil, err
	}
	return &script.Runner{
		Stack:   &stack.Guarded{},
		Checker: s.checker,
		Label:   label,
		Options: opts,
	}, nil
}

// release destroys the runner's stack if a script left it live
func release(r *script.Runner) {
	if r.Stack.State() == stack.StateLive {
		_ = r.Stack.Destroy()
	}
}

// printResults writes one line per executed step
func printResults(w io.Writer, results []script.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, r.Step, describe(r))
	}
	_ = tw.Flush()
}

func describe(r script.Result) string {
	var parts []string
	if r.HasValue {
		parts = append(parts, fmt.Sprintf("value=%d", r.Value))
	}
	if r.Size == stack.InvalidSize {
		parts = append(parts, "size=invalid")
	} else {
		parts = append(parts, fmt.Sprintf("size=%d", r.Size))
	}
	if !r.Faults.Healthy() {
		parts = append(parts, "faults="+r.Faults.String())
	}
	return strings.Join(parts, " ")
}

// printMetrics writes the gathered counters and gauges in a flat form
func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			value := m.GetCounter().GetValue() + m.GetGauge().GetValue()
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), value))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	return nil
}

// finish prints metrics when the session collected any
func (s *session) finish(w io.Writer) error {
	if s.registry == nil {
		return nil
	}
	fmt.Fprintln(w, "\nmetrics:")
	return printMetrics(w, s.registry)
}
