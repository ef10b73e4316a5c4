package main

import (
	"bufio"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"kernelsym/internal/builtins"
	"kernelsym/internal/diag"
	"kernelsym/internal/diagfmt"
	"kernelsym/internal/mangle"
	"kernelsym/internal/observ"
	"kernelsym/internal/trace"
	"kernelsym/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [FILE|-]",
	Short: "Classify a list of symbols, one per line, and summarise the result",
	Long: `scan reads symbols one per line from FILE or standard input, such as
the output of "llvm-nm --undefined-only", and reports how many resolve to
each builtin category. Blank lines and lines starting with '#' are skipped;
only the last whitespace-separated field of a line is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Int("jobs", 0, "parallel workers (default from kernelsym.toml or GOMAXPROCS)")
	scanCmd.Flags().Int("max-diagnostics", 0, "diagnostics to print (default from kernelsym.toml)")
	scanCmd.Flags().Bool("timings", false, "print phase timings to stderr")
	scanCmd.Flags().Bool("progress", false, "show a progress view when stderr is a terminal")
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// symbolLine is one symbol read from the input with its 1-based line.
type symbolLine struct {
	Line   int
	Symbol string
}

type scanResult struct {
	symbolLine
	Info *builtins.FunctionInfo
	Err  error
}

type countPayload struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// scanSummary is the report of one scan; it is also the JSON payload.
type scanSummary struct {
	Symbols     int                       `json:"symbols"`
	Distinct    int                       `json:"distinct"`
	Builtins    int                       `json:"builtins"`
	Categories  []countPayload            `json:"categories"`
	Failures    []countPayload            `json:"failures"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	Timings     *observ.Report            `json:"timings,omitempty"`

	bag *diag.Bag
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format %q (expected pretty|json)", format)
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}
	showProgress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	jobs := s.cfg.Scan.Jobs
	if cmd.Flags().Changed("jobs") {
		if jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return err
		}
		if jobs < 1 {
			return fmt.Errorf("--jobs must be at least 1, got %d", jobs)
		}
	}
	maxDiags := s.cfg.Scan.MaxDiagnostics
	if cmd.Flags().Changed("max-diagnostics") {
		if maxDiags, err = cmd.Flags().GetInt("max-diagnostics"); err != nil {
			return err
		}
	}

	timer := observ.NewTimer()

	idx := timer.Begin("read")
	_, readSpan := trace.Start(cmd.Context(), trace.ScopePass, "read")
	lines, err := readInput(cmd, args)
	readSpan.End(fmt.Sprintf("%d symbols", len(lines)))
	timer.End(idx, fmt.Sprintf("%d symbols", len(lines)))
	if err != nil {
		return err
	}

	idx = timer.Begin("classify")
	ctx, classifySpan := trace.Start(cmd.Context(), trace.ScopePass, "classify")
	reg := builtins.NewRegistry(s.catalog, builtins.WithTraceContext(ctx))
	defer reg.Close()

	var results []scanResult
	if showProgress && !s.quiet && isTerminal(os.Stderr) {
		results, err = classifyWithUI(ctx, reg, lines, jobs)
	} else {
		results, err = classifyAll(ctx, reg, lines, jobs, nil)
	}
	classifySpan.Set("jobs", fmt.Sprint(jobs)).End("")
	timer.End(idx, fmt.Sprintf("%d jobs", jobs))
	if err != nil {
		return err
	}

	idx = timer.Begin("report")
	summary := summarize(results, maxDiags, sourceName(args))
	summary.Distinct = reg.Stats().Entries
	timer.End(idx, "")
	if timings {
		report := timer.Report()
		summary.Timings = &report
	}

	switch format {
	case "json":
		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	default:
		printSummary(s.out, summary, sourceName(args), s.useColor)
	}
	if timings && format != "json" {
		fmt.Fprint(s.errOut, timer.Summary())
	}
	st := reg.Stats()
	s.infof("%d lookups, %d distinct symbols\n", st.Lookups, st.Entries)
	return nil
}

func sourceName(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return "<stdin>"
	}
	return args[0]
}

func readInput(cmd *cobra.Command, args []string) ([]symbolLine, error) {
	if len(args) == 0 || args[0] == "-" {
		return readSymbols(cmd.InOrStdin())
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lines, err := readSymbols(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", args[0], err)
	}
	return lines, nil
}

// readSymbols takes the last field of every non-blank, non-comment line.
func readSymbols(r io.Reader) ([]symbolLine, error) {
	var out []symbolLine
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		out = append(out, symbolLine{Line: line, Symbol: fields[len(fields)-1]})
	}
	return out, sc.Err()
}

// classifyAll resolves every line through reg with at most jobs workers.
// Results keep input order. events, when non-nil, receives one event per
// symbol and is not closed.
func classifyAll(ctx context.Context, reg *builtins.Registry, lines []symbolLine, jobs int, events chan<- ui.ScanEvent) ([]scanResult, error) {
	results := make([]scanResult, len(lines))
	if len(lines) == 0 {
		return results, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(lines))))
	for i, ln := range lines {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			fi := reg.Lookup(ln.Symbol)
			res := scanResult{symbolLine: ln, Info: fi}
			if !fi.IsValid() {
				res.Err = reg.Explain(ln.Symbol)
			}
			results[i] = res
			if events != nil {
				events <- ui.ScanEvent{Symbol: ln.Symbol, Valid: fi.IsValid()}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// summarize counts categories and failure codes. Failures of warning
// severity or worse also become diagnostics, once per distinct symbol.
func summarize(results []scanResult, maxDiags int, source string) scanSummary {
	sum := scanSummary{Symbols: len(results), bag: diag.NewBag(maxDiags)}
	categories := make(map[string]int)
	failures := make(map[string]int)
	reported := make(map[string]struct{})

	for _, r := range results {
		if r.Info.IsValid() {
			sum.Builtins++
			categories[r.Info.Kind().String()]++
			continue
		}
		code := builtins.CodeOf(r.Err)
		failures[code.ID()+" "+code.Title()]++
		sev := diag.SeverityOf(code)
		if sev < diag.SevWarning {
			continue
		}
		if _, seen := reported[r.Symbol]; seen {
			continue
		}
		reported[r.Symbol] = struct{}{}
		d := diag.Diagnostic{Severity: sev, Code: code, Symbol: r.Symbol, Line: r.Line, Offset: -1, Message: errMessage(r.Err)}
		var decErr *mangle.DecodeError
		if errors.As(r.Err, &decErr) {
			d.Offset = decErr.Offset
			d.Message = decErr.Detail
		}
		sum.bag.Add(d)
	}

	sum.bag.Sort()
	sum.Diagnostics = diagfmt.BuildDiagnosticsOutput(sum.bag, diagfmt.JSONOpts{Source: source})
	sum.Categories = sortedCounts(categories)
	sum.Failures = sortedCounts(failures)
	return sum
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// sortedCounts orders by count, largest first, then label.
func sortedCounts(m map[string]int) []countPayload {
	out := make([]countPayload, 0, len(m))
	for label, n := range m {
		out = append(out, countPayload{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b countPayload) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

func toRows(counts []countPayload) []ui.Row {
	rows := make([]ui.Row, len(counts))
	for i, c := range counts {
		rows[i] = ui.Row{Label: c.Label, Count: c.Count}
	}
	return rows
}

const (
	maxLabelWidth = 40
	previewWidth  = 100
)

func printSummary(w io.Writer, sum scanSummary, source string, useColor bool) {
	fmt.Fprint(w, ui.RenderCounts("builtin categories", toRows(sum.Categories), sum.Builtins, maxLabelWidth, useColor))
	if len(sum.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, ui.RenderCounts("not resolved", toRows(sum.Failures), sum.Symbols-sum.Builtins, maxLabelWidth, useColor))
	}
	if sum.bag.Len() == 0 && sum.bag.Dropped() == 0 {
		return
	}
	fmt.Fprintln(w)
	diagfmt.Pretty(w, sum.bag, diagfmt.PrettyOpts{
		Color:       useColor,
		Source:      source,
		Width:       previewWidth,
		ShowPreview: true,
	})
}
