package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"kernelsym/internal/catalog"
	"kernelsym/internal/prof"
	"kernelsym/internal/project"
	"kernelsym/internal/trace"
)

// session is what every command needs: the merged configuration, the
// catalog and a tracer. Flags override kernelsym.toml.
type session struct {
	cfg      project.Config
	catalog  *catalog.Catalog
	tracer   trace.Tracer
	span     *trace.Span
	useColor bool
	quiet    bool
	out      io.Writer
	errOut   io.Writer
	stopProf func() error
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}

	if s.quiet, err = cmd.Flags().GetBool("quiet"); err != nil {
		return nil, err
	}
	colorFlag, err := cmd.Flags().GetString("color")
	if err != nil {
		return nil, err
	}
	switch colorFlag {
	case "on":
		s.useColor = true
	case "off":
	case "auto":
		s.useColor = isTerminal(os.Stdout)
	default:
		return nil, fmt.Errorf("invalid --color %q (expected auto|on|off)", colorFlag)
	}
	color.NoColor = !s.useColor

	var po prof.Options
	if po.CPU, err = cmd.Flags().GetString("cpuprofile"); err != nil {
		return nil, err
	}
	if po.Mem, err = cmd.Flags().GetString("memprofile"); err != nil {
		return nil, err
	}
	if po.Trace, err = cmd.Flags().GetString("runtime-trace"); err != nil {
		return nil, err
	}
	if s.tracer, err = setupTracing(cmd, &s.cfg.Trace); err != nil {
		return nil, err
	}
	if po.Enabled() {
		if s.stopProf, err = prof.Start(po); err != nil {
			_ = s.tracer.Close()
			return nil, err
		}
	}
	ctx, span := trace.Start(cmd.Context(), trace.ScopeCommand, cmd.Name())
	s.span = span
	cmd.SetContext(ctx)

	path := cfg.Catalog.Path
	if cmd.Flags().Changed("catalog") {
		if path, err = cmd.Flags().GetString("catalog"); err != nil {
			s.close()
			return nil, err
		}
	}
	_, load := trace.Start(ctx, trace.ScopePass, "catalog")
	s.catalog, err = openCatalog(path)
	if err != nil {
		load.End(err.Error())
		s.close()
		return nil, err
	}
	load.Set("version", s.catalog.Version).End(path)
	return s, nil
}

func openCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Open(path)
}

func loadConfig(cmd *cobra.Command) (project.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return project.Config{}, err
	}
	if path != "" {
		return project.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	return project.Discover(wd)
}

func (s *session) close() {
	if s.stopProf != nil {
		if err := s.stopProf(); err != nil {
			fmt.Fprintf(s.errOut, "profile: %v\n", err)
		}
	}
	s.span.End("")
	if err := s.tracer.Flush(); err != nil {
		fmt.Fprintf(s.errOut, "trace: flush error: %v\n", err)
	}
	if ring, ok := s.tracer.(*trace.RingTracer); ok && s.cfg.Trace.Output != "" {
		dumpRing(ring, s.cfg.Trace.Output, s.errOut)
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(s.errOut, "trace: close error: %v\n", err)
	}
}

// infof prints progress chatter unless --quiet.
func (s *session) infof(format string, args ...any) {
	if s.quiet {
		return
	}
	fmt.Fprintf(s.errOut, format, args...)
}
