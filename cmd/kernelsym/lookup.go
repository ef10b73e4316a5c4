package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"kernelsym/internal/builtins"
	"kernelsym/internal/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup SYMBOL...",
	Short: "Classify mangled symbols and print their descriptors",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	lookupCmd.Flags().Bool("explain", false, "print why a symbol is not a builtin")
}

// typePayload is the JSON form of a parameter descriptor.
type typePayload struct {
	Spelling    string `json:"spelling"`
	Kind        string `json:"kind"`
	Signed      bool   `json:"signed,omitempty"`
	ByteLen     int    `json:"byte_len"`
	VectorWidth int    `json:"vector_width,omitempty"`
	StructName  string `json:"struct_name,omitempty"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type lookupPayload struct {
	Symbol     string        `json:"symbol"`
	Valid      bool          `json:"valid"`
	Name       string        `json:"name,omitempty"`
	Category   string        `json:"category,omitempty"`
	Kind       string        `json:"kind,omitempty"`
	ReturnType *typePayload  `json:"return_type,omitempty"`
	Params     []typePayload `json:"params,omitempty"`
	Error      *errorPayload `json:"error,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format %q (expected pretty|json)", format)
	}
	explain, err := cmd.Flags().GetBool("explain")
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	reg := builtins.NewRegistry(s.catalog, builtins.WithTraceContext(cmd.Context()))
	defer reg.Close()

	payloads := make([]lookupPayload, 0, len(args))
	invalid := 0
	for _, sym := range args {
		p := describe(reg, sym)
		if !p.Valid {
			invalid++
		}
		payloads = append(payloads, p)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payloads); err != nil {
			return err
		}
	default:
		for _, p := range payloads {
			printLookup(s.out, p, explain)
		}
	}
	if invalid > 0 {
		return exitError{code: 1}
	}
	return nil
}

// describe resolves sym through reg and flattens the outcome.
func describe(reg *builtins.Registry, sym string) lookupPayload {
	fi := reg.Lookup(sym)
	p := lookupPayload{Symbol: sym, Valid: fi.IsValid()}
	if !fi.IsValid() {
		err := reg.Explain(sym)
		p.Error = &errorPayload{Code: builtins.CodeOf(err).ID(), Message: err.Error()}
		return p
	}
	p.Name = fi.Name()
	p.Category = fi.Category().String()
	p.Kind = fi.Kind().String()
	if fi.Kind().EncodesReturnType() {
		rt := typeOf(fi.ReturnType())
		p.ReturnType = &rt
	}
	for _, param := range fi.Parameters() {
		p.Params = append(p.Params, typeOf(param))
	}
	return p
}

func typeOf(t types.ParamTypeInfo) typePayload {
	return typePayload{
		Spelling:    t.String(),
		Kind:        t.Kind.String(),
		Signed:      t.IsSigned,
		ByteLen:     t.ByteLen,
		VectorWidth: t.VectorWidth,
		StructName:  t.StructName,
	}
}

func printLookup(w io.Writer, p lookupPayload, explain bool) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if !p.Valid {
		fmt.Fprintf(w, "%s  %s\n", bold(p.Symbol), dim("not a builtin"))
		if explain && p.Error != nil {
			fmt.Fprintf(w, "  %s %s\n", red(p.Error.Code), p.Error.Message)
		}
		return
	}
	fmt.Fprintf(w, "%s  %s\n", bold(p.Symbol), green(p.Category))
	fmt.Fprintf(w, "  %-9s %s\n", "builtin", p.Name)
	if p.ReturnType != nil {
		fmt.Fprintf(w, "  %-9s %s\n", "returns", p.ReturnType.Spelling)
	}
	if len(p.Params) == 0 {
		fmt.Fprintf(w, "  %-9s %s\n", "params", dim("none"))
		return
	}
	for i, param := range p.Params {
		fmt.Fprintf(w, "  %-9s %s\n", fmt.Sprintf("param %d", i), paramDetail(param))
	}
}

func paramDetail(t typePayload) string {
	parts := []string{t.Spelling}
	if t.StructName == "" {
		parts = append(parts, fmt.Sprintf("%dB", t.ByteLen))
		if t.VectorWidth > 0 {
			parts = append(parts, fmt.Sprintf("x%d", t.VectorWidth))
		}
	}
	return strings.Join(parts, "  ")
}
