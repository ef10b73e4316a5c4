package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"kernelsym/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect, validate and compile builtin catalogs",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate a catalog file (.toml or .mp)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogCheck,
}

var catalogCompileCmd = &cobra.Command{
	Use:   "compile -o OUT.mp",
	Short: "Write the active catalog as a msgpack snapshot",
	Args:  cobra.NoArgs,
	RunE:  runCatalogCompile,
}

func init() {
	catalogListCmd.Flags().String("kind", "", "only list entries of this category")
	catalogCompileCmd.Flags().StringP("output", "o", "", "snapshot path")
	_ = catalogCompileCmd.MarkFlagRequired("output")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogCheckCmd)
	catalogCmd.AddCommand(catalogCompileCmd)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	kindName, err := cmd.Flags().GetString("kind")
	if err != nil {
		return err
	}
	filter := catalog.KindNone
	if kindName != "" {
		k, ok := catalog.ParseKind(kindName)
		if !ok || k == catalog.KindNone {
			return fmt.Errorf("unknown category %q", kindName)
		}
		filter = k
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	printCatalogHeader(s.out, s.catalog)
	listCatalog(s.out, s.catalog, filter)
	return nil
}

func printCatalogHeader(w io.Writer, c *catalog.Catalog) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s (digest %s)\n", bold("catalog"), c.Version, c.Digest())
	fmt.Fprintf(w, "  %d builtins, %d families, %d prefixes\n", len(c.Entries), len(c.Families), len(c.Prefixes))
}

// listCatalog prints one line per entry; KindNone lists everything.
func listCatalog(w io.Writer, c *catalog.Catalog, filter catalog.Kind) {
	kind := color.New(color.FgCyan).SprintFunc()
	keep := func(k catalog.Kind) bool { return filter == catalog.KindNone || k == filter }

	for _, e := range c.Entries {
		if keep(e.Kind) {
			fmt.Fprintf(w, "%-32s %s\n", e.Name, kind(e.Kind))
		}
	}
	for _, f := range c.Families {
		if !keep(f.Kind) {
			continue
		}
		slots := make([]string, len(f.Suffixes))
		for i, slot := range f.Suffixes {
			slots[i] = "{" + slot.String() + "}"
		}
		fmt.Fprintf(w, "%-32s %s\n", f.Stem+strings.Join(slots, ""), kind(f.Kind))
	}
	for _, p := range c.Prefixes {
		if keep(p.Kind) {
			fmt.Fprintf(w, "%-32s %s\n", p.Prefix+"*", kind(p.Kind))
		}
	}
}

func runCatalogCheck(cmd *cobra.Command, args []string) error {
	c, err := catalog.Open(args[0])
	if err != nil {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", red(catalog.CodeOf(err).ID()), err)
		return exitError{code: 1}
	}
	printCatalogHeader(cmd.OutOrStdout(), c)
	return nil
}

func runCatalogCompile(cmd *cobra.Command, _ []string) error {
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.catalog.WriteSnapshotFile(out); err != nil {
		return err
	}
	s.infof("wrote %s (catalog %s, digest %s)\n", out, s.catalog.Version, s.catalog.Digest())
	return nil
}
