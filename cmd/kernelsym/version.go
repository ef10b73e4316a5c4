package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kernelsym/internal/catalog"
	"kernelsym/internal/version"
)

type versionPayload struct {
	Tool           string `json:"tool"`
	Version        string `json:"version"`
	GitCommit      string `json:"git_commit,omitempty"`
	BuildDate      string `json:"build_date,omitempty"`
	CatalogVersion string `json:"catalog_version"`
	CatalogDigest  string `json:"catalog_digest"`
}

var (
	versionFormat   string
	versionShowFull bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "include commit and build date")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show kernelsym and embedded catalog versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format := strings.ToLower(versionFormat)
		switch format {
		case "pretty", "json":
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
		cat, err := catalog.Default()
		if err != nil {
			return err
		}
		payload := buildVersionPayload(version.Current(), cat, versionShowFull || format == "json")
		if format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		}
		renderVersionPretty(cmd.OutOrStdout(), payload)
		return nil
	},
}

func buildVersionPayload(fp version.Fingerprint, cat *catalog.Catalog, full bool) versionPayload {
	p := versionPayload{
		Tool:           "kernelsym",
		Version:        fp.Version,
		CatalogVersion: cat.Version,
		CatalogDigest:  cat.Digest(),
	}
	if full {
		p.GitCommit = fp.GitCommit
		p.BuildDate = fp.BuildDate
	}
	return p
}

func renderVersionPretty(w io.Writer, p versionPayload) {
	fmt.Fprintf(w, "%s %s\n", p.Tool, version.Styled(p.Version))
	fmt.Fprintf(w, "  catalog %s (%s)\n", p.CatalogVersion, p.CatalogDigest)
	if p.GitCommit != "" {
		fmt.Fprintf(w, "  commit  %s\n", p.GitCommit)
	}
	if p.BuildDate != "" {
		fmt.Fprintf(w, "  built   %s\n", p.BuildDate)
	}
}
