package fuzztests

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"kernelsym/internal/catalog"
)

const maxSeedBytes = 4 << 10

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addCatalogSeeds(f)
}

// addTestdataSeeds adds the last field of every line in testdata/symbols.txt.
func addTestdataSeeds(f *testing.F) {
	path := filepath.Join("..", "..", "testdata", "symbols.txt")
	// #nosec G304 -- path is a fixed repository location
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		f.Add(clampSeed(fields[len(fields)-1]))
	}
	f.Add("")
	f.Add("_Z")
}

// addCatalogSeeds mangles every exact builtin name with a float parameter.
func addCatalogSeeds(f *testing.F) {
	c, err := catalog.Default()
	if err != nil {
		return
	}
	for _, e := range c.Entries {
		f.Add("_Z" + strconv.Itoa(len(e.Name)) + e.Name + "f")
	}
}

func clampSeed(s string) string {
	if len(s) <= maxSeedBytes {
		return s
	}
	return s[:maxSeedBytes]
}
