package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Source      string // input name printed before line numbers, e.g. "symbols.txt"
	Width       int    // maximum preview width, 0 means unlimited
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Source string
	Max    int // trims output, not the Bag
}
