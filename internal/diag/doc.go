// Package diag defines the failure codes shared by the decoder, the matcher
// and the registry, plus a bounded Bag used by batch runs to keep the first
// few failures.
//
// Codes are grouped by the outcome they describe:
//
//   - DEC1xxx: the symbol does not follow the restricted mangling grammar.
//   - CLS2xxx: the symbol decodes but names no catalog builtin.
//   - RET3xxx: a name-encoded return type could not be parsed.
//   - CAT4xxx / CFG5xxx: catalog and configuration loading.
//
// All three lookup outcomes are ordinary results for callers; the codes only
// exist so tools and tests can tell them apart.
package diag
