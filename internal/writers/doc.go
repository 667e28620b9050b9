// Package writers turns typing results into serialized reports.
//
// Design:
//   - Writers own all presentation knowledge (CSV, pretty tables, JSON/JSONL/YAML).
//   - The matcher stays domain-only; appcore stays orchestration-only.
//   - JSON/JSONL/YAML go through pkg/api (v1) for a stable wire format.
package writers
