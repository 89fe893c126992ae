// Package writers turns query results into serialized outputs.
//
// Writers own all presentation knowledge (classic text, pretty blocks,
// TSV, JSON/JSONL). JSON and JSONL go through pkg/api (v1) for a stable
// wire format. Each writer runs in its own goroutine fed by a channel.
package writers
