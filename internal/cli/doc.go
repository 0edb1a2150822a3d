// Package cli provides the interactive cabinkeeper command-line client.
//
// It wires configuration, the blob store, the entity store and the insight
// service, then runs a REPL over a single buffered reader. Typical flow: load
// state (printing any fallback warnings), start the optional calendar export
// scheduler, and execute user commands until exit or EOF.
//
// Commands cover everything the property manager does day to day:
//   - cabins, rename, photo
//   - list, add, edit, delete
//   - month, next, prev, today, day
//   - stats, insight, apikey, export
//
// The REPL is started via App.Run(ctx). See runREPL for the dispatch table.
package cli
