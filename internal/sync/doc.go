// Package sync runs the agentsync pipeline: it reads the managed source
// directory, validates it, exports it through every target plugin in the
// working set, removes outputs a previous run generated that are no longer
// produced, writes the current outputs and records them in the manifest.
//
// # Working Set
//
// Targets requested explicitly win. Otherwise every target marked enabled in
// config.json is synced, and when none is enabled every registered target is
// synced:
//
//	syncer := sync.New(builtin.Registry())
//	results, err := syncer.Sync(ctx, sync.Options{RootDir: "."})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range results {
//	    fmt.Printf("%s: %d changed\n", r.Tool, r.TotalChanged())
//	}
//
// # Failure Semantics
//
// Unknown requested targets, parse failures and structural validation errors
// are reported before anything is written. A plugin or write failure aborts
// the remaining targets. An unreadable manifest only disables cleanup for the
// run.
//
// # Preview
//
// With DryRun set, every change is classified exactly as a real run would
// classify it, but nothing on disk is touched: no outputs, no deletions, no
// manifest and no ignore file.
package sync
