// Package logging is a background logging pipeline for long-running
// services: producers hand severity-tagged messages to a Logger, which
// filters them against a minimum severity, queues them and fans each one out
// to a fixed set of sinks from a dispatcher goroutine.
//
// Key features
//   - Constant-time, non-failing Log calls; the dispatcher is started on
//     demand and exits once the queue is empty
//   - Entries reach every sink exactly once, in enqueue order; sinks of one
//     entry run concurrently
//   - A failing or panicking sink never affects the others: the failure is
//     logged back as an Error entry (rate limited, never recursively)
//   - Sinks: colourised console, size-rotated files with count-based
//     retention, systemd journal, and a zerolog/lumberjack JSON archive
//   - Service lifecycle with validated Config, bounded drain on Close and a
//     SIGINT/SIGTERM safety net that releases file handles
//
// Typical usage
//
//	cfg := logging.DefaultConfig()
//	svc := logging.NewService(workDir, &cfg)
//	if err := svc.Initialize(); err != nil { panic(err) }
//	defer svc.Close()
//
//	log := svc.Logger()
//	log.Infof("(App | Initialization): %s", "ready")
//
// A rendered line looks like
//
//	[2024/05/01 13:37:00.123] INFO: (App | Initialization): ready
package logging
