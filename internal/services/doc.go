// Package services implements the use-case layer between transports and the
// lead-time pipeline. Both the HTTP API and the batch CLI go through it, so an
// upload analyzed over HTTP and a file analyzed from the command line produce
// the same documents.
//
// # Services
//
//	AnalysisService  runs analyses and renders CSV, JSON, XLSX and the
//	                 assistant context, or writes them all to a directory
//	HealthService    reports liveness, version and batch cache counters
//
// Services take their collaborators and a *slog.Logger through their
// constructors and carry a context.Context on every blocking call.
package services
