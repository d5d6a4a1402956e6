// Package app wires the lead-time HTTP service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, the YAML file and LEADTIME_* variables
//	2. Initialize logging and OpenTelemetry
//	3. Build the pipeline and the services on top of it
//	4. Set up middleware and routes on a chi router
//	5. Create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// Server.ShutdownTimeout and flushes telemetry. Initialization errors are
// returned to the caller; the package never calls os.Exit.
package app
