// Spyglass is an instrumented HTTP service exposing operational
// telemetry and a read path for recent application logs.
//
// Usage:
//
//	# Start with default configuration
//	spyglass run
//
//	# Start with a custom configuration file
//	spyglass run --config /etc/spyglass/spyglass.yaml
//
//	# Show version information
//	spyglass version
package main

func main() {
	Execute()
}
