// Package timeouts defines shared timeout constants used across binaries.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long a server waits for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// HealthDial caps the wait for the gRPC health endpoint to answer SERVING.
const HealthDial = 3 * time.Second

// HealthCall caps a single gRPC health check round trip.
const HealthCall = time.Second
