// Package httpapi serves the REST catalog API, the GitOps catalog webhook,
// health and Prometheus metrics.
//
// Routes are registered on a gorilla/mux router by SetupRoutes. Wrap adds the
// CORS and OpenTelemetry middleware around the finished router. Errors are
// JSON objects of the form {"code": ..., "message": ...}; an unreachable
// catalog backend is reported as 503.
package httpapi
