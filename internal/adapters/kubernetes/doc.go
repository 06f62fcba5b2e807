// Package kubernetes provides live-status handlers backed by the Kubernetes
// API.
//
// Each configured handler maps a catalog pattern to one workload kind in one
// namespace. The resource id, after an optional prefix is stripped, is the
// object name. Deployments, Pods and Jobs are supported. Missing objects
// report no status rather than an error, so the lookup falls back to
// not_found.
//
// Handlers are registered into a resource.Registry at startup and are not
// referenced from anywhere else.
package kubernetes
