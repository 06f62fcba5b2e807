// Package resource holds the live-status side of resource lookups.
//
// ResourceInfo is the payload: a required id and status plus an ordered bag
// of extra fields whose shape is owned by whoever produced it.
//
// Live status comes from two places:
//
//   - HTTPFetcher calls the handlerUrl a catalog pattern declares, with the
//     resource id substituted for ${id}, bounded by a timeout.
//   - Registry holds in-process Handler functions registered per pattern at
//     startup, for example the Kubernetes adapter.
//
// Neither source ever turns a missing or broken handler into a lookup
// failure. The fetcher returns a *HandlerError the caller records as data;
// the registry reports absent.
package resource
