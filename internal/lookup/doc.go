// Package lookup is the entry point for resource questions.
//
// A lookup moves through four states and never loops back:
//
//	START -> PATTERN_RESOLVED -> LIVE_STATUS_ATTEMPTED -> RESPONSE_ASSEMBLED
//
// The owner and matched pattern come from the ownership resolver. Live status
// is taken from the pattern's handlerUrl when it declares one, and from the
// in-process registry when that produced nothing. Failed handler calls are
// recorded in the response as handler_error. A lookup with no live data has
// status "not_found" and a note saying whether the owner is known.
//
// Each lookup gets a lookup_id that also appears in the audit log.
//
// Only two conditions are errors: an empty id (ErrInvalidResourceID) and an
// unreachable catalog (*catalog.UnavailableError). The Service also serves
// the plain catalog queries the tool and REST surfaces expose.
package lookup
