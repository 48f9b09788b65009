// Package api contains the transport layer of the Campus Connect client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering the
//     backend's auth, user, resource, group and messaging operations.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the
//     bearer credential to every outbound request, maps transport failures
//     to sentinel errors, and intercepts unauthorized responses globally:
//     any HTTP 401 received on an authenticated call clears the attached
//     credential and fires the registered OnUnauthorized hook before the
//     error is returned. No caller can opt out of that interception.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrInvalidCredentials,
// ErrNotFound.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation; request timeouts come from the
// configured http.Client, the methods impose none of their own.
package api
