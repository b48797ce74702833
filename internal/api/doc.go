// Package api provides the HTTP client for the HiCrew REST API.
//
// The client exposes a uniform collection contract (List, Create, Update,
// Delete) used by every resource manager, plus the auth endpoints. All calls:
//
//   - resolve paths against the configured base URL
//   - attach the bearer token from the session when one exists
//   - carry a generated X-Request-ID header for log correlation
//   - decode JSON with json.Number so record identifiers stay stable
//
// Response conventions: created/updated records arrive wrapped under a
// resource-named key ({"aircraft": {...}}); collections arrive wrapped or as
// bare arrays; failures carry {"error": "..."}.
//
// Error handling distinguishes the taxonomy the UI depends on:
//
//   - 401 on an authorized call invalidates the session (the only globally
//     handled failure) and surfaces a re-login message
//   - other 4xx/5xx become *Error with the server message or a fallback
//   - transport failures are wrapped and rendered via UserMessage
//
// The client is safe for concurrent use. Requests are not cancellable beyond
// the passed context and the 10 second client timeout.
package api
