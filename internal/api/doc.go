// Package api is the HTTP client for the nutrition dashboard backend.
//
// Every operation takes a context, sends an X-Request-ID header and returns
// either a typed result or an error classified as one of:
//
//   - ErrNetwork: the request never produced a usable HTTP response
//   - ErrDecode: the response body was not the JSON shape expected
//   - *APIError: the backend answered with an error payload
//
// Empty result sets are not errors. Paginated endpoints return
// pagination.Page values whose invariants hold even when the backend
// reports zero pages.
package api
