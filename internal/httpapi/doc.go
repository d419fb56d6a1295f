// Package httpapi is the HTTP transport adapter over the sift service.
//
// Routes:
//
//	POST   /strings                                  analyze and store
//	GET    /strings                                  list with structured filters
//	GET    /strings/filter-by-natural-language       list with a free-text query
//	GET    /strings/{string_value}                   fetch one record
//	DELETE /strings/{string_value}                   delete one record
//	GET    /healthz                                  liveness
//	GET    /metrics                                  Prometheus exposition
//
// Status mapping:
//   - InvalidInput    -> 400
//   - AlreadyExists   -> 409
//   - not found       -> 404
//   - non-string JSON value on create -> 422
//   - natural-language query with no matches -> 422
//
// Error bodies are {"error": "<message>"}.
package httpapi
