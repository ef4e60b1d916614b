// Package api serves bump layouts over HTTP.
//
// # Routes
//
//	GET    /healthz                          liveness probe
//	GET    /version                          build information
//	GET    /v1/modes                         accepted mode names
//	GET    /v1/layouts?track=&limit=         stored layouts, newest first
//	POST   /v1/layouts                       lay out a track and store the result
//	GET    /v1/layouts/{id}                  one stored layout
//	DELETE /v1/layouts/{id}                  remove a stored layout
//	GET    /v1/layouts/{id}/features?start=&end=
//	                                         placements overlapping a range
//	GET    /v1/layouts/{id}/graph?format=    overlap graph as DOT or SVG
//
// Each POST builds a fresh track from the request body and hands it to the
// shared [pipeline.Runner], so identical requests are served from the
// layout cache. A pass that overflows the coordinate ceiling is still
// stored and returned with 201; the layout carries success=false and the
// warning.
//
// Errors are returned as {"code": ..., "message": ...} with the status
// derived from the error code.
package api
