// Package http contains the chi handlers that expose the loaded tables,
// derived summaries and exports as a JSON API. Handlers translate
// service errors into RFC 7807 problem responses and hold no business
// logic of their own.
package http
