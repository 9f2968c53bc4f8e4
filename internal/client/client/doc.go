// Package client talks to the remote document service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (Client) covering the service endpoints
//     used by the coordinator: list, upload, delete, query and a health probe.
//  2. An HTTP implementation (HTTPClient) that encodes JSON and multipart
//     requests, retries the idempotent document listing with exponential
//     backoff, and turns non-2xx replies into *APIError values.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens the
//     SQLite state database and applies the embedded goose migrations.
//
// # Error Handling
//
// Every failure of the document endpoints is an *APIError whose Kind is one
// of the common error kinds (common.ErrDirectoryFetchFailed,
// common.ErrUploadFailed, ...), so callers match with errors.Is. Message carries the server "detail" field when the
// body has one, else "HTTP <code> <status text>".
//
// The client enforces no timeout of its own; bound calls with the context.
package client
