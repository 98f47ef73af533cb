// Package client contains the client-side transport and bootstrap pieces of
// moodkeeper.
//
// # Overview
//
// The package provides:
//  1. GRPCClient, the gRPC implementation of remote.Store. It manages the
//     connection, injects the access token via an interceptor and maps gRPC
//     status codes to sentinel errors.
//  2. Local persistence bootstrap (InitDatabase, RunMigrations), which opens
//     the SQLite database and applies the embedded goose migrations.
//
// # Error Handling
//
// Transport conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrNoNamespace.
//
// All operations accept context.Context and honor cancellation.
package client
