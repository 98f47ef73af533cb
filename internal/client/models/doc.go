// Package models defines the client-side records kept in sync between the
// local store and the remote document store: mood entries, journal sessions,
// the user profile and the two memory documents.
//
// Records arrive from storage in loosely-typed shapes. Each record has an
// input type with optional fields and a Normalize function that fills derived
// fields and defaults, so the rest of the client only sees canonical values.
package models
