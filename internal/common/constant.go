// Package common contains shared constants and sentinel errors used across
// moodkeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// UserNamespacePrefix is the root of every per-user document path.
const UserNamespacePrefix = "users/"
