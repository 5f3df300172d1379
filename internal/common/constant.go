// Package common contains shared constants and sentinel errors used across
// the editor and the draft service.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the partner
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"
