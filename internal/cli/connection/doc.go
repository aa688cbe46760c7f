// Package connection issues Centric API requests.
//
// It contains the HTTP client, the error taxonomy for network and HTTP
// failures, and the request executor implementing the bounded
// re-authentication policy: at most two request attempts and at most
// one token refresh per invocation.
package connection
