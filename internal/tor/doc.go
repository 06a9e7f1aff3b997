// Package tor lets enumdir scan hidden services.
//
// It starts an embedded Tor daemon through tornago and exposes its SOCKS
// port as a proxy URL for the probe workers, checks that a configured SOCKS
// proxy answers the SOCKS5 handshake, and validates v3 onion host names
// before any request is sent.
package tor
