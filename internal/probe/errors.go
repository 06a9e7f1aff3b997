package probe

import "errors"

// ErrInvalidProxy is returned by NewClient when the proxy URL cannot be
// parsed or uses an unsupported scheme. It is a fatal configuration error.
var ErrInvalidProxy = errors.New("invalid proxy: must be an http, https, socks5 or socks5h URL")
