//go:build !unix && !windows

package network

import "net"

// ReuseAddrListenConfig returns a plain listen config on platforms without
// SO_REUSEADDR.
func ReuseAddrListenConfig() net.ListenConfig {
	return net.ListenConfig{}
}
