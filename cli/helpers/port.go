package helpers

import (
	"context"
	"net"
	"strconv"
)

// EnsurePortAvailable checks host:port with a throwaway listener so serve can
// fail with PORT_IN_USE before gin starts.
func EnsurePortAvailable(ctx context.Context, host string, port int) error {
	addr := listenAddress(host, port)
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return NewCliError("PORT_IN_USE", "cannot listen on "+addr, err.Error()).
			WithContext("host", host).
			WithContext("port", port).
			WithCause(err)
	}
	return ln.Close()
}

func listenAddress(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
