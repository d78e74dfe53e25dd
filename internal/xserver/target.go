package xserver

import "strings"

// TargetHost extracts the host part of a display name such as
// "host:0.0", "tcp/host:1" or ":0". Local socket forms yield "".
func TargetHost(display string) string {
	if strings.HasPrefix(display, "/") {
		// launchd style socket path
		return ""
	}
	if i := strings.Index(display, "/"); i >= 0 {
		proto := display[:i]
		display = display[i+1:]
		if proto == "unix" {
			return ""
		}
	}
	i := strings.LastIndex(display, ":")
	if i < 0 {
		return ""
	}
	host := display[:i]
	// DECnet uses a double colon
	host = strings.TrimSuffix(host, ":")
	if host == "unix" {
		return ""
	}
	return host
}

// IsLocalTarget reports whether display names this machine: a local
// socket, the literal loopback name, or hostname itself.
func IsLocalTarget(display, hostname string) bool {
	host := TargetHost(display)
	return host == "" || host == "localhost" || host == hostname
}
