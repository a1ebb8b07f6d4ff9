package utils

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// NormalizeListenAddr turns a bare port ("12000") into ":12000" and leaves
// host:port forms untouched.
func NormalizeListenAddr(addr string) (string, error) {
	if strings.Contains(addr, ":") {
		return addr, nil
	}

	port, err := strconv.Atoi(addr)
	if err != nil {
		return "", fmt.Errorf("invalid port: %v", err)
	}
	return fmt.Sprintf(":%d", port), nil
}

// ClientURL returns the http base URL a client should dial for a listen address.
func ClientURL(addr string) string {
	if !strings.Contains(addr, ":") {
		if _, err := strconv.Atoi(addr); err == nil {
			addr = ":" + addr
		}
	}

	// if address starts with colon, prepend localhost
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	return "http://" + addr
}

// IsPortAvailable reports whether a tcp4 listener can bind host:port.
func IsPortAvailable(host string, port int) bool {
	Verbose("Checking if port %d is available on %s", port, host)
	listener, err := net.ListenTCP("tcp4", &net.TCPAddr{IP: net.ParseIP(host), Port: port})
	if err != nil {
		Verbose("error: %v", err)
		return false
	}

	defer listener.Close()
	return true
}

// IsListenAddrAvailable checks a listen address as accepted by NormalizeListenAddr.
func IsListenAddrAvailable(addr string) bool {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return false
	}

	switch host {
	case "", "localhost":
		host = "127.0.0.1"
	}
	return IsPortAvailable(host, port)
}
