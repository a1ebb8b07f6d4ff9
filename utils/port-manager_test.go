package utils

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPortAvailable(t *testing.T) {
	assert.True(t, IsPortAvailable("127.0.0.1", 0), "Port 0 should always be available (OS picks free port)")
}

func TestIsPortAvailable_PortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "Failed to create test listener")
	defer listener.Close()

	addr := listener.Addr().(*net.TCPAddr)
	assert.False(t, IsPortAvailable("127.0.0.1", addr.Port), "Port %d should be unavailable (in use)", addr.Port)
	assert.False(t, IsListenAddrAvailable(fmt.Sprintf("localhost:%d", addr.Port)))
}

func TestIsListenAddrAvailable_Invalid(t *testing.T) {
	assert.False(t, IsListenAddrAvailable("no-port"))
	assert.False(t, IsListenAddrAvailable("localhost:abc"))
}

func TestNormalizeListenAddr(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		wantErr  bool
	}{
		{"12000", ":12000", false},
		{"localhost:12000", "localhost:12000", false},
		{"0.0.0.0:13000", "0.0.0.0:13000", false},
		{":8080", ":8080", false},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeListenAddr(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClientURL(t *testing.T) {
	assert.Equal(t, "http://localhost:12000", ClientURL("12000"))
	assert.Equal(t, "http://localhost:12000", ClientURL(":12000"))
	assert.Equal(t, "http://10.0.0.2:9000", ClientURL("10.0.0.2:9000"))
}
