package commands

import (
	"fmt"
	"strings"

	"github.com/dogfinder/dogfinder/config"
)

// SetAPIKeyCommand stores the catalog API key in the OS keyring
func SetAPIKeyCommand(key string) *CommandResponse {
	key = strings.TrimSpace(key)
	if err := config.SaveAPIKey(key); err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(map[string]interface{}{
		"message": "API key saved",
		"key":     MaskKey(key),
	})
}

// APIKeyCommand shows the stored API key, masked unless reveal is set
func APIKeyCommand(reveal bool) *CommandResponse {
	key, err := config.KeyringAPIKey()
	if err != nil {
		return NewErrorResponse(err)
	}
	if !reveal {
		key = MaskKey(key)
	}
	return NewSuccessResponse(map[string]interface{}{"key": key})
}

// RemoveAPIKeyCommand deletes the API key from the OS keyring
func RemoveAPIKeyCommand() *CommandResponse {
	if err := config.DeleteAPIKey(); err != nil {
		return NewErrorResponse(fmt.Errorf("no API key stored"))
	}
	return NewSuccessResponse(map[string]interface{}{"message": "API key removed"})
}

// MaskKey keeps the first and last four characters of key.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
