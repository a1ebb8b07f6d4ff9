package commands

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/dogfinder/dogfinder/config"
	"github.com/dogfinder/dogfinder/utils"
)

type DoctorInfo struct {
	DogfinderVersion string  `json:"dogfinder_version"`
	OS               string  `json:"os"`
	OSVersion        string  `json:"os_version"`
	ConfigPath       string  `json:"config_path"`
	ConfigLoaded     bool    `json:"config_loaded"`
	DataDir          string  `json:"data_dir,omitempty"`
	StoreBackend     string  `json:"store_backend"`
	StoreReachable   bool    `json:"store_reachable"`
	StoreError       string  `json:"store_error,omitempty"`
	APIBaseURL       string  `json:"api_base_url"`
	APIKeySource     string  `json:"api_key_source"`
	CatalogReachable bool    `json:"catalog_reachable"`
	CatalogBreeds    int     `json:"catalog_breeds,omitempty"`
	CatalogError     string  `json:"catalog_error,omitempty"`
	GestureThreshold float64 `json:"gesture_threshold"`
	ServerListen     string  `json:"server_listen"`
	ServerListenFree bool    `json:"server_listen_free"`
}

func getOSVersion() string {
	if runtime.GOOS != "linux" {
		return ""
	}
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "PRETTY_NAME=") {
			return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\"")
		}
	}
	return ""
}

func getAPIKeySource(cfg *config.Config) string {
	if os.Getenv("DOGFINDER_API_KEY") != "" {
		return "env"
	}
	if key, err := config.KeyringAPIKey(); err == nil && key == cfg.API.Key {
		return "keyring"
	}
	if cfg.API.Key != "" {
		return "config"
	}
	return "none"
}

// DoctorCommand performs diagnostics and returns information about the environment
func DoctorCommand(ctx context.Context, version string) *CommandResponse {
	a, err := requireApp()
	if err != nil {
		return NewErrorResponse(err)
	}
	cfg := a.Config

	info := DoctorInfo{
		DogfinderVersion: version,
		OS:               runtime.GOOS,
		OSVersion:        getOSVersion(),
		ConfigPath:       cfg.Path,
		ConfigLoaded:     cfg.Path != "",
		StoreBackend:     a.Backend,
		APIBaseURL:       a.Catalog.BaseURL(),
		APIKeySource:     getAPIKeySource(cfg),
		GestureThreshold: cfg.Gesture.Threshold,
	}
	if info.ConfigPath == "" {
		info.ConfigPath = config.DefaultPath()
	}

	if dir, err := utils.DataDir(); err == nil {
		info.DataDir = dir
	}

	if _, err := a.Store.Load(ctx); err != nil {
		info.StoreError = err.Error()
	} else {
		info.StoreReachable = true
	}

	if addr, err := utils.NormalizeListenAddr(cfg.Server.Listen); err == nil {
		info.ServerListen = addr
		info.ServerListenFree = utils.IsListenAddrAvailable(addr)
	}

	breeds, err := listBreeds(ctx, a)
	if err != nil {
		info.CatalogError = err.Error()
	} else {
		info.CatalogReachable = true
		info.CatalogBreeds = breeds
	}

	return NewSuccessResponse(info)
}

func listBreeds(ctx context.Context, a *App) (int, error) {
	client, err := a.CatalogClient()
	if err != nil {
		return 0, err
	}
	breeds, err := client.ListBreeds(ctx)
	if err != nil {
		return 0, err
	}
	return len(breeds), nil
}
