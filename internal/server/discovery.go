package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const serverInfoFile = "server.json"

// ServerInfo is the discovery record a running server leaves in the
// config directory so frontends can find the websocket endpoint without
// being told the port.
type ServerInfo struct {
	Addr string `json:"addr"`
	Auth bool   `json:"auth"`
	PID  int    `json:"pid"`
}

// WriteServerInfo publishes the record atomically into dir.
func WriteServerInfo(dir, addr string, auth bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	info := ServerInfo{Addr: addr, Auth: auth, PID: os.Getpid()}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, serverInfoFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadServerInfo loads the record from dir.
func ReadServerInfo(dir string) (*ServerInfo, error) {
	data, err := os.ReadFile(filepath.Join(dir, serverInfoFile))
	if err != nil {
		return nil, fmt.Errorf("no server info: %w", err)
	}
	var info ServerInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("invalid server info: %w", err)
	}
	return &info, nil
}

// RemoveServerInfo clears the record, typically on shutdown.
func RemoveServerInfo(dir string) error {
	err := os.Remove(filepath.Join(dir, serverInfoFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
