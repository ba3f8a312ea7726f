package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"

	"catalog-keeper/internal/config"
	"catalog-keeper/internal/logger"
)

type ListenAddr struct {
	Network string
	Address string
}

/**
 * Test if the system supports Unix socket network type
 * @returns {bool} Returns true if Unix socket is supported, false otherwise
 * @description
 * - Always true on linux and darwin
 * - On windows creates and removes a temporary socket
 */
func IsUnixSocketSupported() bool {
	if runtime.GOOS != "windows" {
		return true
	}
	testSocketPath := filepath.Join(os.TempDir(), "catalog_keeper_test.sock")
	os.Remove(testSocketPath)

	listener, err := net.Listen("unix", testSocketPath)
	if err != nil {
		return false
	}
	listener.Close()
	os.Remove(testSocketPath)
	return true
}

// listenAddrs 根据配置生成侦听地址列表，地址为空的项被忽略
func listenAddrs(cfg *config.ServerConfig) []ListenAddr {
	var addrs []ListenAddr
	if cfg.Address != "" {
		addrs = append(addrs, ListenAddr{Network: "tcp", Address: cfg.Address})
	}
	if cfg.Socket != "" {
		if IsUnixSocketSupported() {
			addrs = append(addrs, ListenAddr{Network: "unix", Address: cfg.Socket})
		} else {
			logger.Warnf("Unix socket is not supported on this system, '%s' ignored", cfg.Socket)
		}
	}
	return addrs
}

/**
 * Create TCP and Unix socket listeners
 * @param {[]ListenAddr} addrs - Listener Address
 * @returns {[]net.Listener} Array of created listeners
 * @returns {error} Last listener creation error, if any
 * @description
 * - A failing address is logged and skipped, the others are still created
 * - Stale socket files are removed and the socket directory is created
 */
func CreateListeners(addrs []ListenAddr) ([]net.Listener, error) {
	var listeners []net.Listener

	var lastErr error
	for _, addr := range addrs {
		if addr.Network == "unix" {
			if err := os.MkdirAll(filepath.Dir(addr.Address), 0755); err != nil {
				logger.Errorf("Failed to create socket directory: %v", err)
				lastErr = err
				continue
			}
			if err := os.Remove(addr.Address); err != nil && !os.IsNotExist(err) {
				logger.Errorf("Failed to remove existing socket file: %v", err)
				lastErr = err
				continue
			}
		}
		l, err := net.Listen(addr.Network, addr.Address)
		if err != nil {
			logger.Errorf("Failed to create listener on %s://%s: %v", addr.Network, addr.Address, err)
			lastErr = err
			continue
		}
		listeners = append(listeners, l)
	}
	return listeners, lastErr
}

// openListeners 创建配置的全部侦听器; 部分失败时告警并继续, 全部失败时返回错误
func openListeners(cfg *config.ServerConfig) ([]net.Listener, error) {
	listeners, err := CreateListeners(listenAddrs(cfg))
	if len(listeners) == 0 {
		if err == nil {
			err = errors.New("no listen address configured")
		}
		return nil, fmt.Errorf("failed to start listeners: %w", err)
	}
	if err != nil {
		logger.Warnf("Some listeners failed to start, serving on %d: %v", len(listeners), err)
	}
	return listeners, nil
}
