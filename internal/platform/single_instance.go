package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// InstanceGuard holds the single-instance lock for the lifetime of the
// process. The lock is a loopback port derived from the app name, so a
// crashed process releases it automatically.
type InstanceGuard struct {
	listener net.Listener
}

// AcquireSingleInstance attempts to bind the deterministic loopback port
// for appName.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener}, nil
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

func portFromName(appName string) int {
	const (
		minPort = 41000
		maxPort = 59999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(strings.ToLower(appName)))
	return minPort + int(hash.Sum32()%uint32(maxPort-minPort+1))
}
