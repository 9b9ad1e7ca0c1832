// Package portutil picks local TCP ports for daemons so that concurrent hosts do not collide.
package portutil

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"syscall"

	"github.com/jolt-ai/jolt-host/src/jolt/internal/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// DefaultPort is the first port handed out to a daemon.
	DefaultPort = 56580
	// AllowedConcurrentInstances is how many ports past DefaultPort may be used.
	AllowedConcurrentInstances = 15
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Allocator finds free ports and checks whether a daemon is listening on one.
type Allocator interface {
	// FindAvailablePort returns the first port in [start, end] that can be bound, or start if none can.
	FindAvailablePort(start, end int) int
	// IsPortActive reports whether port is currently bound by some process.
	IsPortActive(port int) bool
	// Allocate reserves a free port in the default range for owner. Repeated calls for the same owner return the same port.
	Allocate(owner string) int
	// Release frees the port reserved for owner.
	Release(owner string)
}

// Params define values to be used by Allocator.
type Params struct {
	fx.In

	Logger   *zap.SugaredLogger
	Reporter telemetry.Reporter
}

type listenFunc func(network, address string) (net.Listener, error)

type allocator struct {
	logger   *zap.SugaredLogger
	reporter telemetry.Reporter
	listen   listenFunc

	mu        sync.Mutex
	allocated map[string]int
}

// New creates an Allocator backed by real TCP listeners.
func New(p Params) Allocator {
	return &allocator{
		logger:    p.Logger.With("component", "portutil"),
		reporter:  p.Reporter,
		listen:    net.Listen,
		allocated: make(map[string]int),
	}
}

func (a *allocator) FindAvailablePort(start, end int) int {
	return a.findAvailablePort(start, end, nil)
}

func (a *allocator) findAvailablePort(start, end int, skip map[int]bool) int {
	for port := start; port <= end; port++ {
		if skip[port] {
			continue
		}
		l, err := a.listen("tcp", address(port))
		if err != nil {
			if !isAddrInUse(err) {
				a.logger.Warnw("unexpected error probing port", "port", port, zap.Error(err))
				a.reporter.CaptureException(fmt.Errorf("probing port %d: %w", port, err))
			}
			continue
		}
		l.Close()
		return port
	}
	return start
}

func (a *allocator) IsPortActive(port int) bool {
	l, err := a.listen("tcp", address(port))
	if err != nil {
		return isAddrInUse(err)
	}
	l.Close()
	return false
}

func (a *allocator) Allocate(owner string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if port, ok := a.allocated[owner]; ok {
		return port
	}

	// Ports handed to daemons that have not bound yet would still probe as free.
	reserved := make(map[int]bool, len(a.allocated))
	for _, port := range a.allocated {
		reserved[port] = true
	}
	port := a.findAvailablePort(DefaultPort, DefaultPort+AllowedConcurrentInstances, reserved)
	a.allocated[owner] = port
	a.logger.Infow("allocated port", "owner", owner, "port", port)
	return port
}

func (a *allocator) Release(owner string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.allocated, owner)
}

func address(port int) string {
	return fmt.Sprintf(":%d", port)
}

func isAddrInUse(err error) bool {
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	// Windows reports WSAEADDRINUSE, which does not match syscall.EADDRINUSE.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "address already in use") ||
		strings.Contains(msg, "only one usage of each socket address")
}
