// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"
	"errors"
	"os"
)

// FileChecker reports whether a file is readable. A missing file is only
// degraded when optional is set.
type FileChecker struct {
	name     string
	path     string
	optional bool
}

// NewFileChecker creates a checker for path.
func NewFileChecker(name, path string, optional bool) *FileChecker {
	return &FileChecker{name: name, path: path, optional: optional}
}

func (c *FileChecker) Name() string { return c.name }

func (c *FileChecker) Check(_ context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{Status: StatusHealthy, Message: "not configured (optional)"}
	}
	info, err := os.Stat(c.path)
	if errors.Is(err, os.ErrNotExist) {
		if c.optional {
			return CheckResult{Status: StatusDegraded, Message: "file not created yet: " + c.path}
		}
		return CheckResult{Status: StatusUnhealthy, Error: "file not found", Message: c.path}
	}
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "expected file, got directory"}
	}
	f, err := os.Open(c.path) // #nosec G304 -- operator-configured path
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	_ = f.Close()
	return CheckResult{Status: StatusHealthy, Message: "file exists and readable"}
}

// DirWritableChecker reports whether files can be created in a directory.
type DirWritableChecker struct {
	name string
	path string
}

// NewDirWritableChecker creates a checker for dir.
func NewDirWritableChecker(name, dir string) *DirWritableChecker {
	return &DirWritableChecker{name: name, path: dir}
}

func (c *DirWritableChecker) Name() string { return c.name }

func (c *DirWritableChecker) Check(_ context.Context) CheckResult {
	if err := checkWritableDir(c.path); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error(), Message: c.path}
	}
	return CheckResult{Status: StatusHealthy, Message: "directory writable"}
}

// BreakerChecker reports a circuit breaker state. An open breaker degrades
// the service: cached feeds are still served.
type BreakerChecker struct {
	name  string
	state func() string
}

// NewBreakerChecker creates a checker reading the state label from state.
func NewBreakerChecker(name string, state func() string) *BreakerChecker {
	return &BreakerChecker{name: name, state: state}
}

func (c *BreakerChecker) Name() string { return c.name }

func (c *BreakerChecker) Check(_ context.Context) CheckResult {
	switch s := c.state(); s {
	case "open":
		return CheckResult{Status: StatusDegraded, Message: "circuit open, upstream failing"}
	case "half-open":
		return CheckResult{Status: StatusDegraded, Message: "circuit half-open, probing upstream"}
	default:
		return CheckResult{Status: StatusHealthy, Message: "circuit " + s}
	}
}

// PingChecker wraps a ping function such as a Redis health check. Failures
// degrade the service.
type PingChecker struct {
	name string
	ping func(ctx context.Context) error
}

// NewPingChecker creates a checker calling ping.
func NewPingChecker(name string, ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if err := c.ping(ctx); err != nil {
		return CheckResult{Status: StatusDegraded, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: "reachable"}
}
