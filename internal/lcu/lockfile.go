package lcu

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Auth is the connection info the League client writes to its lockfile as
// name:pid:port:password:protocol.
type Auth struct {
	Name     string
	PID      int
	Port     int
	Password string
	Protocol string
}

// ReadLockfile reads and parses the lockfile at path. A missing file means
// the client is not running and is reported as ErrUnavailable.
func ReadLockfile(path string) (Auth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Auth{}, fmt.Errorf("read lockfile %s: %w", path, ErrUnavailable)
		}
		return Auth{}, fmt.Errorf("read lockfile: %w", err)
	}
	return ParseLockfile(string(data))
}

func ParseLockfile(content string) (Auth, error) {
	parts := strings.Split(strings.TrimSpace(content), ":")
	if len(parts) != 5 {
		return Auth{}, fmt.Errorf("parse lockfile: want 5 fields, got %d", len(parts))
	}
	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return Auth{}, fmt.Errorf("parse lockfile pid: %w", err)
	}
	port, err := strconv.Atoi(parts[2])
	if err != nil {
		return Auth{}, fmt.Errorf("parse lockfile port: %w", err)
	}
	if port <= 0 || port > 65535 {
		return Auth{}, fmt.Errorf("parse lockfile: port %d out of range", port)
	}
	if parts[3] == "" {
		return Auth{}, fmt.Errorf("parse lockfile: empty password")
	}
	return Auth{
		Name:     parts[0],
		PID:      pid,
		Port:     port,
		Password: parts[3],
		Protocol: parts[4],
	}, nil
}
