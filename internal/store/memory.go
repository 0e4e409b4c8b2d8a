package store

import (
	"context"

	"github.com/charmbracelet/log"
)

// MemoryDatabaseName is reported by the memory backend's DatabaseNames.
const MemoryDatabaseName = "memory"

// Memory is a process-local backend. It holds no connections; collections
// built on it keep their own state.
type Memory struct {
	logger *log.Logger
}

// NewMemory constructs the in-memory backend.
func NewMemory(logger *log.Logger) *Memory {
	logger = loggerOrDefault(logger)
	logger.Warn("store: using in-memory backend, data is lost on exit")
	return &Memory{logger: logger}
}

func (s *Memory) Driver() string { return DriverMemory }

func (s *Memory) HealthCheck(ctx context.Context) error { return ctx.Err() }

func (s *Memory) DatabaseNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []string{MemoryDatabaseName}, nil
}

func (s *Memory) Close() {}
