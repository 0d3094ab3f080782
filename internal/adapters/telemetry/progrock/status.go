package progrock

import (
	"fmt"
	"sync"
	"time"

	"github.com/vito/progrock"
	"go.trai.ch/crate/internal/core/ports"
)

var _ progrock.Writer = (*StatusLog)(nil)

// StatusLog is a progrock.Writer that reports each finished vertex once through a logger.
type StatusLog struct {
	logger ports.Logger

	mu   sync.Mutex
	done map[string]bool
}

// NewStatusLog creates a new StatusLog.
func NewStatusLog(logger ports.Logger) *StatusLog {
	return &StatusLog{
		logger: logger,
		done:   make(map[string]bool),
	}
}

// WriteStatus implements progrock.Writer.
func (s *StatusLog) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range update.Vertexes {
		if v.Completed == nil || s.done[v.Id] || v.Name == PlanVertexName {
			continue
		}
		s.done[v.Id] = true

		var elapsed string
		if v.Started != nil {
			elapsed = v.Completed.AsTime().Sub(v.Started.AsTime()).Round(time.Millisecond).String()
		}

		switch {
		case v.Error != nil:
			s.logger.Warn(fmt.Sprintf("%s failed after %s: %s", v.Name, elapsed, *v.Error))
		case v.Cached:
			s.logger.Info(fmt.Sprintf("%s up to date", v.Name))
		default:
			s.logger.Info(fmt.Sprintf("%s finished in %s", v.Name, elapsed))
		}
	}
	return nil
}

// Close implements progrock.Writer.
func (s *StatusLog) Close() error {
	return nil
}
