// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/crate/internal/core/ports"
)

var _ ports.Tracer = (*Recorder)(nil)

// PlanVertexName names the vertex that lists the nodes of a build.
const PlanVertexName = "plan"

// Recorder implements ports.Tracer with one progrock vertex per span.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a new Recorder whose status updates are reported through logger.
func New(logger ports.Logger) *Recorder {
	return NewRecorder(NewStatusLog(logger))
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Start opens a vertex named after the span.
func (r *Recorder) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	v := r.rec.Vertex(digest.FromString(name), name)
	return ctx, &Vertex{vertex: v}
}

// EmitPlan records a completed vertex whose output lists the planned nodes.
func (r *Recorder) EmitPlan(_ context.Context, taskNames []string) {
	v := r.rec.Vertex(digest.FromString(PlanVertexName+"\x00"+strings.Join(taskNames, "\x00")), PlanVertexName)
	for _, name := range taskNames {
		_, _ = fmt.Fprintln(v.Stdout(), name)
	}
	v.Done(nil)
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.rec.Close()
}

// Vertex implements ports.Span wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder

	mu  sync.Mutex
	err error
}

// Write streams subprocess output into the vertex.
func (v *Vertex) Write(p []byte) (int, error) {
	return v.vertex.Stdout().Write(p)
}

// SetAttribute records a key-value pair as a line of vertex output.
func (v *Vertex) SetAttribute(key string, value any) {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%s] %v\n", key, value)
}

// RecordError keeps err to mark the vertex failed when it ends.
func (v *Vertex) RecordError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = err
}

// Cached marks the vertex as a cache hit.
func (v *Vertex) Cached() {
	v.vertex.Cached()
}

// End completes the vertex, successfully or with the recorded error.
func (v *Vertex) End() {
	v.mu.Lock()
	err := v.err
	v.mu.Unlock()
	v.vertex.Done(err)
}
