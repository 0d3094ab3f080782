// Package scheduler runs build nodes in parallel and skips the ones whose inputs are unchanged.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"go.trai.ch/crate/internal/core/domain"
	"go.trai.ch/crate/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Node is a unit of work the scheduler can run.
type Node interface {
	Name() string
	Task() *domain.Task
	Status() domain.TaskStatus
	MarkCached() error
	Run(ctx context.Context, stdout, stderr io.Writer) error
}

// Options control a single Run.
type Options struct {
	// Root is the project root the build info is recorded under.
	Root string
	// Parallelism caps the number of nodes running at once; zero means one per CPU.
	Parallelism int
	// NoCache runs every node regardless of recorded build info.
	NoCache bool
}

// Scheduler manages the execution of build nodes.
type Scheduler struct {
	hasher   ports.Hasher
	store    ports.BuildInfoStore
	verifier ports.Verifier
	tracer   ports.Tracer
	logger   ports.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	hasher ports.Hasher,
	store ports.BuildInfoStore,
	verifier ports.Verifier,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		hasher:   hasher,
		store:    store,
		verifier: verifier,
		tracer:   tracer,
		logger:   logger,
	}
}

// Run executes the nodes with at most opts.Parallelism running at a time.
// A failing node does not stop the others; every failure is returned, joined, in node order.
func (s *Scheduler) Run(ctx context.Context, nodes []Node, opts Options) error {
	if err := validate(nodes); err != nil {
		return err
	}

	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name()
	}
	s.tracer.EmitPlan(ctx, names)

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	errs := make([]error, len(nodes))
	var g errgroup.Group
	g.SetLimit(parallelism)
	for i, n := range nodes {
		g.Go(func() error {
			if err := s.runNode(ctx, n, opts); err != nil {
				errs[i] = zerr.With(zerr.Wrap(err, "task execution failed"), "task", n.Name())
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// validate rejects plans where two nodes share a name or would write the same output.
func validate(nodes []Node) error {
	names := make(map[string]bool, len(nodes))
	outputs := make(map[string]string, len(nodes))
	for _, n := range nodes {
		name := n.Name()
		if names[name] {
			return zerr.With(zerr.Wrap(domain.ErrTaskAlreadyExists, "invalid build plan"), "task", name)
		}
		names[name] = true

		out := n.Task().Output.String()
		if prev, ok := outputs[out]; ok {
			err := zerr.With(zerr.Wrap(domain.ErrDuplicateOutput, "invalid build plan"), "output", out)
			return zerr.With(zerr.With(err, "task", name), "other_task", prev)
		}
		outputs[out] = name
	}
	return nil
}

func (s *Scheduler) runNode(ctx context.Context, n Node, opts Options) (err error) {
	ctx, span := s.tracer.Start(ctx, n.Name())
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	task := n.Task()
	span.SetAttribute("output", task.Output.String())

	inputHash, err := s.hasher.ComputeInputHash(task)
	if err != nil {
		return errors.Join(domain.ErrInputHashComputationFailed, err)
	}

	if !opts.NoCache && s.upToDate(opts.Root, task, inputHash) {
		if err := n.MarkCached(); err != nil {
			return err
		}
		span.Cached()
		s.logger.Debug(fmt.Sprintf("%s is up to date", n.Name()))
		return nil
	}

	s.logger.Info(fmt.Sprintf("building %s", n.Name()))
	if err := n.Run(ctx, span, span); err != nil {
		return err
	}

	return s.record(opts.Root, task, inputHash)
}

// upToDate reports whether the recorded build matches inputHash and its output is still intact.
func (s *Scheduler) upToDate(root string, task *domain.Task, inputHash string) bool {
	info, err := s.store.Get(root, task.Name.String())
	if err != nil {
		s.logger.Warn(fmt.Sprintf("ignoring build info for %s: %v", task.Name, err))
		return false
	}
	if info == nil || info.InputHash != inputHash {
		return false
	}

	output := task.Output.String()
	ok, err := s.verifier.VerifyOutputs([]string{output})
	if err != nil || !ok {
		return false
	}

	outputHash, err := s.hasher.ComputeFileHash(output)
	if err != nil {
		return false
	}
	return formatHash(outputHash) == info.OutputHash
}

func (s *Scheduler) record(root string, task *domain.Task, inputHash string) error {
	outputHash, err := s.hasher.ComputeFileHash(task.Output.String())
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to compute output hash"), "output", task.Output.String())
	}

	return s.store.Put(root, domain.BuildInfo{
		TaskName:   task.Name.String(),
		InputHash:  inputHash,
		OutputHash: formatHash(outputHash),
		Timestamp:  time.Now(),
	})
}

func formatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}
