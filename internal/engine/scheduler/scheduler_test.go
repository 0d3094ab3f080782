package scheduler_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/crate/internal/adapters/telemetry"
	"go.trai.ch/crate/internal/core/domain"
	"go.trai.ch/crate/internal/core/ports/mocks"
	"go.trai.ch/crate/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type fakeNode struct {
	name   string
	output string
	run    func(ctx context.Context, stdout, stderr io.Writer) error

	mu     sync.Mutex
	status domain.TaskStatus
	runs   int
}

func newFakeNode(name, output string) *fakeNode {
	return &fakeNode{name: name, output: output, status: domain.StatusPending}
}

func (n *fakeNode) Name() string { return n.name }

func (n *fakeNode) Task() *domain.Task {
	return &domain.Task{
		Name:   domain.NewInternedString(n.name),
		Output: domain.NewInternedString(n.output),
	}
}

func (n *fakeNode) Status() domain.TaskStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status
}

func (n *fakeNode) MarkCached() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = domain.StatusCached
	return nil
}

func (n *fakeNode) Run(ctx context.Context, stdout, stderr io.Writer) error {
	n.mu.Lock()
	n.runs++
	n.mu.Unlock()

	var err error
	if n.run != nil {
		err = n.run(ctx, stdout, stderr)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		n.status = domain.StatusFailed
	} else {
		n.status = domain.StatusCompleted
	}
	return err
}

type harness struct {
	hasher   *mocks.MockHasher
	store    *mocks.MockBuildInfoStore
	verifier *mocks.MockVerifier
	logger   *mocks.MockLogger
	s        *scheduler.Scheduler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		hasher:   mocks.NewMockHasher(ctrl),
		store:    mocks.NewMockBuildInfoStore(ctrl),
		verifier: mocks.NewMockVerifier(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	h.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	h.s = scheduler.NewScheduler(h.hasher, h.store, h.verifier, telemetry.NewNoOpTracer(), h.logger)
	return h
}

const root = "/work/watchface"

func TestScheduler_Run_BuildsAndRecords(t *testing.T) {
	h := newHarness(t)
	node := newFakeNode("basalt/hello", "/out/basalt/hello.elf")

	h.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("in-1", nil)
	h.store.EXPECT().Get(root, "basalt/hello").Return(nil, nil)
	h.hasher.EXPECT().ComputeFileHash("/out/basalt/hello.elf").Return(uint64(0xdeadbeef), nil)
	h.store.EXPECT().Put(root, gomock.Any()).DoAndReturn(func(_ string, info domain.BuildInfo) error {
		assert.Equal(t, "basalt/hello", info.TaskName)
		assert.Equal(t, "in-1", info.InputHash)
		assert.Equal(t, "00000000deadbeef", info.OutputHash)
		assert.False(t, info.Timestamp.IsZero())
		return nil
	})

	err := h.s.Run(context.Background(), []scheduler.Node{node}, scheduler.Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, node.Status())
	assert.Equal(t, 1, node.runs)
}

func TestScheduler_Run_CacheHit(t *testing.T) {
	h := newHarness(t)
	node := newFakeNode("basalt/hello", "/out/basalt/hello.elf")

	h.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("in-1", nil)
	h.store.EXPECT().Get(root, "basalt/hello").Return(&domain.BuildInfo{
		TaskName:   "basalt/hello",
		InputHash:  "in-1",
		OutputHash: "00000000deadbeef",
	}, nil)
	h.verifier.EXPECT().VerifyOutputs([]string{"/out/basalt/hello.elf"}).Return(true, nil)
	h.hasher.EXPECT().ComputeFileHash("/out/basalt/hello.elf").Return(uint64(0xdeadbeef), nil)

	err := h.s.Run(context.Background(), []scheduler.Node{node}, scheduler.Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCached, node.Status())
	assert.Equal(t, 0, node.runs)
}

func TestScheduler_Run_CacheMiss(t *testing.T) {
	tests := []struct {
		name   string
		expect func(h *harness)
	}{
		{
			name: "inputs changed",
			expect: func(h *harness) {
				h.store.EXPECT().Get(root, gomock.Any()).Return(&domain.BuildInfo{InputHash: "in-0"}, nil)
			},
		},
		{
			name: "output deleted",
			expect: func(h *harness) {
				h.store.EXPECT().Get(root, gomock.Any()).Return(&domain.BuildInfo{InputHash: "in-1"}, nil)
				h.verifier.EXPECT().VerifyOutputs(gomock.Any()).Return(false, nil)
			},
		},
		{
			name: "output modified",
			expect: func(h *harness) {
				h.store.EXPECT().Get(root, gomock.Any()).Return(&domain.BuildInfo{InputHash: "in-1", OutputHash: "0000000000000001"}, nil)
				h.verifier.EXPECT().VerifyOutputs(gomock.Any()).Return(true, nil)
				h.hasher.EXPECT().ComputeFileHash(gomock.Any()).Return(uint64(2), nil)
			},
		},
		{
			name: "unreadable build info",
			expect: func(h *harness) {
				h.store.EXPECT().Get(root, gomock.Any()).Return(nil, domain.ErrStoreReadFailed)
				h.logger.EXPECT().Warn(gomock.Any()).Times(1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			node := newFakeNode("chalk/hello", "/out/chalk/hello.elf")

			h.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("in-1", nil)
			tt.expect(h)
			h.hasher.EXPECT().ComputeFileHash(gomock.Any()).Return(uint64(7), nil)
			h.store.EXPECT().Put(root, gomock.Any()).Return(nil)

			require.NoError(t, h.s.Run(context.Background(), []scheduler.Node{node}, scheduler.Options{Root: root}))
			assert.Equal(t, 1, node.runs)
		})
	}
}

func TestScheduler_Run_NoCache(t *testing.T) {
	h := newHarness(t)
	node := newFakeNode("aplite/hello", "/out/aplite/hello.elf")

	h.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("in-1", nil)
	h.hasher.EXPECT().ComputeFileHash(gomock.Any()).Return(uint64(1), nil)
	h.store.EXPECT().Put(root, gomock.Any()).Return(nil)

	err := h.s.Run(context.Background(), []scheduler.Node{node}, scheduler.Options{Root: root, NoCache: true})
	require.NoError(t, err)
	assert.Equal(t, 1, node.runs)
}

func TestScheduler_Run_FailureDoesNotStopOthers(t *testing.T) {
	h := newHarness(t)
	failing := newFakeNode("aplite/hello", "/out/aplite/hello.elf")
	failing.run = func(context.Context, io.Writer, io.Writer) error {
		return domain.ErrBuildFailure
	}
	ok := newFakeNode("basalt/hello", "/out/basalt/hello.elf")

	h.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("in", nil).Times(2)
	h.store.EXPECT().Get(root, gomock.Any()).Return(nil, nil).Times(2)
	h.hasher.EXPECT().ComputeFileHash("/out/basalt/hello.elf").Return(uint64(1), nil)
	h.store.EXPECT().Put(root, gomock.Any()).Return(nil).Times(1)

	err := h.s.Run(context.Background(), []scheduler.Node{failing, ok}, scheduler.Options{Root: root, Parallelism: 1})
	require.ErrorIs(t, err, domain.ErrBuildFailure)
	assert.ErrorContains(t, err, "task execution failed")
	assert.Equal(t, domain.StatusFailed, failing.Status())
	assert.Equal(t, domain.StatusCompleted, ok.Status())
}

func TestScheduler_Run_HashFailure(t *testing.T) {
	h := newHarness(t)
	node := newFakeNode("basalt/hello", "/out/basalt/hello.elf")

	h.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("", domain.ErrInputNotFound)

	err := h.s.Run(context.Background(), []scheduler.Node{node}, scheduler.Options{Root: root})
	require.ErrorIs(t, err, domain.ErrInputHashComputationFailed)
	require.ErrorIs(t, err, domain.ErrInputNotFound)
	assert.Equal(t, 0, node.runs)
}

func TestScheduler_Run_StoreWriteFailure(t *testing.T) {
	h := newHarness(t)
	node := newFakeNode("basalt/hello", "/out/basalt/hello.elf")

	h.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("in", nil)
	h.store.EXPECT().Get(root, gomock.Any()).Return(nil, nil)
	h.hasher.EXPECT().ComputeFileHash(gomock.Any()).Return(uint64(1), nil)
	h.store.EXPECT().Put(root, gomock.Any()).Return(domain.ErrStoreWriteFailed)

	err := h.s.Run(context.Background(), []scheduler.Node{node}, scheduler.Options{Root: root})
	require.ErrorIs(t, err, domain.ErrStoreWriteFailed)
}

func TestScheduler_Run_RejectsDuplicates(t *testing.T) {
	t.Run("output", func(t *testing.T) {
		h := newHarness(t)
		a := newFakeNode("aplite/hello", "/out/hello.elf")
		b := newFakeNode("basalt/hello", "/out/hello.elf")

		err := h.s.Run(context.Background(), []scheduler.Node{a, b}, scheduler.Options{Root: root})
		require.ErrorIs(t, err, domain.ErrDuplicateOutput)
		assert.Equal(t, 0, a.runs+b.runs)
	})

	t.Run("name", func(t *testing.T) {
		h := newHarness(t)
		a := newFakeNode("basalt/hello", "/out/a.elf")
		b := newFakeNode("basalt/hello", "/out/b.elf")

		err := h.s.Run(context.Background(), []scheduler.Node{a, b}, scheduler.Options{Root: root})
		require.ErrorIs(t, err, domain.ErrTaskAlreadyExists)
	})
}

func TestScheduler_Run_StreamsIntoSpan(t *testing.T) {
	ctrl := gomock.NewController(t)
	hasher := mocks.NewMockHasher(ctrl)
	store := mocks.NewMockBuildInfoStore(ctrl)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	node := newFakeNode("diorite/hello", "/out/diorite/hello.elf")
	failure := errors.New("linker error")
	node.run = func(_ context.Context, stdout, _ io.Writer) error {
		_, _ = io.WriteString(stdout, "warning: unused variable\n")
		return failure
	}

	hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("in", nil)
	store.EXPECT().Get(root, gomock.Any()).Return(nil, nil)

	tracer.EXPECT().EmitPlan(gomock.Any(), []string{"diorite/hello"})
	tracer.EXPECT().Start(gomock.Any(), "diorite/hello").Return(context.Background(), span)
	gomock.InOrder(
		span.EXPECT().SetAttribute("output", "/out/diorite/hello.elf"),
		span.EXPECT().Write([]byte("warning: unused variable\n")).Return(25, nil),
		span.EXPECT().RecordError(gomock.Any()),
		span.EXPECT().End(),
	)

	s := scheduler.NewScheduler(hasher, store, mocks.NewMockVerifier(ctrl), tracer, logger)
	err := s.Run(context.Background(), []scheduler.Node{node}, scheduler.Options{Root: root})
	require.ErrorIs(t, err, failure)
}

func TestScheduler_Run_Parallelism(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t)

		var running, peak atomic.Int32
		var nodes []scheduler.Node
		for _, p := range []string{"aplite", "basalt", "chalk", "diorite"} {
			n := newFakeNode(p+"/hello", "/out/"+p+"/hello.elf")
			n.run = func(context.Context, io.Writer, io.Writer) error {
				cur := running.Add(1)
				for {
					old := peak.Load()
					if cur <= old || peak.CompareAndSwap(old, cur) {
						break
					}
				}
				time.Sleep(time.Second)
				running.Add(-1)
				return nil
			}
			nodes = append(nodes, n)
		}

		h.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("in", nil).Times(4)
		h.hasher.EXPECT().ComputeFileHash(gomock.Any()).Return(uint64(1), nil).Times(4)
		h.store.EXPECT().Put(root, gomock.Any()).Return(nil).Times(4)

		start := time.Now()
		err := h.s.Run(context.Background(), nodes, scheduler.Options{Root: root, Parallelism: 2, NoCache: true})
		require.NoError(t, err)

		assert.Equal(t, int32(2), peak.Load())
		assert.Equal(t, 2*time.Second, time.Since(start))
	})
}
