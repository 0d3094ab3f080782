package progrock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vito/progrock"
	crateprogrock "go.trai.ch/crate/internal/adapters/telemetry/progrock"
	"go.trai.ch/crate/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestStatusLog_ReportsEachVertexOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("diorite/hello finished in 1.5s").Times(1)

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	running := &progrock.Vertex{Id: "v1", Name: "diorite/hello", Started: timestamppb.New(start)}
	done := &progrock.Vertex{
		Id:        "v1",
		Name:      "diorite/hello",
		Started:   timestamppb.New(start),
		Completed: timestamppb.New(start.Add(1500 * time.Millisecond)),
	}

	log := crateprogrock.NewStatusLog(mockLogger)
	require.NoError(t, log.WriteStatus(&progrock.StatusUpdate{Vertexes: []*progrock.Vertex{running}}))
	require.NoError(t, log.WriteStatus(&progrock.StatusUpdate{Vertexes: []*progrock.Vertex{done}}))
	require.NoError(t, log.WriteStatus(&progrock.StatusUpdate{Vertexes: []*progrock.Vertex{done}}))
	require.NoError(t, log.Close())
}
