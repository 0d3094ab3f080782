package wiring_test

import (
	"context"
	"io"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/crate/internal/app"
	_ "go.trai.ch/crate/internal/wiring"
)

// TestGraph_Resolves builds the full component graph from the registered nodes.
func TestGraph_Resolves(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)

	closer, ok := components.Tracer.(io.Closer)
	require.True(t, ok, "the progress recorder must be closable at shutdown")
	require.NoError(t, closer.Close())
}
