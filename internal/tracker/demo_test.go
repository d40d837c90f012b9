package tracker

import (
	"context"
	"testing"

	"github.com/Rrisinglight/isabella/internal/geo"
	"github.com/Rrisinglight/isabella/internal/vtx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoServerSpeaksTheContract(t *testing.T) {
	demo := NewDemoServer()
	base, err := demo.Start()
	require.NoError(t, err)
	defer demo.Stop()

	c := NewClient(base, quietLog())
	d := NewDispatcher(c, c, quietLog())
	ctx := context.Background()

	var st Status
	require.NoError(t, c.getJSON(ctx, "/status", &st))
	assert.Equal(t, ModeManual, st.Mode)
	require.NotNil(t, st.Vtx)
	assert.Equal(t, "R", st.Vtx.Band)
	assert.Equal(t, 5658, st.Vtx.FrequencyMHz)

	require.NoError(t, d.SendCommand(ctx, "auto"))
	require.NoError(t, c.getJSON(ctx, "/status", &st))
	assert.Equal(t, ModeAuto, st.Mode)

	err = d.SendCommand(ctx, "warp")
	assert.Error(t, err)

	setting, err := d.SetVtx(ctx, vtx.BandB, 3)
	require.NoError(t, err)
	assert.Equal(t, 5771, setting.FrequencyMHz())

	// two-phase base setup then mirror readback
	state, err := d.FetchState(ctx)
	require.NoError(t, err)
	assert.Nil(t, state.BasePoint)

	require.NoError(t, d.SetBase(ctx, geo.Point{Lat: 12.97, Lng: 77.59}, 44.3))
	state, err = d.FetchState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state.BasePoint)
	assert.InDelta(t, 77.59, state.BasePoint[1], 1e-9)
	require.NotNil(t, state.BaseDirection)
	assert.InDelta(t, 44.3, *state.BaseDirection, 1e-9)

	angle, err := d.UpdateAngle(ctx, 999)
	require.NoError(t, err)
	assert.InDelta(t, 146.0, angle, 1e-9)
}
