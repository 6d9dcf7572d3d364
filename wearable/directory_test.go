package wearable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaltesting "github.com/nadavyigal/Running-coach--sub004/internal/testing"
)

func TestDirectoryRegisterAndGet(t *testing.T) {
	conn := internaltesting.CreateTestDB(t)
	dir := NewDirectory(conn, nil)
	ctx := context.Background()

	dev := &Device{
		ID:               "dev-1",
		UserID:           "user-1",
		Type:             DeviceGarmin,
		ConnectionStatus: StatusConnected,
	}
	require.NoError(t, dir.Register(ctx, dev))

	got, err := dir.Get(ctx, "dev-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, DeviceGarmin, got.Type)
	assert.True(t, got.Connected())
	assert.Nil(t, got.LastSyncAt)
}

func TestDirectoryGetMissingDevice(t *testing.T) {
	conn := internaltesting.CreateTestDB(t)
	dir := NewDirectory(conn, nil)

	got, err := dir.Get(context.Background(), "no-such-device")
	require.NoError(t, err)
	assert.Nil(t, got, "missing device should return nil, not an error")
}

func TestDirectoryListByUser(t *testing.T) {
	conn := internaltesting.CreateTestDB(t)
	dir := NewDirectory(conn, nil)
	ctx := context.Background()

	require.NoError(t, dir.Register(ctx, &Device{ID: "dev-a", UserID: "user-1", Type: DeviceGarmin}))
	require.NoError(t, dir.Register(ctx, &Device{ID: "dev-b", UserID: "user-1", Type: DeviceFitbit}))
	require.NoError(t, dir.Register(ctx, &Device{ID: "dev-c", UserID: "user-2", Type: DevicePolar}))

	devices, err := dir.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, devices, 2)
	for _, d := range devices {
		assert.Equal(t, "user-1", d.UserID)
	}
}

func TestDirectorySetConnectionStatus(t *testing.T) {
	conn := internaltesting.CreateTestDB(t)
	dir := NewDirectory(conn, nil)
	ctx := context.Background()

	require.NoError(t, dir.Register(ctx, &Device{ID: "dev-1", UserID: "user-1", Type: DeviceGarmin}))

	require.NoError(t, dir.SetConnectionStatus(ctx, "dev-1", StatusConnected))

	got, err := dir.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, StatusConnected, got.ConnectionStatus)

	err = dir.SetConnectionStatus(ctx, "no-such-device", StatusConnected)
	assert.Error(t, err)
}

func TestDirectoryTouchLastSync(t *testing.T) {
	conn := internaltesting.CreateTestDB(t)
	dir := NewDirectory(conn, nil)
	ctx := context.Background()

	require.NoError(t, dir.Register(ctx, &Device{ID: "dev-1", UserID: "user-1", Type: DeviceGarmin}))

	syncedAt := time.Now().Truncate(time.Second)
	require.NoError(t, dir.TouchLastSync(ctx, "dev-1", syncedAt))

	got, err := dir.Get(ctx, "dev-1")
	require.NoError(t, err)
	require.NotNil(t, got.LastSyncAt)
	assert.WithinDuration(t, syncedAt, *got.LastSyncAt, time.Second)
}
