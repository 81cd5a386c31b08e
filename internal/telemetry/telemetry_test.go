package telemetry

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"hier-api/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetupWithWriter(io.Discard)
	os.Exit(m.Run())
}

func TestRegisterLookup(t *testing.T) {
	e := Open("")
	e.RegisterLookup("locality")
	e.RegisterLookup("locality")
	e.RegisterLookup("street")
	in := e.Info()
	assert.Equal(t, uint64(3), in.TotalLookups)
	assert.Equal(t, uint64(2), in.LookupsByKind["locality"])
	assert.Equal(t, uint64(1), in.LookupsByKind["street"])
}

// 写时复制：取得的快照不随后续变更改变
func TestSnapshotIsolation(t *testing.T) {
	e := Open("")
	e.RegisterLookup("locality")
	before := e.Info()
	e.RegisterLookup("locality")
	assert.Equal(t, uint64(1), before.TotalLookups)
	assert.Equal(t, uint64(2), e.Info().TotalLookups)
}

func TestPersistenceRoundtrip(t *testing.T) {
	dir := t.TempDir()
	e := Open(dir)
	e.RegisterLookup("building")
	e.RegisterIngest(10, 2, 1)

	// 新实例从同一目录读回
	e2 := Open(dir)
	in := e2.Info()
	assert.Equal(t, uint64(1), in.TotalLookups)
	require.NotNil(t, in.LastIngest)
	assert.Equal(t, uint64(10), in.LastIngest.NumLoaded)
	assert.Equal(t, uint64(2), in.LastIngest.BadIDs)

	b, err := os.ReadFile(filepath.Join(dir, snapshotFile))
	require.NoError(t, err)
	assert.True(t, json.Valid(b))
}

// 损坏文件：从空快照重新开始而不是失败
func TestCorruptSnapshotReset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFile), []byte("{broken"), 0o644))
	e := Open(dir)
	assert.Zero(t, e.Info().TotalLookups)
	e.RegisterLookup("x")
	assert.Equal(t, uint64(1), e.Info().TotalLookups)
}

func TestSubscriber(t *testing.T) {
	e := Open("")
	var got []uint64
	e.Subscribe(func(in Info) { got = append(got, in.TotalLookups) })
	e.RegisterLookup("a")
	e.RegisterLookup("a")
	assert.Equal(t, []uint64{1, 2}, got)
}

// 订阅回调中再次调用 Eye 的方法不得死锁
func TestSubscriberReentrant(t *testing.T) {
	e := Open("")
	nested := false
	e.Subscribe(func(in Info) {
		_ = e.Info()
		if !nested {
			nested = true
			e.RegisterLookup("nested")
		}
	})
	e.RegisterLookup("outer")
	in := e.Info()
	assert.Equal(t, uint64(2), in.TotalLookups)
	assert.Equal(t, uint64(1), in.LookupsByKind["outer"])
	assert.Equal(t, uint64(1), in.LookupsByKind["nested"])
}
