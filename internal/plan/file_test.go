package plan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() Plan {
	return Plan{
		Version:  Version,
		Objects:  []PlacedObject{{ID: "1700000000000_0", Type: "W20-1", Lat: 10, Lng: 20, Rotate: 0, Scale: 1}},
		Polyline: []Vertex{{10, 20}, {10.1, 20.1}},
	}
}

func TestExportFileName(t *testing.T) {
	at := time.UnixMilli(1_700_000_123_456)
	assert.Equal(t, "tcp_plan_1700000123456.json", ExportFileName(at, false))
	assert.Equal(t, "tcp_plan_1700000123456.json.zst", ExportFileName(at, true))
}

func TestWriteReadFileRoundTrip(t *testing.T) {
	for _, compressed := range []bool{false, true} {
		dir := t.TempDir()
		path := filepath.Join(dir, ExportFileName(time.Now(), compressed))
		require.NoError(t, WriteFile(path, samplePlan()))

		got, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, samplePlan(), got)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp files must not be left behind")
	}
}

func TestCompressedFileIsNotPlainJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json.zst")
	require.NoError(t, WriteFile(path, samplePlan()))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, byte('{'), raw[0])

	doc, err := ReadFileBytes(path)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), doc[0])
}

func TestReadFileRejectsOtherExtensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{"objects":[],"polyline":[]}`), 0o644))
	_, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrNotPlanFile)
}

func TestReadFileInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"objects":[]}`), 0o644))
	_, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestGeneratorFor(t *testing.T) {
	gen, err := GeneratorFor("counter")
	require.NoError(t, err)
	assert.IsType(t, &CounterGenerator{}, gen)

	gen, err = GeneratorFor("uuid")
	require.NoError(t, err)
	a, b := gen.NextID(), gen.NextID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)

	_, err = GeneratorFor("sequential")
	assert.Error(t, err)
}

func TestCounterGeneratorFormat(t *testing.T) {
	gen := NewCounterGenerator(WithClock(func() time.Time { return time.UnixMilli(42) }))
	assert.Equal(t, "42_0", gen.NextID())
	assert.Equal(t, "42_1", gen.NextID())
}
