package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	jsonExt = ".json"
	zstdExt = ".zst"

	// maxPlanBytes bounds how much a compressed import may expand to.
	maxPlanBytes = 64 << 20
)

// ErrNotPlanFile is returned for paths without a .json or .json.zst suffix.
var ErrNotPlanFile = errors.New("plan: not a .json or .json.zst file")

// ExportFileName returns tcp_plan_<unix-ms>.json for the given instant, with
// a .zst suffix when compressed.
func ExportFileName(t time.Time, compressed bool) string {
	name := fmt.Sprintf("tcp_plan_%d%s", t.UnixMilli(), jsonExt)
	if compressed {
		name += zstdExt
	}
	return name
}

// IsPlanFile reports whether path has an importable extension.
func IsPlanFile(path string) bool {
	lower := strings.ToLower(strings.TrimSpace(path))
	return strings.HasSuffix(lower, jsonExt) || strings.HasSuffix(lower, jsonExt+zstdExt)
}

func isCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), zstdExt)
}

// WriteFile encodes p and writes it atomically to path. Paths ending in .zst
// are zstd-compressed.
func WriteFile(path string, p Plan) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	if isCompressed(path) {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("plan: zstd encoder: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return fmt.Errorf("plan: zstd encoder: %w", err)
		}
	}
	return writeAtomic(path, data)
}

// ReadFile reads and strictly decodes a plan file.
func ReadFile(path string) (Plan, error) {
	data, err := ReadFileBytes(path)
	if err != nil {
		return Plan{}, err
	}
	return Decode(data)
}

// ReadFileBytes returns the raw (decompressed) document bytes of a plan
// file without decoding it.
func ReadFileBytes(path string) ([]byte, error) {
	if !IsPlanFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrNotPlanFile, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan: read %s: %w", path, err)
	}
	if !isCompressed(path) {
		return data, nil
	}
	out, err := decompress(data)
	if err != nil {
		return nil, fmt.Errorf("plan: %s: %w", path, err)
	}
	return out, nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()
	out, err := io.ReadAll(io.LimitReader(dec, maxPlanBytes+1))
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	if len(out) > maxPlanBytes {
		return nil, fmt.Errorf("decompressed plan exceeds %d bytes", maxPlanBytes)
	}
	return out, nil
}

// writeAtomic writes through a temp file in the target directory, syncs it,
// and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("plan: ensure %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tcp_plan-*.tmp")
	if err != nil {
		return fmt.Errorf("plan: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("plan: write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("plan: sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("plan: close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("plan: chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("plan: rename into %s: %w", path, err)
	}
	return nil
}
