// Package log persists the per-step reports as compressed JSONL. The
// step log is the replay record: re-running the scenario and comparing
// digests against it proves a world evolved consensus-identically.
package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"hexcraft.ai/internal/sim/world"
)

// StepLogger appends step reports to a single steps.jsonl.zst file.
// Unlike wall-clock logs there is no time-based rotation: replay needs
// one contiguous sequence per run.
type StepLogger struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer

	lastHeight uint64
}

func NewStepLogger(worldDir string) (*StepLogger, error) {
	dir := filepath.Join(worldDir, "steps")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "steps.jsonl.zst"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &StepLogger{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// WriteStep appends one report. Heights must arrive strictly
// ascending by one; anything else is a caller bug.
func (l *StepLogger) WriteStep(r world.StepReport) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.lastHeight != 0 && r.Height != l.lastHeight+1 {
		return fmt.Errorf("step log: height %d after %d", r.Height, l.lastHeight)
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	l.lastHeight = r.Height
	return l.w.Flush()
}

func (l *StepLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	if l.w != nil {
		_ = l.w.Flush()
		l.w = nil
	}
	if l.enc != nil {
		err = l.enc.Close()
		l.enc = nil
	}
	if l.f != nil {
		_ = l.f.Close()
		l.f = nil
	}
	return err
}

// ReadSteps decodes an entire step log back into reports, verifying
// the height sequence on the way.
func ReadSteps(worldDir string) ([]world.StepReport, error) {
	f, err := os.Open(filepath.Join(worldDir, "steps", "steps.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var reports []world.StepReport
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var r world.StepReport
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("step log: line %d: %w", len(reports)+1, err)
		}
		if n := len(reports); n > 0 && r.Height != reports[n-1].Height+1 {
			return nil, fmt.Errorf("step log: height %d after %d", r.Height, reports[n-1].Height)
		}
		reports = append(reports, r)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}
