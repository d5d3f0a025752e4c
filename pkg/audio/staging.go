package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	stagePattern = "kanavoice-*.wav"
	keepNewest   = 10
)

// stageAudio writes audio bytes to a fresh temp file in dir and returns
// its path. Stale staged files are swept first so crashes never let
// them accumulate.
func stageAudio(dir string, audio []byte) (string, error) {
	sweepStale(dir)

	f, err := os.CreateTemp(dir, stagePattern)
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}
	if _, err := f.Write(audio); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close staging file: %w", err)
	}
	return f.Name(), nil
}

// sweepStale removes all but the newest staged files left behind by
// earlier invocations. Best effort; errors are ignored.
func sweepStale(dir string) {
	matches, err := filepath.Glob(filepath.Join(dir, stagePattern))
	if err != nil || len(matches) <= keepNewest {
		return
	}
	sort.Slice(matches, func(i, j int) bool {
		iInfo, iErr := os.Stat(matches[i])
		jInfo, jErr := os.Stat(matches[j])
		if iErr != nil || jErr != nil {
			return false
		}
		return iInfo.ModTime().Before(jInfo.ModTime())
	})
	for _, path := range matches[:len(matches)-keepNewest] {
		os.Remove(path)
	}
}
