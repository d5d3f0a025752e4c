package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu      sync.Mutex
	outputs func(name string, args []string) ([]byte, error)
	started [][]string
	startFn func(name string, args []string) error
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	if f.outputs == nil {
		return nil, nil
	}
	return f.outputs(name, args)
}

func (f *fakeRunner) Start(_ context.Context, name string, args ...string) error {
	f.mu.Lock()
	f.started = append(f.started, append([]string{name}, args...))
	f.mu.Unlock()
	if f.startFn != nil {
		return f.startFn(name, args)
	}
	return nil
}

func (f *fakeRunner) startedCommands() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string{}, f.started...)
}

func newTestNative(t *testing.T, runner *fakeRunner) *nativeStrategy {
	t.Helper()
	return &nativeStrategy{
		goos:     "linux",
		tempDir:  t.TempDir(),
		runner:   runner,
		lookPath: func(bin string) (string, error) { return "/usr/bin/" + bin, nil },
	}
}

func stagedFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, stagePattern))
	require.NoError(t, err)
	return matches
}

func TestPlayRemovesStagedFileOnSuccess(t *testing.T) {
	runner := &fakeRunner{}
	strategy := newTestNative(t, runner)
	player := NewPlayer(strategy)

	require.NoError(t, player.Play(context.Background(), []byte("wav-bytes")))

	assert.Empty(t, stagedFiles(t, strategy.tempDir))
	require.Len(t, runner.startedCommands(), 1)
}

func TestPlayRemovesStagedFileOnSpawnFailure(t *testing.T) {
	runner := &fakeRunner{
		startFn: func(string, []string) error { return errors.New("exec format error") },
	}
	strategy := newTestNative(t, runner)
	player := NewPlayer(strategy)

	err := player.Play(context.Background(), []byte("wav-bytes"))
	require.ErrorIs(t, err, ErrPlayerSpawn)

	assert.Empty(t, stagedFiles(t, strategy.tempDir))
}

func TestPlayPassesStagedPathToPlayer(t *testing.T) {
	runner := &fakeRunner{}
	strategy := newTestNative(t, runner)

	require.NoError(t, NewPlayer(strategy).Play(context.Background(), []byte("x")))

	cmds := runner.startedCommands()
	require.Len(t, cmds, 1)
	last := cmds[0][len(cmds[0])-1]
	assert.Contains(t, last, "kanavoice-")
	assert.True(t, strings.HasSuffix(last, ".wav"))
}

func TestNativeLaunchFallsThroughMissingPlayers(t *testing.T) {
	runner := &fakeRunner{}
	strategy := newTestNative(t, runner)
	strategy.lookPath = func(bin string) (string, error) {
		if bin == "aplay" {
			return "/usr/bin/aplay", nil
		}
		return "", exec.ErrNotFound
	}

	require.NoError(t, strategy.Launch(context.Background(), "/tmp/a.wav"))

	cmds := runner.startedCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "/usr/bin/aplay", cmds[0][0])
}

func TestNativeLaunchNoPlayerAvailable(t *testing.T) {
	strategy := newTestNative(t, &fakeRunner{})
	strategy.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	err := strategy.Launch(context.Background(), "/tmp/a.wav")
	require.ErrorIs(t, err, ErrPlayerSpawn)
}

func TestConcurrentPlaysSpawnIndependentPlayers(t *testing.T) {
	runner := &fakeRunner{}
	strategy := newTestNative(t, runner)
	player := NewPlayer(strategy)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, player.Play(context.Background(), []byte("clip")))
		}()
	}
	wg.Wait()

	assert.Len(t, runner.startedCommands(), 2)
	assert.Empty(t, stagedFiles(t, strategy.tempDir))
}

func TestWSLTranslatePath(t *testing.T) {
	var copyCmd string
	runner := &fakeRunner{
		outputs: func(name string, args []string) ([]byte, error) {
			switch {
			case name == "wslpath":
				return []byte(`\\wsl.localhost\Ubuntu\tmp\kanavoice-1.wav` + "\n"), nil
			case strings.Contains(strings.Join(args, " "), "GetTempPath"):
				return []byte("C:\\Users\\me\\AppData\\Local\\Temp\\\r\n"), nil
			case strings.Contains(strings.Join(args, " "), "Copy-Item"):
				copyCmd = strings.Join(args, " ")
				return nil, nil
			default:
				return nil, fmt.Errorf("unexpected command %s %v", name, args)
			}
		},
	}
	strategy := &wslStrategy{model: "zingai_1", tempDir: t.TempDir(), runner: runner}

	hostPath, err := strategy.TranslatePath(context.Background(), "/tmp/kanavoice-1.wav")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hostPath, `C:\Users\me\AppData\Local\Temp\voice_zingai_1_`))
	assert.True(t, strings.HasSuffix(hostPath, ".wav"))
	assert.Contains(t, copyCmd, `\\wsl.localhost\Ubuntu\tmp\kanavoice-1.wav`)
	assert.Contains(t, copyCmd, hostPath)
}

func TestWSLTranslatePathFailure(t *testing.T) {
	runner := &fakeRunner{
		outputs: func(name string, args []string) ([]byte, error) {
			return nil, errors.New("wslpath: not found")
		},
	}
	strategy := &wslStrategy{model: "zingai_1", tempDir: t.TempDir(), runner: runner}

	_, err := strategy.TranslatePath(context.Background(), "/tmp/x.wav")
	require.ErrorIs(t, err, ErrPathTranslation)
}

func TestWSLPlayCleansUpOnTranslationFailure(t *testing.T) {
	runner := &fakeRunner{
		outputs: func(string, []string) ([]byte, error) {
			return nil, errors.New("boom")
		},
	}
	strategy := &wslStrategy{model: "zingai_1", tempDir: t.TempDir(), runner: runner}

	err := NewPlayer(strategy).Play(context.Background(), []byte("clip"))
	require.ErrorIs(t, err, ErrPathTranslation)
	assert.Empty(t, stagedFiles(t, strategy.tempDir))
}

func TestWSLLaunchInvokesVLCDetached(t *testing.T) {
	runner := &fakeRunner{}
	strategy := &wslStrategy{model: "sutera", tempDir: t.TempDir(), runner: runner}

	hostPath := `C:\Users\me\AppData\Local\Temp\voice_sutera_abc123.wav`
	require.NoError(t, strategy.Launch(context.Background(), hostPath))

	cmds := runner.startedCommands()
	// Host sweep plus the VLC launch itself.
	require.Len(t, cmds, 2)
	vlc := strings.Join(cmds[1], " ")
	assert.Contains(t, vlc, "vlc.exe")
	assert.Contains(t, vlc, "--play-and-exit")
	assert.Contains(t, vlc, hostPath)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		release string
		want    string
		wantErr error
	}{
		{"wsl kernel", "linux", "5.15.167.4-microsoft-standard-WSL2", "wsl", nil},
		{"plain linux", "linux", "6.8.0-45-generic", "native/linux", nil},
		{"darwin", "darwin", "", "native/darwin", nil},
		{"windows", "windows", "", "native/windows", nil},
		{"unknown goos", "plan9", "", "", ErrEnvironmentDetection},
		{"unreadable release", "linux", "", "", ErrEnvironmentDetection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := detect(tt.goos, func() string { return tt.release }, "zingai_1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, strategy.Name())
		})
	}
}

func TestSweepStaleKeepsNewestFiles(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < keepNewest+3; i++ {
		path := filepath.Join(dir, fmt.Sprintf("kanavoice-%02d.wav", i))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		require.NoError(t, os.Chtimes(path, base, base.Add(time.Duration(i)*time.Second)))
	}

	sweepStale(dir)

	remaining := stagedFiles(t, dir)
	assert.Len(t, remaining, keepNewest)
	// The oldest three are the ones that went away.
	for _, path := range remaining {
		assert.NotContains(t, []string{
			filepath.Join(dir, "kanavoice-00.wav"),
			filepath.Join(dir, "kanavoice-01.wav"),
			filepath.Join(dir, "kanavoice-02.wav"),
		}, path)
	}
}
