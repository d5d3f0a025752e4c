package audio

import (
	"context"
	"os"
	"os/exec"
)

// playerCommand is one candidate player binary with its quiet-mode
// arguments; the file path is appended last.
type playerCommand struct {
	bin  string
	args []string
}

// nativePlayers lists candidate players per GOOS, tried in order.
var nativePlayers = map[string][]playerCommand{
	"darwin": {
		{bin: "afplay"},
	},
	"linux": {
		{bin: "paplay"},
		{bin: "aplay", args: []string{"-q"}},
		{bin: "ffplay", args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	},
}

// nativeStrategy plays audio in the same OS this process runs in.
type nativeStrategy struct {
	goos     string
	tempDir  string
	runner   execRunner
	lookPath func(string) (string, error)
}

func newNativeStrategy(goos string) *nativeStrategy {
	return &nativeStrategy{
		goos:     goos,
		tempDir:  os.TempDir(),
		runner:   systemRunner{},
		lookPath: exec.LookPath,
	}
}

func (s *nativeStrategy) Name() string {
	return "native/" + s.goos
}

func (s *nativeStrategy) Stage(audio []byte) (string, error) {
	return stageAudio(s.tempDir, audio)
}

// TranslatePath is the identity in native mode; the player shares this
// process's filesystem view.
func (s *nativeStrategy) TranslatePath(_ context.Context, localPath string) (string, error) {
	return localPath, nil
}

func (s *nativeStrategy) Launch(ctx context.Context, playerPath string) error {
	if s.goos == "windows" {
		script := `(New-Object System.Media.SoundPlayer '` + playerPath + `').Play()`
		if err := s.runner.Start(ctx, "powershell", "-NoProfile", "-Command", script); err != nil {
			return wrap(ErrPlayerSpawn, "powershell: %v", err)
		}
		return nil
	}

	candidates := nativePlayers[s.goos]
	for _, c := range candidates {
		bin, err := s.lookPath(c.bin)
		if err != nil {
			continue
		}
		args := append(append([]string{}, c.args...), playerPath)
		if err := s.runner.Start(ctx, bin, args...); err != nil {
			return wrap(ErrPlayerSpawn, "%s: %v", c.bin, err)
		}
		return nil
	}
	return wrap(ErrPlayerSpawn, "no audio player found for %s", s.goos)
}
