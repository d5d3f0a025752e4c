package audio

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/kanavoice/kanavoice/pkg/logger"
)

// vlcPath is where VLC lives on the Windows host. VLC is used because
// independent instances mix concurrent playback cleanly.
const vlcPath = `C:\Program Files\VideoLAN\VLC\vlc.exe`

// hostSweepScript trims old staged voice files from the Windows temp
// dir, keeping the 10 newest. Best effort, run detached.
const hostSweepScript = `$temp = [System.IO.Path]::GetTempPath()
$files = Get-ChildItem -Path $temp -Filter "voice_*.wav" | Sort-Object LastWriteTime
if ($files.Count -gt 10) {
    $files[0..($files.Count - 11)] | ForEach-Object { Remove-Item $_.FullName -Force -ErrorAction SilentlyContinue }
}`

// wslStrategy plays audio while running inside WSL: the guest cannot
// reach the sound device, so the file is copied into the Windows temp
// dir and VLC is launched on the host through powershell.exe.
type wslStrategy struct {
	model   string
	tempDir string
	runner  execRunner
}

func newWSLStrategy(model string) *wslStrategy {
	return &wslStrategy{
		model:   model,
		tempDir: os.TempDir(),
		runner:  systemRunner{},
	}
}

func (s *wslStrategy) Name() string {
	return "wsl"
}

func (s *wslStrategy) Stage(audio []byte) (string, error) {
	return stageAudio(s.tempDir, audio)
}

// TranslatePath copies the staged file into the Windows temp dir under
// a unique name and returns the host-native path VLC will receive.
func (s *wslStrategy) TranslatePath(ctx context.Context, localPath string) (string, error) {
	out, err := s.runner.Output(ctx, "wslpath", "-w", localPath)
	if err != nil {
		return "", wrap(ErrPathTranslation, "wslpath -w %s: %v", localPath, err)
	}
	guestAsHost := strings.TrimSpace(string(out))

	out, err = s.runner.Output(ctx, "powershell.exe",
		"-NoProfile", "-Command", "[System.IO.Path]::GetTempPath()")
	if err != nil {
		return "", wrap(ErrPathTranslation, "resolving host temp dir: %v", err)
	}
	hostTemp := strings.TrimSpace(string(out))
	if hostTemp == "" {
		return "", wrap(ErrPathTranslation, "host temp dir is empty")
	}
	if !strings.HasSuffix(hostTemp, `\`) {
		hostTemp += `\`
	}
	hostPath := fmt.Sprintf(`%svoice_%s_%s.wav`, hostTemp, s.model, uuid.New().String()[:8])

	copyCmd := fmt.Sprintf(`Copy-Item "%s" "%s" -Force`, guestAsHost, hostPath)
	if _, err := s.runner.Output(ctx, "powershell.exe", "-NoProfile", "-Command", copyCmd); err != nil {
		return "", wrap(ErrPathTranslation, "copying to host temp: %v", err)
	}

	logger.DebugCF("audio", "Staged audio on host", map[string]any{
		"guest": localPath,
		"host":  hostPath,
	})
	return hostPath, nil
}

func (s *wslStrategy) Launch(ctx context.Context, playerPath string) error {
	// Trim old host-side files first; the launched player owns the new
	// one and we never get a completion signal to delete it ourselves.
	if err := s.runner.Start(ctx, "powershell.exe", "-NoProfile", "-Command", hostSweepScript); err != nil {
		logger.DebugCF("audio", "Host temp sweep failed", map[string]any{"error": err.Error()})
	}

	vlcCmd := fmt.Sprintf(`& "%s" --intf dummy --dummy-quiet --play-and-exit "%s"`, vlcPath, playerPath)
	if err := s.runner.Start(ctx, "powershell.exe", "-NoProfile", "-Command", vlcCmd); err != nil {
		return wrap(ErrPlayerSpawn, "vlc via powershell: %v", err)
	}
	return nil
}
