package audio

import (
	"os"
	"runtime"
	"strings"

	"github.com/kanavoice/kanavoice/pkg/logger"
)

const osReleasePath = "/proc/sys/kernel/osrelease"

// Detect inspects the runtime environment and returns the playback
// strategy for it. Called once at startup; a WSL kernel ("microsoft" in
// the release string) selects host-delegated playback, anything else
// plays natively. The model is only used by the WSL strategy to name
// host-side files.
func Detect(model string) (Strategy, error) {
	return detect(runtime.GOOS, kernelRelease, model)
}

func detect(goos string, release func() string, model string) (Strategy, error) {
	switch goos {
	case "linux":
		rel := release()
		if rel == "" {
			return nil, wrap(ErrEnvironmentDetection, "cannot read kernel release")
		}
		if strings.Contains(strings.ToLower(rel), "microsoft") {
			logger.InfoCF("audio", "Detected WSL, delegating playback to Windows host",
				map[string]any{"kernel": rel})
			return newWSLStrategy(model), nil
		}
		return newNativeStrategy(goos), nil
	case "darwin", "windows":
		return newNativeStrategy(goos), nil
	default:
		return nil, wrap(ErrEnvironmentDetection, "unsupported platform %s", goos)
	}
}

func kernelRelease() string {
	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
