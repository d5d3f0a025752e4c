package audio

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kanavoice/kanavoice/pkg/logger"
)

var (
	// ErrEnvironmentDetection means the runtime platform could not be
	// mapped to a playback strategy.
	ErrEnvironmentDetection = errors.New("cannot determine playback environment")

	// ErrPathTranslation means the guest-to-host path mapping failed.
	ErrPathTranslation = errors.New("path translation failed")

	// ErrPlayerSpawn means the external player process failed to launch.
	ErrPlayerSpawn = errors.New("player failed to launch")
)

// Strategy is the platform-specific half of audio playback, selected
// once at startup. Stage writes audio somewhere the eventual player can
// reach, TranslatePath converts the staged path into the player's
// addressing scheme, and Launch spawns the player detached.
type Strategy interface {
	Name() string
	Stage(audio []byte) (localPath string, err error)
	TranslatePath(ctx context.Context, localPath string) (playerPath string, err error)
	Launch(ctx context.Context, playerPath string) error
}

// Player drives one playback invocation through a Strategy. The staged
// temp file is owned by Play and removed on every exit path; "success"
// means the player process launched, not that audio finished.
type Player struct {
	strategy Strategy
}

func NewPlayer(strategy Strategy) *Player {
	return &Player{strategy: strategy}
}

// Play stages the audio, launches the player, and deletes the staged
// file. Concurrent calls are independent: each stages its own file and
// spawns its own player process.
func (p *Player) Play(ctx context.Context, audio []byte) error {
	localPath, err := p.strategy.Stage(audio)
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(localPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.WarnCF("audio", "Failed to remove staged audio", map[string]any{
				"path":  localPath,
				"error": rmErr.Error(),
			})
		}
	}()

	playerPath, err := p.strategy.TranslatePath(ctx, localPath)
	if err != nil {
		return err
	}

	if err := p.strategy.Launch(ctx, playerPath); err != nil {
		return err
	}

	logger.DebugCF("audio", "Player launched", map[string]any{
		"strategy": p.strategy.Name(),
		"path":     playerPath,
	})
	return nil
}

func wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
