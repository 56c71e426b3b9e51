package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"

	"brassworks.dev/fieldsmith/internal/config"
	"brassworks.dev/fieldsmith/internal/genmap"
	"brassworks.dev/fieldsmith/internal/resolver"
	"brassworks.dev/fieldsmith/internal/tui"
)

// Exit codes are a contract with operators and scripts: each maps to exactly
// one terminal condition.
const (
	ExitOK          = 0
	ExitGeneration  = 1
	ExitResolution  = 2
	ExitConfig      = 3
	ExitUsage       = 4
	ExitInterrupted = 130
)

// UsageError reports an invalid invocation (bad flags or arguments).
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// GenerationError reports that one or more fields failed to generate.
type GenerationError struct {
	Failed int
}

func (e *GenerationError) Error() string {
	if e.Failed == 1 {
		return "1 field failed to generate"
	}
	return fmt.Sprintf("%d fields failed to generate", e.Failed)
}

// ExitCodeFor maps an error from the command tree to its exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *UsageError
	switch {
	case errors.Is(err, promptui.ErrAbort),
		errors.Is(err, promptui.ErrInterrupt),
		errors.Is(err, tui.ErrCanceled):
		return ExitInterrupted
	case errors.Is(err, resolver.ErrNotFound),
		errors.Is(err, resolver.ErrAmbiguous):
		return ExitResolution
	case errors.Is(err, config.ErrConfiguration),
		errors.Is(err, genmap.ErrCorrupt):
		return ExitConfig
	case errors.As(err, &usage):
		return ExitUsage
	default:
		return ExitGeneration
	}
}
