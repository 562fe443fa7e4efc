// Package supervisor runs the external procedure that swaps the live
// database file and restarts the service.
package supervisor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"quizdeck/internal/domain"
	"quizdeck/internal/logger"

	"go.uber.org/zap"
)

// ProcessSupervisor invokes `command args... <staged> <live>` and reports
// how it went. The procedure owns the copy and the restart.
type ProcessSupervisor struct {
	command   string
	args      []string
	livePath  string
	timeout   time.Duration
	waitDelay time.Duration
}

// defaultWaitDelay bounds how long output is read after the procedure exits.
const defaultWaitDelay = 5 * time.Second

func NewProcessSupervisor(command string, args []string, livePath string, timeout time.Duration) *ProcessSupervisor {
	return &ProcessSupervisor{command: command, args: args, livePath: livePath, timeout: timeout, waitDelay: defaultWaitDelay}
}

// ReplaceAndRestart runs the procedure to completion. The outcome is
// returned whenever the process started, also alongside an error for a
// non-zero exit so callers can surface its output.
func (s *ProcessSupervisor) ReplaceAndRestart(ctx context.Context, stagedPath string) (*domain.ReplaceOutcome, error) {
	if s.command == "" {
		return nil, errors.New("no replace command configured")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	args := append(append([]string{}, s.args...), stagedPath, s.livePath)
	cmd := exec.CommandContext(ctx, s.command, args...)
	cmd.WaitDelay = s.waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := logger.Get().With(zap.String("command", s.command), zap.String("staged", stagedPath), zap.String("live", s.livePath))
	log.Info("running replace procedure")

	start := time.Now()
	runErr := cmd.Run()
	outcome := &domain.ReplaceOutcome{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		outcome.ExitCode = cmd.ProcessState.ExitCode()
	}

	if runErr == nil {
		log.Info("replace procedure finished", zap.Duration("duration", outcome.Duration))
		return outcome, nil
	}

	// A background child that inherited stdout or stderr keeps the pipes
	// open after the procedure itself exited cleanly.
	if errors.Is(runErr, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		log.Warn("replace procedure finished but left its output open", zap.Duration("duration", outcome.Duration))
		return outcome, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Error("replace procedure aborted", zap.Error(ctxErr))
		return outcome, fmt.Errorf("replace procedure aborted: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		log.Error("replace procedure failed", zap.Int("exit_code", outcome.ExitCode), zap.String("stderr", outcome.Stderr))
		detail := strings.TrimSpace(outcome.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(outcome.Stdout)
		}
		return outcome, fmt.Errorf("replace procedure exited with code %d: %s", outcome.ExitCode, detail)
	}

	log.Error("replace procedure could not start", zap.Error(runErr))
	return nil, fmt.Errorf("failed to start replace procedure: %w", runErr)
}
