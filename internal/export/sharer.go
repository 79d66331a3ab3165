// Package export delivers the share text produced by service.ExportService.
//
// A Sharer hands text to some outside surface. CommandSharer pipes it into a
// local program (a system share sheet or clipboard tool); WriterSharer is the
// always-available fallback that prints the text plus a confirmation line.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ShareTitle is the title handed to share surfaces that show one.
const ShareTitle = "Gas cost calculation"

// CopiedMessage is the confirmation emitted after the fallback share.
const CopiedMessage = "Result copied to clipboard."

// ErrUnavailable is returned by a Sharer whose surface does not exist on this
// machine. FallbackSharer treats it as "try the next one".
var ErrUnavailable = errors.New("share surface unavailable")

// Sharer hands the share text to an outside surface.
type Sharer interface {
	Share(ctx context.Context, title, text string) error
}

// WriterSharer writes the text to W and the confirmation line to Notify.
// Notify may be nil, in which case the confirmation goes to W as well.
type WriterSharer struct {
	W      io.Writer
	Notify io.Writer
}

// Share implements Sharer.
func (s WriterSharer) Share(_ context.Context, _ string, text string) error {
	if s.W == nil {
		return ErrUnavailable
	}
	if _, err := fmt.Fprintln(s.W, text); err != nil {
		return fmt.Errorf("export.WriterSharer.Share: %w", err)
	}
	notify := s.Notify
	if notify == nil {
		notify = s.W
	}
	if _, err := fmt.Fprintln(notify, CopiedMessage); err != nil {
		return fmt.Errorf("export.WriterSharer.Share: %w", err)
	}
	return nil
}

// CommandSharer pipes the text to the stdin of an external program,
// e.g. "pbcopy", "wl-copy" or "xclip -selection clipboard".
type CommandSharer struct {
	// Command is split on whitespace; the first field is the program.
	Command string
}

// Share implements Sharer. An empty Command or a program that is not on PATH
// yields ErrUnavailable.
func (s CommandSharer) Share(ctx context.Context, _ string, text string) error {
	fields := strings.Fields(s.Command)
	if len(fields) == 0 {
		return ErrUnavailable
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return fmt.Errorf("export.CommandSharer.Share: %w: %v", ErrUnavailable, err)
	}

	cmd := exec.CommandContext(ctx, path, fields[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("export.CommandSharer.Share: %s: %w (%s)", fields[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// FallbackSharer tries Primary and, only when it reports ErrUnavailable,
// falls back to Fallback. Any other Primary error is returned as is.
type FallbackSharer struct {
	Primary  Sharer
	Fallback Sharer
}

// Share implements Sharer.
func (s FallbackSharer) Share(ctx context.Context, title, text string) error {
	if s.Primary != nil {
		err := s.Primary.Share(ctx, title, text)
		if err == nil || !errors.Is(err, ErrUnavailable) {
			return err
		}
	}
	if s.Fallback == nil {
		return ErrUnavailable
	}
	return s.Fallback.Share(ctx, title, text)
}
