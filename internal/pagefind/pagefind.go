// Package pagefind provides access to the pagefind CLI.
package pagefind

import (
	"context"
	"errors"
	"os/exec"

	"braces.dev/errtrace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"
)

// CLI is a handle to the pagefind CLI,
// which is used to generate a search index for a rendered site.
type CLI struct {
	// Pagefind is the path to the pagefind executable.
	// If unset, we'll search $PATH.
	Pagefind string

	// Logger receives the output of the pagefind command
	// one line at a time at debug level.
	Logger *zap.Logger
}

// IndexRequest is a request to generate a search index
// for a website.
type IndexRequest struct {
	// SiteDir is the path to the static website to index.
	SiteDir string // required

	// Path to the directory where pagefind assets are stored
	// relative to SiteDir.
	AssetSubdir string
}

// Index generates a search index for a provided website.
func (c *CLI) Index(ctx context.Context, req IndexRequest) (err error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	exe := c.Pagefind
	if exe == "" {
		exe = "pagefind"
	}

	args := []string{
		"--site", req.SiteDir, "--verbose",
	}
	if req.AssetSubdir != "" {
		args = append(args, "--output-subdir", req.AssetSubdir)
	}

	out := &zapio.Writer{
		Log:   logger.Named("pagefind"),
		Level: zapcore.DebugLevel,
	}
	defer func() {
		err = errtrace.Wrap(errors.Join(err, out.Close()))
	}()

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return errtrace.Errorf("pagefind: %w", err)
	}

	return nil
}
