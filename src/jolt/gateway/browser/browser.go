// Package browser opens URLs with the operating system's default handler.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	pkgbrowser "github.com/pkg/browser"
	"go.uber.org/zap"
)

// ErrNoBrowser is returned when the platform offers no way to open a URL.
var ErrNoBrowser = errors.New("no browser found")

// Opener opens URLs outside of the IDE.
type Opener interface {
	// Open launches rawURL in the default handler. It returns ErrNoBrowser when no handler is available.
	Open(ctx context.Context, rawURL string) error
}

type opener struct {
	logger  *zap.SugaredLogger
	openURL func(string) error
}

// New creates an Opener backed by the platform's default browser.
func New(logger *zap.SugaredLogger) Opener {
	return &opener{
		logger:  logger.With("component", "browser"),
		openURL: pkgbrowser.OpenURL,
	}
}

func (o *opener) Open(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme == "" {
		return fmt.Errorf("missing scheme in %q", rawURL)
	}

	o.logger.Infow("opening url", "url", u.Redacted())
	if err := o.openURL(u.String()); err != nil {
		if isUnsupported(err) {
			return fmt.Errorf("%w: %v", ErrNoBrowser, err)
		}
		return err
	}
	return nil
}

func isUnsupported(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || strings.Contains(err.Error(), "unsupported operating system")
}
