// Package link validates user-entered URLs and hands them to the OS.
package link

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"tasklet/internal/notify"
)

var ErrEmptyURL = errors.New("url is empty")

const (
	msgEmptyURL   = "Please enter a valid URL."
	msgInvalidURL = "That doesn't look like a valid URL."
	msgOpening    = "Opening link..."
)

// Normalize trims raw and adds an http:// scheme when it has neither
// http:// nor https://.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parse url: %q has no host", raw)
	}
	return u.String(), nil
}

type Opener interface {
	Open(url string) error
}

// SystemOpener asks the desktop environment to open URLs in a browser.
type SystemOpener struct{}

func (SystemOpener) Open(u string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// Open validates raw and opens it. Validation and launch failures are
// reported through n and returned.
func Open(o Opener, n notify.Notifier, raw string) error {
	u, err := Normalize(raw)
	if err != nil {
		if errors.Is(err, ErrEmptyURL) {
			n.Notify(msgEmptyURL, notify.Error)
		} else {
			n.Notify(msgInvalidURL, notify.Error)
		}
		return err
	}
	if err := o.Open(u); err != nil {
		n.Notify(fmt.Sprintf("open failed: %v", err), notify.Error)
		return err
	}
	n.Notify(msgOpening, notify.Success)
	return nil
}
