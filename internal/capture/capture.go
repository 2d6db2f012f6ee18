// Package capture renders storefront pages in headless Chrome and saves
// full-page screenshots for later upload.
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// DefaultTimeout bounds navigation of each viewport.
const DefaultTimeout = 30 * time.Second

// idleWindow is how long the network must stay quiet before capture.
const idleWindow = 500 * time.Millisecond

// Viewport is one emulated device.
type Viewport struct {
	Name   string
	Width  int
	Height int
	Scale  float64
	Mobile bool
}

var (
	Desktop = Viewport{Name: "desktop", Width: 1440, Height: 900, Scale: 1}
	Mobile  = Viewport{Name: "mobile", Width: 390, Height: 844, Scale: 3, Mobile: true}
)

// Viewports lists what Capture renders, in output order.
var Viewports = []Viewport{Desktop, Mobile}

// FileName returns screenshot[-label][-mobile].png.
func FileName(label string, v Viewport) string {
	name := "screenshot"
	if label = strings.TrimSpace(label); label != "" {
		name += "-" + label
	}
	if v.Mobile {
		name += "-mobile"
	}
	return name + ".png"
}

// Options configures a Capturer.
type Options struct {
	// ControlURL connects to a running Chrome instead of launching one.
	ControlURL string
	Timeout    time.Duration
	Log        *zap.Logger
}

// Capturer drives a headless browser.
type Capturer struct {
	opts Options
}

// New constructs a Capturer. Chrome is only started by Capture.
func New(opts Options) *Capturer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Capturer{opts: opts}
}

// Capture renders url once per viewport and writes the PNGs into dir,
// returning their absolute paths.
func (c *Capturer) Capture(ctx context.Context, url, dir, label string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	browser, cleanup, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	paths := make([]string, 0, len(Viewports))
	for _, v := range Viewports {
		png, err := c.shoot(browser, url, v)
		if err != nil {
			return paths, fmt.Errorf("%s screenshot: %w", v.Name, err)
		}
		p := filepath.Join(abs, FileName(label, v))
		if err := os.WriteFile(p, png, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		c.opts.Log.Info("screenshot_saved", zap.String("viewport", v.Name), zap.String("path", p), zap.Int("bytes", len(png)))
		paths = append(paths, p)
	}
	return paths, nil
}

func (c *Capturer) connect(ctx context.Context) (*rod.Browser, func(), error) {
	wsURL := c.opts.ControlURL
	var l *launcher.Launcher
	if wsURL == "" {
		l = launcher.New().Headless(true).NoSandbox(true)
		u, err := l.Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("launch chrome: %w", err)
		}
		wsURL = u
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, nil, fmt.Errorf("connect chrome: %w", err)
	}
	if err := b.IgnoreCertErrors(true); err != nil {
		c.opts.Log.Warn("ignore_cert_errors_failed", zap.Error(err))
	}

	cleanup := func() {
		_ = b.Close()
		if l != nil {
			l.Kill()
			l.Cleanup()
		}
	}
	return b, cleanup, nil
}

func (c *Capturer) shoot(b *rod.Browser, url string, v Viewport) ([]byte, error) {
	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             v.Width,
		Height:            v.Height,
		DeviceScaleFactor: v.Scale,
		Mobile:            v.Mobile,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	p := page.Timeout(c.opts.Timeout)
	waitIdle := p.WaitRequestIdle(idleWindow, nil, nil, nil)
	if err := p.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	waitIdle()

	return page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}
