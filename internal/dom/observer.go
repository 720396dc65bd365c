package dom

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"captive/internal/config"
	"captive/internal/logging"
	"captive/internal/platform"
)

// Observer attaches to a browser page and exposes the platform's caption
// region as a text snapshot source plus a mutation notification stream.
type Observer struct {
	cfg      *config.Config
	logger   *slog.Logger
	platform platform.Platform

	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	mutations   chan struct{}
	stopExpose  func() error
	closeOnce   sync.Once
	pageTimeout time.Duration
}

// New connects an observer to a browser. When the config carries a control
// URL the observer attaches to that running browser; otherwise it launches
// one locally.
func New(cfg *config.Config, p platform.Platform, logger *slog.Logger) (*Observer, error) {
	o := &Observer{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "dom"),
		platform:  p,
		mutations: make(chan struct{}, 16),
	}
	o.pageTimeout = time.Duration(cfg.Browser.PageTimeout) * time.Second
	if o.pageTimeout <= 0 {
		o.pageTimeout = 30 * time.Second
	}

	controlURL := strings.TrimSpace(cfg.Browser.ControlURL)
	if controlURL == "" {
		l := launcher.New().Headless(cfg.Browser.Headless)
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		o.launcher = l
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		if o.launcher != nil {
			o.launcher.Cleanup()
		}
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	o.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		o.teardown()
		return nil, fmt.Errorf("create page: %w", err)
	}
	o.page = page.Timeout(o.pageTimeout)

	return o, nil
}

// Navigate loads the target URL and waits for the page to settle.
func (o *Observer) Navigate(url string) error {
	if err := o.page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := o.page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for page load: %w", err)
	}
	wait := o.page.WaitRequestIdle(3*time.Second, nil, nil, nil)
	wait()
	return nil
}

// Mutations returns the notification channel fed by the injected observer.
// The channel is closed when the observer shuts down.
func (o *Observer) Mutations() <-chan struct{} {
	return o.mutations
}

// CaptionText resolves the platform's selector list against the live page
// and returns the concatenated text of accepted candidates. The bool result
// is false when no selector matches anything, the normal state before
// captions appear.
func (o *Observer) CaptionText() (string, bool) {
	for _, selector := range platform.Selectors(o.platform) {
		elements, err := o.page.Elements(selector)
		if err != nil || len(elements) == 0 {
			continue
		}

		var parts []string
		for _, el := range elements {
			candidate, err := elementCandidate(el)
			if err != nil {
				continue
			}
			if !platform.Accept(o.platform, candidate) {
				continue
			}
			parts = append(parts, strings.TrimSpace(candidate.Text))
		}
		if len(parts) > 0 {
			return strings.Join(parts, " "), true
		}
	}
	return "", false
}

// elementCandidate reduces a DOM element to the shape the content filter
// inspects: visible text plus the class lists of the element and its
// ancestors.
func elementCandidate(el *rod.Element) (platform.Candidate, error) {
	result, err := el.Eval(`() => {
		const classes = [];
		let node = this;
		while (node && node.classList) {
			for (const cls of node.classList) classes.push(cls);
			node = node.parentElement;
		}
		return { text: this.innerText || '', classes: classes };
	}`)
	if err != nil {
		return platform.Candidate{}, err
	}

	candidate := platform.Candidate{Text: result.Value.Get("text").Str()}
	for _, cls := range result.Value.Get("classes").Arr() {
		candidate.Classes = append(candidate.Classes, cls.Str())
	}
	return candidate, nil
}

// WatchCaptions injects a MutationObserver over the document body and
// bridges its callbacks onto the mutation channel. Observation survives
// caption container teardown because the observer watches the body subtree
// rather than the caption nodes themselves.
func (o *Observer) WatchCaptions() error {
	stop, err := o.page.Expose("__captionMutation", func(gson.JSON) (interface{}, error) {
		select {
		case o.mutations <- struct{}{}:
		default:
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("expose mutation callback: %w", err)
	}
	o.stopExpose = stop

	_, err = o.page.Eval(`() => {
		if (window.__captionObserver) return;
		const observer = new MutationObserver(() => {
			window.__captionMutation();
		});
		observer.observe(document.body, {
			childList: true,
			subtree: true,
			characterData: true,
		});
		window.__captionObserver = observer;
	}`)
	if err != nil {
		return fmt.Errorf("install mutation observer: %w", err)
	}

	o.logger.Info("caption observation started",
		logging.String(logging.FieldPlatform, string(o.platform)),
	)
	return nil
}

// Close shuts the observer down and closes the mutation channel. Closing
// twice is safe.
func (o *Observer) Close() {
	o.closeOnce.Do(func() {
		if o.stopExpose != nil {
			_ = o.stopExpose()
		}
		o.teardown()
		close(o.mutations)
	})
}

func (o *Observer) teardown() {
	if o.page != nil {
		_ = o.page.Close()
	}
	if o.browser != nil {
		_ = o.browser.Close()
	}
	if o.launcher != nil {
		o.launcher.Cleanup()
	}
}
