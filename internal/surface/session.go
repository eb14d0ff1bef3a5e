package surface

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/flykit-labs/flykit/internal/extension"
	"github.com/flykit-labs/flykit/internal/logging"
	"github.com/flykit-labs/flykit/internal/userdata"
)

// ErrIsolatedWorld is returned for scripts asking for an isolated world,
// which init scripts cannot provide.
var ErrIsolatedWorld = errors.New("isolated world scripts are not supported")

// Options configures a Session.
type Options struct {
	Headless      bool
	Homepage      string
	DownloadDir   string
	InstallDriver bool // download the Playwright driver and Chromium first
}

// Session is one browser with a single context shared by all its tabs.
type Session struct {
	opts    Options
	logger  *zap.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext

	packages chan string
	done     chan struct{}
	doneOnce sync.Once
	wg       sync.WaitGroup

	mu     sync.Mutex
	pages  int
	opened bool
}

// Start launches Chromium and returns a session with no tabs open.
func Start(opts Options, logger *zap.Logger) (*Session, error) {
	logger = logging.OrNop(logger)
	if opts.DownloadDir == "" {
		dir, err := userdata.GetCacheDir()
		if err != nil {
			return nil, err
		}
		opts.DownloadDir = dir
	}
	if err := os.MkdirAll(opts.DownloadDir, userdata.DirPermNormal); err != nil {
		return nil, fmt.Errorf("creating download directory: %w", err)
	}

	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if opts.InstallDriver {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("installing playwright: %w", err)
		}
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		AcceptDownloads: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	s := &Session{
		opts:     opts,
		logger:   logger,
		pw:       pw,
		browser:  browser,
		context:  bctx,
		packages: make(chan string, 8),
		done:     make(chan struct{}),
	}
	browser.OnDisconnected(func(playwright.Browser) { s.finish() })
	bctx.OnPage(s.track)
	return s, nil
}

// AddScript registers script for every page opened in the session,
// including pages already open once they navigate.
func (s *Session) AddScript(script extension.Script) error {
	if script.World == extension.WorldIsolated {
		return fmt.Errorf("script %q: %w", script.Name, ErrIsolatedWorld)
	}
	err := s.context.AddInitScript(playwright.Script{
		Content: playwright.String(wrapSource(script)),
	})
	if err != nil {
		return fmt.Errorf("adding init script %q: %w", script.Name, err)
	}
	return nil
}

// NewTab opens url in a new tab; an empty url opens the homepage.
func (s *Session) NewTab(url string) error {
	if url == "" {
		url = s.opts.Homepage
	}
	page, err := s.context.NewPage()
	if err != nil {
		return fmt.Errorf("opening tab: %w", err)
	}
	if url == "" {
		return nil
	}
	if _, err := page.Goto(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Packages delivers the saved path of every finished .ebx download.
func (s *Session) Packages() <-chan string {
	return s.packages
}

// Done is closed once the browser disconnects or its last tab closes.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close shuts the browser down and waits for pending downloads.
func (s *Session) Close() error {
	var errs []error
	if err := s.context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing context: %w", err))
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing browser: %w", err))
	}
	s.finish()
	s.wg.Wait()
	if err := s.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stopping playwright: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Session) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// track counts open pages and routes their downloads.
func (s *Session) track(page playwright.Page) {
	s.mu.Lock()
	s.pages++
	s.opened = true
	s.mu.Unlock()

	page.OnDownload(func(d playwright.Download) {
		s.wg.Add(1)
		go s.save(d)
	})
	page.OnClose(func(playwright.Page) {
		s.mu.Lock()
		s.pages--
		last := s.opened && s.pages == 0
		s.mu.Unlock()
		if last {
			s.finish()
		}
	})
}

func (s *Session) save(d playwright.Download) {
	defer s.wg.Done()
	log := s.logger.With(zap.String("url", d.URL()))

	target := downloadPath(s.opts.DownloadDir, d.SuggestedFilename())
	if err := d.SaveAs(target); err != nil {
		log.Warn("saving download", zap.Error(err))
		return
	}
	log.Info("download saved", zap.String("path", target))

	if !extension.IsPackage(target) {
		return
	}
	select {
	case s.packages <- target:
	case <-s.done:
		log.Warn("session ended before package could be installed", zap.String("path", target))
	}
}

// downloadPath picks a file name under dir for a suggested name, never
// overwriting an existing file.
func downloadPath(dir, suggested string) string {
	name := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(suggested, `\`, "/")))
	if name == "." || name == string(filepath.Separator) {
		name = "download"
	}
	target := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			return target
		}
		target = filepath.Join(dir, stem+"-"+strconv.Itoa(i)+ext)
	}
}
