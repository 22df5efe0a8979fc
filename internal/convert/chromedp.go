package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/spigell/cv-tailor/internal/utils"
	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

// ChromeConverter prints HTML drafts to PDF with a headless Chrome.
type ChromeConverter struct {
	ExecPath string
	Timeout  time.Duration
	Paper    Paper
	Logger   *zap.Logger
}

func NewChromeConverter(execPath string, timeout time.Duration, paper Paper, logger *zap.Logger) *ChromeConverter {
	if execPath = strings.TrimSpace(execPath); execPath == "" {
		execPath = os.Getenv("CHROME_PATH")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if paper == (Paper{}) {
		paper = PaperA4
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ChromeConverter{ExecPath: execPath, Timeout: timeout, Paper: paper, Logger: logger}
}

func (c *ChromeConverter) Convert(ctx context.Context, src, dst string) error {
	abs, err := filepath.Abs(src)
	if err != nil {
		return &ConversionError{Source: src, Message: "resolve draft path", Cause: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return &ConversionError{Source: src, Message: "draft is not readable", Cause: err}
	}
	if info.IsDir() {
		return &ConversionError{Source: src, Message: "draft is a directory"}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, c.Timeout)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(abs)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(c.Paper.Width).
				WithPaperHeight(c.Paper.Height).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return &ConversionError{Source: src, Message: "print to pdf", Cause: err}
	}

	if len(pdf) == 0 {
		return &ConversionError{Source: src, Message: "chrome returned an empty pdf"}
	}

	if err := utils.WriteFileAtomic(dst, pdf, 0o644); err != nil {
		return &ConversionError{Source: src, Message: "write pdf", Cause: err}
	}

	c.Logger.Debug("draft converted",
		zap.String("source", src),
		zap.String("output", dst),
		zap.Int("bytes", len(pdf)),
	)

	return nil
}
