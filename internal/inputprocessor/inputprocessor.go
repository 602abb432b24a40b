package inputprocessor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// MaxPromptBytes caps how much text is read from a file, stdin or URL.
const MaxPromptBytes = 64 << 10

// Source says where prompt text came from.
type Source string

const (
	SourceRaw   Source = "raw"
	SourceFile  Source = "file"
	SourceStdin Source = "stdin"
	SourceURL   Source = "url"
)

// Result is resolved prompt text.
type Result struct {
	Text   string
	Source Source
	// Origin is the file path or URL, empty for raw text and stdin.
	Origin string
}

// Processor turns a command-line argument into prompt text.
type Processor interface {
	Process(ctx context.Context, input string) (Result, error)
}

// New returns a processor reading "-" from stdin.
func New() Processor {
	return &defaultProcessor{
		stdin:  os.Stdin,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithStdin is New with an explicit stdin, for tests.
func NewWithStdin(r io.Reader) Processor {
	return &defaultProcessor{stdin: r, client: &http.Client{Timeout: 15 * time.Second}}
}

type defaultProcessor struct {
	stdin  io.Reader
	client *http.Client
}

// Process resolves input in order: "-" reads stdin, an existing file is read,
// an http(s) URL is fetched, anything else is the prompt itself. The result
// is trimmed and must not be empty.
func (p *defaultProcessor) Process(ctx context.Context, input string) (Result, error) {
	res, err := p.resolve(ctx, input)
	if err != nil {
		return Result{}, err
	}
	res.Text = strings.TrimSpace(res.Text)
	if res.Text == "" {
		return Result{}, fmt.Errorf("prompt from %s is empty", res.Source)
	}
	return res, nil
}

func (p *defaultProcessor) resolve(ctx context.Context, input string) (Result, error) {
	if input == "-" {
		data, err := readLimited(p.stdin)
		if err != nil {
			return Result{}, fmt.Errorf("read stdin: %w", err)
		}
		return Result{Text: data, Source: SourceStdin}, nil
	}

	// A stat failure (including ENAMETOOLONG) means input is not a path.
	if fi, err := os.Stat(input); err == nil && !fi.IsDir() {
		log.Debugf("Reading prompt from file %s", input)
		f, err := os.Open(input)
		if err != nil {
			return Result{}, fmt.Errorf("open %s: %w", input, err)
		}
		defer f.Close()
		data, err := readLimited(f)
		if err != nil {
			return Result{}, fmt.Errorf("read %s: %w", input, err)
		}
		return Result{Text: data, Source: SourceFile, Origin: input}, nil
	}

	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return p.fetch(ctx, u.String())
	}

	return Result{Text: input, Source: SourceRaw}, nil
}

func (p *defaultProcessor) fetch(ctx context.Context, rawURL string) (Result, error) {
	log.Debugf("Fetching prompt from %s", rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		hint, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("fetch %s: status %d: %s", rawURL, resp.StatusCode, strings.TrimSpace(string(hint)))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "text/") {
		return Result{}, fmt.Errorf("fetch %s: unsupported content type %q", rawURL, ct)
	}
	data, err := readLimited(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return Result{Text: data, Source: SourceURL, Origin: rawURL}, nil
}

func readLimited(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPromptBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxPromptBytes {
		return "", fmt.Errorf("prompt exceeds %d bytes", MaxPromptBytes)
	}
	return string(data), nil
}

var _ Processor = (*defaultProcessor)(nil)
