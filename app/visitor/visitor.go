// Package visitor classifies links by visiting them. The page is fetched once with a hard timeout,
// then its markup and headers are checked for wallet drainers, fake captchas and known spam channels.
package visitor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
)

// Verdict is a result of a visit
type Verdict int

// enum of verdicts
const (
	Unknown Verdict = iota // visit failed or timed out
	NotSpam
	Spam
	Uncertain // needs a human
)

func (v Verdict) String() string {
	switch v {
	case Unknown:
		return "unknown"
	case NotSpam:
		return "not spam"
	case Spam:
		return "spam"
	case Uncertain:
		return "uncertain"
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

const maxBodySize = 4 * 1024 * 1024

// Params to make a Visitor
type Params struct {
	Timeout   time.Duration // hard limit for a visit, retries included
	UserAgent string
	Retries   int // retries on connection errors and 5xx
}

// Visitor fetches pages and classifies them
type Visitor struct {
	Params
	client *retryablehttp.Client
}

// New makes a Visitor. Zero params get defaults.
func New(params Params) *Visitor {
	if params.Timeout <= 0 {
		params.Timeout = 7 * time.Second
	}
	if params.UserAgent == "" {
		params.UserAgent = "GoogleOther"
	}
	if params.Retries < 0 {
		params.Retries = 0
	}

	client := retryablehttp.NewClient()
	client.RetryMax = params.Retries
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.Logger = retryLogger{}
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.HTTPClient.Timeout = params.Timeout
	return &Visitor{Params: params, client: client}
}

// Visit fetches target and classifies the page. Any failure, including a timeout, is returned as error
// with Unknown verdict.
func (v *Visitor) Visit(ctx context.Context, target string) (Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, v.Timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Unknown, fmt.Errorf("failed to make request for %s: %w", target, err)
	}
	req.Header.Set("User-Agent", v.UserAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		return Unknown, fmt.Errorf("failed to visit %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Unknown, fmt.Errorf("failed to read %s: %w", target, err)
	}

	res := ClassifyPage(resp.StatusCode, resp.Header, body)
	log.Printf("[DEBUG] visited %s, status %d, %s", target, resp.StatusCode, res)
	return res, nil
}

// ClassifyPage classifies a fetched page by its status, headers and body
func ClassifyPage(status int, header http.Header, body []byte) Verdict {
	text := string(body)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Printf("[DEBUG] can't parse page html, %v", err)
		doc = nil
	}

	if isCaptcha(doc, text) {
		// real challenges are served by cloudflare itself, fake ones by the spam site
		genuine := status == http.StatusForbidden && header.Get("Cf-Ray") != "" &&
			header.Get("X-Powered-By") == "" && header.Get("Cf-Cache-Status") == ""
		if genuine {
			return Uncertain
		}
		return Spam
	}
	if hasWalletScripts(doc, text) || isSpamChannel(doc) {
		return Spam
	}
	return NotSpam
}

func isCaptcha(doc *goquery.Document, text string) bool {
	title := ""
	if doc != nil {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	switch {
	case title == "Just a moment..." && strings.Contains(text, "Enable JavaScript and cookies to continue"):
		return true
	case strings.Contains(text, "Attention Required! | Cloudflare"):
		return true
	case strings.Contains(text, "cloudflare") && strings.Contains(text, "erify that you are a human"):
		return true
	}
	return false
}

var walletScripts = []string{"cdnjs.cloudflare.com/ajax/libs/ethers", "ethereumjs", "web3.min.js"}

func hasWalletScripts(doc *goquery.Document, text string) bool {
	found := false
	if doc != nil {
		doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src, _ := s.Attr("src")
			found = containsAny(src, walletScripts)
			return !found
		})
	}
	return found || containsAny(text, walletScripts)
}

// isSpamChannel detects preview pages of telegram channels run by known spam networks
func isSpamChannel(doc *goquery.Document) bool {
	if doc == nil {
		return false
	}
	page := doc.Text()
	spam := false
	doc.Find(`span[dir="auto"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name := strings.TrimSpace(s.Text())
		switch {
		case strings.HasPrefix(name, "American groundhog"), name == "X Leaks":
			spam = true
		case strings.HasPrefix(name, "WikiLeaks") && strings.Contains(page, "We are here to bring you the truth"):
			spam = true
		case name == "Memento" && strings.Contains(page, "Uncover hidden truths, decode mysteries"):
			spam = true
		}
		return !spam
	})
	return spam
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// retryLogger sends retryablehttp messages to the debug log
type retryLogger struct{}

func (retryLogger) Printf(format string, args ...any) {
	log.Printf("[DEBUG] "+format, args...)
}
