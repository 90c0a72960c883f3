package rockauto

import (
	"log/slog"
	"net/http/cookiejar"
	"sync"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"

	"github.com/VladimirNTS/Rockauto-Rest-API/internal/models"
)

const (
	defaultBaseURL = "https://www.rockauto.com"
	partSearchPath = "/en/partsearch/"
	catalogAPIPath = "/catalog/catalogapi.php"

	// The mobile profile triggers noticeably fewer CAPTCHA challenges
	// than a desktop one.
	mobileUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/26.0 Mobile/15E148 Safari/604.1"
	desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// Options configures a Client. The zero value is usable and targets
// the real site with the mobile device profile.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	MobileProfile bool
	Logger        *slog.Logger
}

// Client drives the rockauto.com search form and catalog endpoint the
// way a browser would. Each Client owns its own cookie session, token
// state and dropdown caches; instances are fully independent and safe
// for concurrent use.
type Client struct {
	http      *resty.Client
	baseURL   string
	extractor *Extractor
	logger    *slog.Logger

	sessionMu   sync.Mutex
	nckToken    string
	initialized bool

	vocabMu sync.RWMutex
	vocabs  map[models.OptionKind]*models.OptionVocabulary
}

// New builds a Client with a fresh cookie jar and the configured
// device profile.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseURL)
	httpClient.SetCookieJar(jar)
	httpClient.SetTimeout(opts.Timeout)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	if opts.MobileProfile {
		httpClient.SetHeaders(map[string]string{
			"User-Agent":         mobileUserAgent,
			"sec-ch-ua":          `"Chromium";v="139", "Not;A=Brand";v="99"`,
			"sec-ch-ua-mobile":   "?1",
			"sec-ch-ua-platform": `"iOS"`,
		})
	} else {
		httpClient.SetHeader("User-Agent", desktopUserAgent)
	}

	logger := opts.Logger.With("component", "rockauto_client")

	return &Client{
		http:      httpClient,
		baseURL:   opts.BaseURL,
		extractor: NewExtractor(opts.BaseURL, logger),
		logger:    logger,
		vocabs:    make(map[models.OptionKind]*models.OptionVocabulary),
	}, nil
}

// BaseURL returns the upstream origin this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
