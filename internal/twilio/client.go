package twilio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sdk "github.com/twilio/twilio-go"
	sdkclient "github.com/twilio/twilio-go/client"
)

const (
	DefaultVideoURL = "https://video.twilio.com"
	DefaultMediaURL = "https://media.twilio.com"

	defaultTimeout = 30 * time.Second
	providerDomain = ".twilio.com"
)

// Options configures a Client. VideoURL and MediaURL override the public
// endpoints, for a proxy or a local fake.
type Options struct {
	AccountSID string
	APIKey     string
	APISecret  string
	VideoURL   string
	MediaURL   string
	Timeout    time.Duration
	// Transport is the round tripper under the endpoint guard. Defaults to
	// http.DefaultTransport.
	Transport http.RoundTripper
}

// Client wraps the SDK rest client and is safe for concurrent use.
//
// The SDK does not accept a context. Each call checks ctx before it starts
// and is otherwise bounded by the HTTP timeout.
type Client struct {
	rest       *sdk.RestClient
	httpClient *http.Client
}

// New builds a Client authenticating with an API key/secret pair.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	next := opts.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	routes := make(map[string]*url.URL)
	addRoute(routes, "video", opts.VideoURL, DefaultVideoURL)
	addRoute(routes, "media", opts.MediaURL, DefaultMediaURL)

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: &endpointGuard{next: next, routes: routes},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	base := &sdkclient.Client{
		Credentials: sdkclient.NewCredentials(opts.APIKey, opts.APISecret),
		HTTPClient:  httpClient,
	}
	base.SetAccountSid(opts.AccountSID)

	return &Client{
		rest:       sdk.NewRestClientWithParams(sdk.ClientParams{Client: base}),
		httpClient: httpClient,
	}
}

// addRoute registers override as the target for the product's public host.
// Empty, default or unparsable overrides leave the public host in place.
func addRoute(routes map[string]*url.URL, product, override, def string) {
	override = strings.TrimRight(override, "/")
	if override == "" || override == def {
		return
	}
	u, err := url.Parse(override)
	if err != nil || u.Host == "" {
		return
	}
	routes[product] = u
}

// endpointGuard rewrites provider hosts to configured overrides and refuses
// any other destination, so basic-auth credentials never leave the provider
// or its configured stand-ins.
type endpointGuard struct {
	next   http.RoundTripper
	routes map[string]*url.URL
}

func (g *endpointGuard) RoundTrip(req *http.Request) (*http.Response, error) {
	host := req.URL.Hostname()

	if strings.HasSuffix(host, providerDomain) && req.URL.Scheme == "https" {
		product, _, _ := strings.Cut(host, ".")
		target, ok := g.routes[product]
		if !ok {
			return g.next.RoundTrip(req)
		}

		out := req.Clone(req.Context())
		out.URL.Scheme = target.Scheme
		out.URL.Host = target.Host
		out.Host = target.Host
		return g.next.RoundTrip(out)
	}

	for _, target := range g.routes {
		if req.URL.Scheme == target.Scheme && req.URL.Host == target.Host {
			return g.next.RoundTrip(req)
		}
	}

	if req.Body != nil {
		_ = req.Body.Close()
	}
	return nil, fmt.Errorf("%w: %s://%s", ErrForeignHost, req.URL.Scheme, req.URL.Host)
}

func checkContext(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
