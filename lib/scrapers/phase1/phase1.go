package phase1

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"labcompass/lib/labreport"
	"labcompass/lib/restyutil"
	"labcompass/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html/charset"
)

var tracer = otel.Tracer("scrapers/phase1")

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	// URL is the address of the phase1show_labo report page.
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Cookie is sent as is, for pages behind a single sign on session.
	Cookie    string `json:"cookie"`
	UserAgent string `json:"user_agent"`
	// CloudflareBypass swaps the transport for one that mimics a browser
	// tls handshake.
	CloudflareBypass bool `json:"cloudflare_bypass"`
	// DumpDir keeps every fetched page and its headers when set.
	DumpDir string `json:"dump_dir"`
}

type Client struct {
	url  string
	http *resty.Client
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	reportUrl, err := url.Parse(opts.URL)
	if err != nil {
		return nil, err
	}
	if reportUrl.Scheme != "http" && reportUrl.Scheme != "https" {
		return nil, fmt.Errorf("report url must be http(s), got %q", opts.URL)
	}

	client := resty.New()
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client.SetHeader("user-agent", userAgent)
	if opts.Cookie != "" {
		client.SetHeader("cookie", opts.Cookie)
	}
	if opts.Username != "" {
		client.SetBasicAuth(opts.Username, opts.Password)
	}
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(reportUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/phase1/http", tel)
	if opts.DumpDir != "" {
		dump, err := restyutil.NewDirectoryDump(opts.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("create dump directory: %w", err)
		}
		dump.Instrument(client)
	}

	return &Client{
		url:  reportUrl.String(),
		http: client,
	}, nil
}

// Fetch downloads the report page and parses it, the body is decoded to
// utf-8 according to the response headers or the page's own meta tags.
func (c *Client) Fetch(ctx context.Context) (labreport.Document, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return labreport.Document{}, err
	}
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode()))
	if res.IsError() {
		err := fmt.Errorf("fetch %s: unexpected status %s", c.url, res.Status())
		span.SetStatus(codes.Error, err.Error())
		return labreport.Document{}, err
	}

	body, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("content-type"))
	if err != nil {
		span.RecordError(err)
		return labreport.Document{}, fmt.Errorf("decode %s: %w", c.url, err)
	}
	doc, err := labreport.NewDocumentFromReader(body)
	if err != nil {
		span.RecordError(err)
		return labreport.Document{}, fmt.Errorf("parse %s: %w", c.url, err)
	}
	return doc, nil
}
