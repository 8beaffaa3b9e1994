package phase1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"labcompass/lib/labreport"
	"labcompass/lib/telemetry"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

const page = `<html><head><title>配属</title></head><body>
<dl><dt>メディア情報学プログラム</dt><dd>
<table>
<tr><th>研究室名</th><th>定員</th><th>第1希望</th><th>第2希望</th><th>第3希望</th></tr>
<tr><td>青木研究室</td><td>5(3,2,0)</td><td>5(4,1,0)</td><td>0</td><td>0</td></tr>
</table></dd></dl>
</body></html>`

func newTestClient(t *testing.T, server *httptest.Server, opts ClientOptions) (*Client, *telemetry.Recorder) {
	t.Helper()
	t.Cleanup(telemetry.SetupForTesting(t, "test:scrapers/phase1"))

	opts.URL = server.URL + "/phase1show_labo"
	tel := &telemetry.Recorder{Inner: telemetry.SlogAPI{}}
	client, err := NewClient(opts, tel)
	require.NoError(t, err)
	return client, tel
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)
	return ctx
}

func TestFetchUTF8(t *testing.T) {
	var gotUserAgent, gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("user-agent")
		gotCookie = r.Header.Get("cookie")
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, ClientOptions{Cookie: "_shibsession=abc"})
	doc, err := client.Fetch(ctx(t))
	require.NoError(t, err)

	labs := labreport.ParseLabSummaries(doc)
	require.Len(t, labs, 1)
	require.Equal(t, "青木研究室", labs[0].Name)
	require.Equal(t, "メディア情報学プログラム", labs[0].ProgramName)
	require.Equal(t, defaultUserAgent, gotUserAgent)
	require.Equal(t, "_shibsession=abc", gotCookie)
}

func TestFetchShiftJIS(t *testing.T) {
	encoded, err := japanese.ShiftJIS.NewEncoder().String(page)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html; charset=Shift_JIS")
		w.Write([]byte(encoded))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, ClientOptions{})
	doc, err := client.Fetch(ctx(t))
	require.NoError(t, err)

	labs := labreport.ParseLabSummaries(doc)
	require.Len(t, labs, 1)
	require.Equal(t, "青木研究室", labs[0].Name)
}

func TestFetchBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "d2210001" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, ClientOptions{Username: "d2210001", Password: "secret"})
	_, err := client.Fetch(ctx(t))
	require.NoError(t, err)

	anonymous, _ := newTestClient(t, server, ClientOptions{})
	_, err = anonymous.Fetch(ctx(t))
	require.ErrorContains(t, err, "401")
}

func TestFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, tel := newTestClient(t, server, ClientOptions{})
	server.Close()

	_, err := client.Fetch(ctx(t))
	require.Error(t, err)
	require.NotEmpty(t, tel.Reports("broken", "resty.response"))
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(ClientOptions{URL: "ftp://example.com/report"}, telemetry.SlogAPI{})
	require.Error(t, err)

	_, err = NewClient(ClientOptions{URL: "://"}, telemetry.SlogAPI{})
	require.Error(t, err)
}

func TestFetchDump(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "pages")
	client, _ := newTestClient(t, server, ClientOptions{DumpDir: dir})
	_, err := client.Fetch(ctx(t))
	require.NoError(t, err)

	pages, err := filepath.Glob(filepath.Join(dir, "*.html"))
	require.NoError(t, err)
	require.Len(t, pages, 1)

	doc, err := labreport.LoadFile(pages[0])
	require.NoError(t, err)
	require.Len(t, labreport.ParseLabSummaries(doc), 1)
}
