package notify

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"labcompass/lib/chrono"
	"labcompass/lib/labhistory"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func testDigest() Digest {
	previous := time.Date(2024, time.November, 5, 9, 0, 0, 0, chrono.Tokyo()).UnixMilli()
	return Digest{
		Key:  "メディア情報学プログラム",
		Time: time.Date(2024, time.November, 5, 10, 30, 0, 0, chrono.Tokyo()),
		State: labhistory.HistoryState{
			DiffMap: map[string]labhistory.LabDiff{
				"加藤研究室": {FirstChoicePrimary: 1, FirstChoiceTotal: 2},
				"青木研究室": {FirstChoicePrimary: -1, FirstChoiceTotal: 0},
			},
			PreviousTimestamp: &previous,
			ChangedLabs:       2,
		},
	}
}

func TestDigest(t *testing.T) {
	digest := testDigest()
	require.Equal(t, "[lab compass] メディア情報学プログラム: 2 labs changed", digest.Subject())
	require.Equal(
		t,
		"メディア情報学プログラム (2024-11-05 10:30)\n"+
			"compared to 2024-11-05 09:00\n"+
			"\n"+
			"加藤研究室: first choice +2 (primary +1)\n"+
			"青木研究室: first choice 0 (primary -1)\n",
		digest.Body(),
	)
}

func TestDigestWithoutPrevious(t *testing.T) {
	digest := testDigest()
	digest.State.PreviousTimestamp = nil
	require.NotContains(t, digest.Body(), "compared to")
}

func TestOptionsEnabled(t *testing.T) {
	require.False(t, Options{}.Enabled())
	require.False(t, Options{Smtp: SmtpConfig{Server: "localhost"}}.Enabled())
	require.True(t, Options{Smtp: SmtpConfig{Server: "localhost"}, To: []string{"a@example.com"}}.Enabled())
}

func TestSendSkipsEmptyDigest(t *testing.T) {
	// no server is listening, an attempt to send would fail
	notifier := NewNotifier(Options{
		Smtp: SmtpConfig{Server: "127.0.0.1", Port: 1},
		To:   []string{"bob@email.com"},
	})
	err := notifier.Send(context.Background(), Digest{Key: labhistory.GlobalKey})
	require.NoError(t, err)
}

// TestSendContainer delivers a digest to a fake smtp server, it needs docker
// and is only run when LABSTORE_TEST_CONTAINERS is set.
func TestSendContainer(t *testing.T) {
	if os.Getenv("LABSTORE_TEST_CONTAINERS") == "" {
		t.Skip("LABSTORE_TEST_CONTAINERS is not set")
	}

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	ctx := context.Background()
	smtp, err := testcontainers.GenericContainer(
		ctx,
		testcontainers.GenericContainerRequest{
			Started: true,
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "haravich/fake-smtp-server",
				ExposedPorts: []string{"1025:1025", "1090:1080"},
				WaitingFor:   wait.ForLog("smtp://0.0.0.0:1025"),
			},
		},
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, smtp.Terminate(ctx))
	}()

	notifier := NewNotifier(Options{
		Smtp: SmtpConfig{
			Server:       "localhost",
			Port:         1025,
			EmailAddress: "alice@email.com",
			Password:     "default",
		},
		To: []string{"bob@email.com"},
	})
	require.NoError(t, notifier.Send(ctx, testDigest()))

	res, err := resty.New().R().Get("http://127.0.0.1:1090/messages/1.plain")
	require.NoError(t, err)
	require.Contains(t, res.String(), "加藤研究室: first choice +2 (primary +1)")
}
