package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"slices"
	"strings"
	"time"

	"labcompass/lib/labhistory"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("notify")

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Options struct {
	Smtp SmtpConfig `json:"smtp"`
	// To lists the recipients of change digests.
	To []string `json:"to"`
}

func (o Options) Enabled() bool {
	return o.Smtp.Server != "" && len(o.To) > 0
}

// Digest is the change of one snapshot key between two runs.
type Digest struct {
	Key   string
	State labhistory.HistoryState
	// Time is when the newer snapshot was taken.
	Time time.Time
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprint(n)
}

func (d Digest) Subject() string {
	return fmt.Sprintf("[lab compass] %s: %d labs changed", d.Key, d.State.ChangedLabs)
}

// Body lists every changed lab by name with its signed deltas.
func (d Digest) Body() string {
	names := make([]string, 0, len(d.State.DiffMap))
	for name := range d.State.DiffMap {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", d.Key, d.Time.Format("2006-01-02 15:04"))
	if d.State.PreviousTimestamp != nil {
		previous := time.UnixMilli(*d.State.PreviousTimestamp).In(d.Time.Location())
		fmt.Fprintf(&b, "compared to %s\n", previous.Format("2006-01-02 15:04"))
	}
	b.WriteString("\n")
	for _, name := range names {
		diff := d.State.DiffMap[name]
		fmt.Fprintf(
			&b,
			"%s: first choice %s (primary %s)\n",
			name,
			signed(diff.FirstChoiceTotal),
			signed(diff.FirstChoicePrimary),
		)
	}
	return b.String()
}

type Notifier struct {
	options Options
}

func NewNotifier(options Options) Notifier {
	return Notifier{options: options}
}

// Send mails the digest to every recipient, digests without changes are
// dropped.
func (n Notifier) Send(ctx context.Context, digest Digest) error {
	if digest.State.ChangedLabs == 0 {
		return nil
	}

	_, span := tracer.Start(ctx, "Send")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Lab Compass <%s>", n.options.Smtp.EmailAddress)
	mail.To = n.options.To
	mail.Subject = digest.Subject()
	mail.Text = []byte(digest.Body())

	addr := fmt.Sprintf("%s:%d", n.options.Smtp.Server, n.options.Smtp.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", n.options.Smtp.EmailAddress, n.options.Smtp.Password, n.options.Smtp.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return fmt.Errorf("send digest for %s: %w", digest.Key, err)
	}
	return nil
}
