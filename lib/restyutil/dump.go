package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

// DirectoryDump keeps every response a client receives in a directory, the
// body in <id>.html and the exchange headers in <id>.txt. A dumped page can
// be analyzed again later with --file.
type DirectoryDump struct {
	directory string
	counter   *uint64
}

func NewDirectoryDump(dir string) (DirectoryDump, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return DirectoryDump{}, err
	}
	return DirectoryDump{directory: dir, counter: new(uint64)}, nil
}

func (d DirectoryDump) nextId(now time.Time) string {
	n := atomic.AddUint64(d.counter, 1)
	return fmt.Sprintf("%s-%d", now.Format("20060102-150405"), n)
}

func (d DirectoryDump) write(name string, contents []byte) {
	err := os.WriteFile(filepath.Join(d.directory, name), contents, 0600)
	if err != nil {
		slog.Warn("failed to write response dump", "name", name, "err", err)
	}
}

func (d DirectoryDump) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	id := d.nextId(res.ReceivedAt())
	d.write(id+".html", res.Body())
	d.write(id+".txt", []byte(formatHttpMessage(res)))
	slog.Debug("dumped response", "id", id, "status", res.StatusCode(), "dir", d.directory)
	return nil
}

// Instrument registers the dump on the client, responses with an error
// status are kept as well.
func (d DirectoryDump) Instrument(client *resty.Client) {
	client.OnAfterResponse(d.onAfterResponse)
}
