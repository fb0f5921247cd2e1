package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/yungbote/placesync/internal/data/repos"
	"github.com/yungbote/placesync/internal/platform/dbctx"
	"github.com/yungbote/placesync/internal/platform/logger"
)

// Summary maps country to person count, in query order (count descending,
// then country ascending). It marshals as a JSON object whose keys keep that
// order, which a plain map cannot do.
type Summary []repos.CountryCount

func (s Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, row := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(row.Country)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(row.People, 10))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Reporter builds the per-country summary and writes it as the output artifact.
type Reporter struct {
	repo     repos.SummaryRepo
	encoding string
	log      *logger.Logger
}

func NewReporter(repo repos.SummaryRepo, encoding string, baseLog *logger.Logger) *Reporter {
	return &Reporter{
		repo:     repo,
		encoding: encoding,
		log:      baseLog.With("component", "Reporter"),
	}
}

func (r *Reporter) Generate(dbc dbctx.Context) (Summary, error) {
	rows, err := r.repo.CountryCounts(dbc)
	if err != nil {
		return nil, fmt.Errorf("country counts: %w", err)
	}
	return Summary(rows), nil
}

// WriteFile serializes the summary with two-space indentation and non-ASCII
// characters verbatim, in the configured artifact encoding, then logs a
// per-country preview.
func (r *Reporter) WriteFile(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	out, tw, err := encodeWriter(f, r.encoding)
	if err != nil {
		f.Close()
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("write summary to %s: %w", path, err)
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			f.Close()
			return fmt.Errorf("encode summary for %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	r.log.Info("summary written", "path", path, "countries", len(s))
	for _, row := range s {
		r.log.Info("summary entry", "country", row.Country, "people", row.People)
	}
	return nil
}

// encodeWriter wraps w in a charset encoder when the artifact encoding is not
// UTF-8. The returned transform.Writer, when non-nil, must be closed to flush
// before the underlying file.
func encodeWriter(w io.Writer, name string) (io.Writer, *transform.Writer, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	if norm == "" || norm == "utf-8" || norm == "utf8" {
		return w, nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, nil, fmt.Errorf("unsupported output encoding %q", name)
	}
	tw := transform.NewWriter(w, enc.NewEncoder())
	return tw, tw, nil
}
