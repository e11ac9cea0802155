package process

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"pfdb/pkg/parse"
	"pfdb/pkg/store"
)

// Sinks records a result in each sink in turn.
type Sinks []Sink

func (s Sinks) Record(ctx context.Context, r Result) error {
	for _, sink := range s {
		if err := sink.Record(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Report is the JSON document written for one weapon.
type Report struct {
	Weapon        string                   `json:"weapon"`
	Number        int64                    `json:"number"`
	Source        string                   `json:"source,omitempty"`
	NeedsRevision int                      `json:"needsRevision"`
	Statistics    []parse.LocatedStatistic `json:"statistics"`
}

func NewReport(source string, rs *parse.ResultSet) Report {
	return Report{
		Weapon:        rs.Weapon().String(),
		Number:        rs.Weapon().Number(),
		Source:        source,
		NeedsRevision: len(rs.NeedsRevision()),
		Statistics:    rs.Statistics(),
	}
}

// JSONSink writes <dump>.json next to nothing else: one file per dump in Dir.
type JSONSink struct {
	Dir string
}

func (s JSONSink) Record(_ context.Context, r Result) error {
	b, err := sonic.ConfigStd.MarshalIndent(NewReport(r.Name, r.Set), "", "  ")
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(r.Name, filepath.Ext(r.Name)) + ".json"
	return os.WriteFile(filepath.Join(s.Dir, name), append(b, '\n'), 0o644)
}

// DBSink stores the final dump and its statistics.
type DBSink struct {
	Texts *store.TextStore
	// UploadedBy is recorded as the owner of new dumps when set.
	UploadedBy *uint
}

func (s DBSink) Record(ctx context.Context, r Result) error {
	if _, err := s.Texts.Put(ctx, r.ID, r.Text, s.UploadedBy); err != nil {
		return err
	}
	return s.Texts.SaveResults(ctx, r.Set)
}
