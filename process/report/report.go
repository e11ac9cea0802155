// Package report summarises the extraction state of the stored weapons.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"

	"pfdb/pkg/weapon"
)

// Row is one stored weapon dump.
type Row struct {
	Weapon      string
	Version     string
	Category    weapon.Category
	Rank        int
	Revision    int
	Statistics  int
	Flagged     int
	ExtractedAt *time.Time
}

// Flag is one statistic waiting for a manual check.
type Flag struct {
	Weapon string
	Kind   string
	Values []string
}

type Filter struct {
	// Version limits the report to one release, e.g. "10.0.1".
	Version string
	// FlaggedOnly drops weapons without flagged statistics.
	FlaggedOnly bool
}

const rowsQuery = `SELECT wt.weapon, wt.version, wt.category, wt.rank, wt.revision, wt.extracted_at,
	COUNT(s.id) AS statistics,
	COUNT(s.id) FILTER (WHERE s.needs_revision) AS flagged
FROM weapon_texts wt
LEFT JOIN statistics s ON s.weapon_text_id = wt.id`

func buildQuery(f Filter) (string, []any) {
	var b strings.Builder
	b.WriteString(rowsQuery)
	var args []any
	if f.Version != "" {
		args = append(args, f.Version)
		b.WriteString("\nWHERE wt.version = $1")
	}
	b.WriteString("\nGROUP BY wt.id")
	if f.FlaggedOnly {
		b.WriteString("\nHAVING COUNT(s.id) FILTER (WHERE s.needs_revision) > 0")
	}
	b.WriteString("\nORDER BY wt.number")
	return b.String(), args
}

// Build reads one row per stored dump.
func Build(ctx context.Context, db *sql.DB, f Filter) ([]Row, error) {
	if f.Version != "" {
		v, err := weapon.ParseVersion(f.Version)
		if err != nil {
			return nil, err
		}
		f.Version = v.String()
	}
	q, args := buildQuery(f)
	rs, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("report query: %w", err)
	}
	defer rs.Close()
	var out []Row
	for rs.Next() {
		var r Row
		var cat int
		var at sql.NullTime
		if err := rs.Scan(&r.Weapon, &r.Version, &cat, &r.Rank, &r.Revision, &at, &r.Statistics, &r.Flagged); err != nil {
			return nil, err
		}
		r.Category = weapon.Category(cat)
		if at.Valid {
			t := at.Time
			r.ExtractedAt = &t
		}
		out = append(out, r)
	}
	return out, rs.Err()
}

// Flags lists flagged statistics, newest first. limit <= 0 means all.
func Flags(ctx context.Context, db *sql.DB, limit int) ([]Flag, error) {
	q := `SELECT weapon, kind, "values" FROM statistics WHERE needs_revision ORDER BY id DESC`
	var args []any
	if limit > 0 {
		q += " LIMIT $1"
		args = append(args, limit)
	}
	rs, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("flags query: %w", err)
	}
	defer rs.Close()
	var out []Flag
	for rs.Next() {
		var f Flag
		var raw sql.NullString
		if err := rs.Scan(&f.Weapon, &f.Kind, &raw); err != nil {
			return nil, err
		}
		if raw.Valid && raw.String != "" {
			if err := sonic.UnmarshalString(raw.String, &f.Values); err != nil {
				return nil, fmt.Errorf("statistic values of %s: %w", f.Weapon, err)
			}
		}
		out = append(out, f)
	}
	return out, rs.Err()
}

var header = []string{"Weapon", "Category", "Rank", "Revision", "Statistics", "Flagged", "Extracted"}

func (r Row) cells() []string {
	extracted := "never"
	if r.ExtractedAt != nil {
		extracted = r.ExtractedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		r.Weapon,
		r.Category.String(),
		strconv.Itoa(r.Rank),
		strconv.Itoa(r.Revision),
		strconv.Itoa(r.Statistics),
		strconv.Itoa(r.Flagged),
		extracted,
	}
}

// Render writes rows as a text table with a totals footer.
func Render(w io.Writer, rows []Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	stats, flagged := 0, 0
	for _, r := range rows {
		table.Append(r.cells())
		stats += r.Statistics
		flagged += r.Flagged
	}
	table.SetFooter([]string{fmt.Sprintf("%d weapons", len(rows)), "", "", "", strconv.Itoa(stats), strconv.Itoa(flagged), ""})
	table.Render()
}

// WriteXLSX saves rows, and flags when there are any, as a workbook.
func WriteXLSX(path string, rows []Row, flags []Flag) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Weapons"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := setRow(f, sheet, 1, toAny(header)); err != nil {
		return err
	}
	for i, r := range rows {
		extracted := any("")
		if r.ExtractedAt != nil {
			extracted = r.ExtractedAt.UTC()
		}
		vals := []any{r.Weapon, r.Category.String(), r.Rank, r.Revision, r.Statistics, r.Flagged, extracted}
		if err := setRow(f, sheet, i+2, vals); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "G", "G", 22); err != nil {
		return err
	}

	if len(flags) > 0 {
		fs := "Flagged"
		if _, err := f.NewSheet(fs); err != nil {
			return err
		}
		if err := setRow(f, fs, 1, []any{"Weapon", "Statistic", "Values"}); err != nil {
			return err
		}
		for i, fl := range flags {
			if err := setRow(f, fs, i+2, []any{fl.Weapon, fl.Kind, strings.Join(fl.Values, " | ")}); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(fs, "A1", "C1", headerStyle); err != nil {
			return err
		}
		if err := f.SetColWidth(fs, "A", "C", 28); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, row int, vals []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &vals)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
