package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"pfdb/pkg/parse"
	"pfdb/pkg/weapon"
	"pfdb/process"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		weaponFlag string
		jsonFlag   bool
		writeFlag  bool
	)
	cmd := &cobra.Command{
		Use:   "parse <dump>",
		Short: "Extract the statistics of one dump",
		Long: `Extract the statistics of one dump and print them as a table.

The weapon is read from the file name unless --weapon is given, in the form
version/category/rank[/tiebreaker], e.g. 10.0.1/AssaultRifles/11.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			id, err := dumpWeapon(path, weaponFlag)
			if err != nil {
				return err
			}
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			var st parse.Store
			if writeFlag {
				st = process.NewFileStore(filepath.Dir(path)).Dump(filepath.Base(path))
			}
			rs, err := parse.NewOrchestrator(string(b), id, a.cfg.Params(), st).ExtractAll(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonFlag {
				return writeJSON(out, process.NewReport(filepath.Base(path), rs))
			}
			renderStatistics(out, rs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&weaponFlag, "weapon", "w", "", "weapon id, when the file name does not encode it")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&writeFlag, "write", false, "rewrite the dump with repaired labels")
	return cmd
}

func dumpWeapon(path, flag string) (weapon.ID, error) {
	if flag != "" {
		return weapon.ParseID(flag)
	}
	id, err := process.ParseDumpName(path)
	if err != nil {
		return weapon.ID{}, fmt.Errorf("%w (use --weapon)", err)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func renderStatistics(w io.Writer, rs *parse.ResultSet) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Statistic", "Value", "Check"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	for _, s := range rs.Statistics() {
		check := ""
		if s.NeedsRevision {
			check = "needs revision"
		}
		table.Append([]string{s.Kind.String(), strings.Join(s.Values, " | "), check})
	}
	table.SetFooter([]string{rs.Weapon().String(), fmt.Sprintf("%d statistics", rs.Len()), fmt.Sprintf("%d flagged", len(rs.NeedsRevision()))})
	table.Render()
	if missing := rs.Missing(parse.Kinds(parse.TargetsFor(rs.Weapon().Kind()))); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, k := range missing {
			names[i] = k.String()
		}
		fmt.Fprintf(w, "missing: %s\n", strings.Join(names, ", "))
	}
}
