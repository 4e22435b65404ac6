package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/kilianp07/castplan/core/schedule"
	"github.com/kilianp07/castplan/core/session"
)

type format string

const (
	formatTable format = "table"
	formatJSON  format = "json"
)

const unsetLabel = "未設定"

// render writes the schedule of st, one row per program.
func render(w io.Writer, output string, st session.State) error {
	switch format(strings.ToLower(output)) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case formatTable, "":
		return renderTable(w, st)
	default:
		return fmt.Errorf("invalid format %q: must be one of: table, json", output)
	}
}

func renderTable(w io.Writer, st session.State) error {
	if _, err := fmt.Fprintf(w, "番組放送スケジュール %s\n", st.Date); err != nil {
		return err
	}
	casters := make(map[string]string, len(st.Catalogs.Casters))
	for _, c := range st.Catalogs.Casters {
		casters[c.ID] = c.Name
	}
	forecasters := make(map[string]string, len(st.Catalogs.Forecasters))
	for _, f := range st.Catalogs.Forecasters {
		forecasters[f.ID] = f.Name
	}

	table := tablewriter.NewTable(w)
	table.Header("ID", "番組", "担当キャスター", "担当予報士", "クロストーク")
	for _, p := range st.Catalogs.Programs {
		rec, _ := schedule.Find(st.Schedule, p.ID)
		crosstalk := ""
		if rec.HasCrosstalk {
			crosstalk = "✓"
		}
		if err := table.Append(p.ID, p.Name,
			label(casters, rec.Caster()),
			label(forecasters, rec.Forecaster()),
			crosstalk,
		); err != nil {
			return err
		}
	}
	return table.Render()
}

// label resolves an id to its display name. Ids missing from the catalog are
// shown as-is.
func label(names map[string]string, id string) string {
	if id == "" {
		return unsetLabel
	}
	if n, ok := names[id]; ok {
		return n
	}
	return id
}
