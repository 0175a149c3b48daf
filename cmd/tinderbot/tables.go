package main

import (
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"tinderbot/pkg/auth"
	"tinderbot/pkg/models"
)

func newTable(out io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	return t
}

// renderMatches prints one row per match, ordered by name
func renderMatches(out io.Writer, matches []models.Match) {
	sorted := append([]models.Match(nil), matches...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Person.Name < sorted[j].Person.Name })

	t := newTable(out, table.Row{"Name", "Profile ID", "Match ID", "Messages"})
	for _, m := range sorted {
		t.AppendRow(table.Row{m.Person.Name, m.Person.ID, m.ID, len(m.Messages)})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(sorted)})
	t.Render()
}

// renderPeople prints id and name of each profile, ordered by name
func renderPeople(out io.Writer, people map[string]models.Profile) {
	ids := make([]string, 0, len(people))
	for id := range people {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return people[ids[i]].Name < people[ids[j]].Name })

	t := newTable(out, table.Row{"Name", "Profile ID"})
	for _, id := range ids {
		t.AppendRow(table.Row{people[id].Name, id})
	}
	t.Render()
}

// renderAccounts prints stored accounts with the token masked
func renderAccounts(out io.Writer, accounts []*auth.Account) {
	t := newTable(out, table.Row{"Account", "Token", "Facebook ID", "Last Modified"})
	for _, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		t.AppendRow(table.Row{
			sanitized.Name,
			sanitized.FacebookToken,
			sanitized.FacebookID,
			sanitized.LastModified.Format("2006-01-02 15:04:05"),
		})
	}
	t.Render()
}
