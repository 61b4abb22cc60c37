package ui

import (
	"io"
	"sort"

	"github.com/vietdv277/appsctl/internal/config"
)

func contextItems(contexts map[string]*config.Context, current string) []PickItem {
	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]PickItem, len(names))
	for i, name := range names {
		ctx := contexts[name]
		items[i] = PickItem{
			Name:    name,
			Columns: []string{ctx.Profile, ctx.Region},
			Details: [][2]string{
				{"Context:", name},
				{"Profile:", ctx.Profile},
				{"Region:", ctx.Region},
				{"Endpoint:", ctx.EndpointURL},
			},
			Current: name == current,
		}
	}
	return items
}

// SelectContext runs the interactive context selector and returns the
// selected context name. The current context is pre-highlighted.
func SelectContext(contexts map[string]*config.Context, current string) (string, error) {
	return Pick("contexts", contextItems(contexts, current))
}

// PrintContextTable prints contexts in a styled table
func PrintContextTable(w io.Writer, contexts map[string]*config.Context, current string) error {
	t := NewTable("", "Name", "Profile", "Region", "Endpoint")
	t.Styles[0] = SuccessStyle
	t.Styles[1] = NameStyle
	t.Styles[3] = MutedStyle
	for _, item := range contextItems(contexts, current) {
		marker := ""
		if item.Current {
			marker = "*"
		}
		ctx := contexts[item.Name]
		t.AddRow(marker, item.Name, orDash(ctx.Profile), orDash(ctx.Region), orDash(ctx.EndpointURL))
	}
	return t.Print(w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
