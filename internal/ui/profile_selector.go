package ui

import (
	"io"

	"github.com/vietdv277/appsctl/internal/aws"
)

func profileItems(profiles []aws.Profile, active string) []PickItem {
	items := make([]PickItem, len(profiles))
	for i, p := range profiles {
		items[i] = PickItem{
			Name:    p.Name,
			Columns: []string{p.Region, p.Source},
			Details: [][2]string{
				{"Profile:", p.Name},
				{"Region:", p.Region},
				{"Source:", p.Source},
			},
			Current: p.Name == active,
		}
	}
	return items
}

// SelectProfile runs the interactive profile selector and returns the chosen profile name
func SelectProfile(profiles []aws.Profile, active string) (string, error) {
	return Pick("profiles", profileItems(profiles, active))
}

// PrintProfileTable prints profiles in a styled table
func PrintProfileTable(w io.Writer, profiles []aws.Profile, active string) error {
	t := NewTable("", "Name", "Region", "Source")
	t.Styles[0] = SuccessStyle
	t.Styles[1] = NameStyle
	t.Styles[3] = MutedStyle
	for _, p := range profiles {
		marker := ""
		if p.Name == active {
			marker = "*"
		}
		t.AddRow(marker, p.Name, orDash(p.Region), p.Source)
	}
	return t.Print(w)
}
