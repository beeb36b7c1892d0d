package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jonathan/leadprep/internal/interviews"
	"github.com/jonathan/leadprep/internal/leaders"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// maxTitleWidth caps the interview title column.
const maxTitleWidth = 60

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// leadersTable renders one row per leader across every resolved company.
func leadersTable(infos []*leaders.CompanyInfo) string {
	var rows [][]string
	for _, info := range infos {
		for _, l := range info.Leaders {
			rows = append(rows, []string{info.CompanyName, l.Name, l.Title, info.DataSource})
		}
	}
	return renderTable([]string{"Company", "Name", "Title", "Source"}, rows, nil)
}

// interviewsTable renders the ranked interviews of every leader.
func interviewsTable(results []interviews.LeaderInterviews) string {
	var rows [][]string
	for _, res := range results {
		if res.Error != "" {
			rows = append(rows, []string{res.Leader.Name, "", "", "", "error: " + res.Error, ""})
			continue
		}
		for _, iv := range res.Interviews {
			rows = append(rows, []string{
				res.Leader.Name,
				fmt.Sprintf("%.0f", iv.Score),
				interviews.FormatDuration(iv.DurationSeconds),
				strconv.FormatInt(iv.ViewCount, 10),
				text.Trim(iv.Title, maxTitleWidth),
				iv.URL,
			})
		}
	}
	return renderTable(
		[]string{"Leader", "Score", "Length", "Views", "Title", "URL"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	)
}
