package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkordes/gas-calc/internal/calc"
	"github.com/pkordes/gas-calc/internal/domain"
)

// printCLI writes the segment table followed by the result block.
func printCLI(w io.Writer, c domain.Calculation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tON\tDATE\tSTART\tEND\tKM\tPEOPLE")
	for i, row := range c.Rows {
		on := "yes"
		if !row.Included {
			on = "no"
		}
		date := row.Date
		if date == "" {
			date = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			i+1, on, date,
			orDash(calc.FormatInput(row.StartOdometer)),
			orDash(calc.FormatInput(row.EndOdometer)),
			calc.FormatKm(row.EffectiveDistanceKm),
			row.ParticipantCount,
		)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Distance:    %s km\n", c.View.SumKm)
	fmt.Fprintf(w, "Fuel:        %s L\n", c.View.Liters)
	fmt.Fprintf(w, "Total:       %s\n", c.View.Total)
	fmt.Fprintf(w, "Per km:      %s\n", c.View.PerKm)
	fmt.Fprintf(w, "Per person:  %s\n", c.View.PerPerson)
	if c.View.Warning != "" {
		fmt.Fprintf(w, "Warning:     %s\n", c.View.Warning)
	}
}

// jsonOutput is the --json shape: the numbers plus their display strings.
type jsonOutput struct {
	TotalDistanceKm       float64           `json:"totalDistanceKm"`
	TotalLiters           float64           `json:"totalLiters"`
	TotalCost             float64           `json:"totalCost"`
	CostPerKm             float64           `json:"costPerKm"`
	CostPerPerson         float64           `json:"costPerPerson"`
	CountedSegments       int               `json:"countedSegments"`
	EffectiveParticipants int               `json:"effectiveParticipants"`
	View                  domain.ResultView `json:"view"`
}

func printJSON(w io.Writer, c domain.Calculation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonOutput{
		TotalDistanceKm:       c.Result.TotalDistanceKm,
		TotalLiters:           c.Result.TotalLiters,
		TotalCost:             c.Result.TotalCost,
		CostPerKm:             c.Result.CostPerKm,
		CostPerPerson:         c.Result.CostPerPerson,
		CountedSegments:       c.Result.CountedSegments,
		EffectiveParticipants: c.Result.EffectiveParticipants,
		View:                  c.View,
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
