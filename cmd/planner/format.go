package main

import (
	"detour-route-service/internal/domain"
	"detour-route-service/internal/services"
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

func printProgress(pct int) {
	dimColor.Fprintf(os.Stderr, "  planning... %3d%%\n", pct)
}

func printError(err error) {
	errorColor.Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err)
}

func printSession(planner *services.Planner, s *services.Session) {
	plan := s.Plan()

	headerColor.Println("Route")
	labelColor.Print("  Departs:  ")
	fmt.Println(s.DepartAt.Format("Mon 15:04"))
	labelColor.Print("  Deadline: ")
	fmt.Println(s.Budget.Deadline.Format("Mon 15:04"))
	labelColor.Print("  Base:     ")
	fmt.Println(domain.FormatDuration(s.Base.DurationSeconds))

	if plan != nil {
		labelColor.Print("  Total:    ")
		fmt.Printf("%s (+%.2f min)\n", domain.FormatDuration(plan.TotalDurationSeconds), plan.ExtraTimeMinutes)

		fmt.Println()
		headerColor.Println("Legs")
		for i, leg := range plan.Legs {
			fmt.Printf("  %2d. %s -> %s  ", i+1, leg.StartAddress, leg.EndAddress)
			dimColor.Printf("%s, ETA %s\n", leg.DurationText, leg.ETA)
		}
	}

	selected := s.Selected()
	fmt.Println()
	headerColor.Printf("Stops (%d)\n", len(selected))
	if len(selected) == 0 {
		dimColor.Println("  none fit the deadline")
	}
	for _, st := range selected {
		successColor.Print("  + ")
		fmt.Printf("%s ", st.Label)
		dimColor.Printf("(+%.2f min)\n", st.ExtraTimeMinutes)
	}

	if s.Request.ShowAll {
		markers := planner.Markers(s)
		fmt.Println()
		headerColor.Printf("Catalog (%d)\n", len(markers))
		for _, m := range markers {
			fmt.Printf("  %s ", m.Label)
			dimColor.Printf("%.4f,%.4f\n", m.Location.Lat, m.Location.Lng)
		}
	}

	for _, w := range s.Warnings() {
		warningColor.Print("Warning: ")
		fmt.Println(w)
	}
}
