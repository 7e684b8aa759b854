package report

import (
	"sort"
	"time"

	"github.com/existflow/timelog/internal/model"
)

// ProjectTotal is the tracked time accumulated for one project.
type ProjectTotal struct {
	Project string
	Records int
	Total   time.Duration
}

// Summary aggregates the full record history for display.
type Summary struct {
	Projects []ProjectTotal
	Total    time.Duration
}

// DayTotal is the tracked time accumulated on one calendar day, local time.
type DayTotal struct {
	Day     string // YYYY-MM-DD
	Records int
	Total   time.Duration
}

// Summarize folds records into per-project totals. Open records count up to
// now, matching how the running timer is displayed.
func Summarize(records []model.TimeRecord, now time.Time) Summary {
	totals := map[string]*ProjectTotal{}
	var sum Summary

	for i := range records {
		rec := &records[i]
		d := rec.Duration(now)

		pt, ok := totals[rec.Project]
		if !ok {
			pt = &ProjectTotal{Project: rec.Project}
			totals[rec.Project] = pt
		}
		pt.Records++
		pt.Total += d
		sum.Total += d
	}

	for _, pt := range totals {
		sum.Projects = append(sum.Projects, *pt)
	}
	sort.Slice(sum.Projects, func(i, j int) bool {
		return sum.Projects[i].Project < sum.Projects[j].Project
	})
	return sum
}

// SummarizeByDay folds records into per-day totals, keyed by the local date of
// each record's start. A record is attributed entirely to the day it started.
func SummarizeByDay(records []model.TimeRecord, now time.Time) []DayTotal {
	totals := map[string]*DayTotal{}

	for i := range records {
		rec := &records[i]
		day := rec.Start.Local().Format("2006-01-02")

		dt, ok := totals[day]
		if !ok {
			dt = &DayTotal{Day: day}
			totals[day] = dt
		}
		dt.Records++
		dt.Total += rec.Duration(now)
	}

	days := make([]DayTotal, 0, len(totals))
	for _, dt := range totals {
		days = append(days, *dt)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	return days
}
