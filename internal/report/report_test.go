package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/existflow/timelog/internal/model"
)

func closedRecord(id, project string, start time.Time, d time.Duration) model.TimeRecord {
	rec := model.NewTimeRecord(id, project, project+"-1", start)
	end := rec.Start.Add(d)
	rec.End = &end
	return rec
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil, time.Now())
	require.Empty(t, sum.Projects)
	require.Zero(t, sum.Total)
}

func TestSummarizeGroupsByProject(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	sum := Summarize([]model.TimeRecord{
		closedRecord("r1", "KP", base, 30*time.Minute),
		closedRecord("r2", "OPS", base.Add(time.Hour), 15*time.Minute),
		closedRecord("r3", "KP", base.Add(2*time.Hour), time.Hour),
	}, base.Add(4*time.Hour))

	require.Len(t, sum.Projects, 2)
	require.Equal(t, "KP", sum.Projects[0].Project)
	require.Equal(t, 2, sum.Projects[0].Records)
	require.Equal(t, 90*time.Minute, sum.Projects[0].Total)
	require.Equal(t, "OPS", sum.Projects[1].Project)
	require.Equal(t, 15*time.Minute, sum.Projects[1].Total)
	require.Equal(t, 105*time.Minute, sum.Total)
}

func TestSummarizeByDayGroupsByStartDate(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	day2 := time.Date(2024, 3, 2, 10, 0, 0, 0, time.Local)

	days := SummarizeByDay([]model.TimeRecord{
		closedRecord("r1", "KP", day1, 30*time.Minute),
		closedRecord("r2", "OPS", day1.Add(2*time.Hour), 15*time.Minute),
		closedRecord("r3", "KP", day2, time.Hour),
	}, day2.Add(4*time.Hour))

	require.Len(t, days, 2)
	require.Equal(t, "2024-03-01", days[0].Day)
	require.Equal(t, 2, days[0].Records)
	require.Equal(t, 45*time.Minute, days[0].Total)
	require.Equal(t, "2024-03-02", days[1].Day)
	require.Equal(t, time.Hour, days[1].Total)
}

func TestSummarizeCountsOpenRecordUpToNow(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	open := model.NewTimeRecord("r1", "KP", "KP-1", base)

	sum := Summarize([]model.TimeRecord{open}, base.Add(20*time.Minute))
	require.Equal(t, 20*time.Minute, sum.Total)
	require.Equal(t, 20*time.Minute, sum.Projects[0].Total)
}
