package history

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleRun(ts time.Time, functions int, avgComplexity float64) Run {
	return Run{
		Project:   "project-a",
		Timestamp: ts,
		Files:     2,
		Functions: functions,
		Summaries: []MetricSummary{
			{Metric: "cyclomatic_complexity", Strategy: "average", Count: functions, Average: avgComplexity},
			{Metric: "code_lines_count", Strategy: "sum_average", Count: functions, Average: 4, Sum: float64(4 * functions), SumIsInt: true},
			{Metric: "naming_style", Strategy: "categorical", Count: functions, Categories: map[string]int{"Snake Case": functions - 1, "Unknown": 1}},
		},
	}
}

func TestStore_SaveLoadRuns(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	first, err := store.SaveRun(sampleRun(base, 10, 2.5))
	if err != nil {
		t.Fatalf("save first run: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected a generated run id")
	}
	if _, err := store.SaveRun(sampleRun(base.Add(2*time.Hour), 12, 3.0)); err != nil {
		t.Fatalf("save second run: %v", err)
	}

	got, err := store.LoadRuns("project-a", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	if len(got) != 1 || got[0].Functions != 12 {
		t.Fatalf("expected only the second run after since filter, got %+v", got)
	}

	all, err := store.LoadRuns("project-a", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != first.ID {
		t.Fatalf("expected 2 runs oldest first, got %+v", all)
	}
	summaries := all[0].Summaries
	if len(summaries) != 3 || summaries[0].Metric != "cyclomatic_complexity" {
		t.Fatalf("expected summaries in saved order, got %+v", summaries)
	}
	if !summaries[1].SumIsInt || summaries[1].Sum != 40 {
		t.Fatalf("expected sum to roundtrip, got %+v", summaries[1])
	}
	if summaries[2].Categories["Snake Case"] != 9 || summaries[2].Categories["Unknown"] != 1 {
		t.Fatalf("expected categories to roundtrip, got %+v", summaries[2].Categories)
	}
	if !all[0].Timestamp.Equal(base) {
		t.Fatalf("expected timestamp %v, got %v", base, all[0].Timestamp)
	}

	latest, ok, err := store.Latest("project-a")
	if err != nil || !ok || latest.Functions != 12 {
		t.Fatalf("unexpected latest run %+v ok=%v err=%v", latest, ok, err)
	}
}

func TestStore_ProjectIsolation(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	runA := sampleRun(base, 3, 1)
	runB := sampleRun(base, 5, 1)
	runB.Project = "project-b"
	if _, err := store.SaveRun(runA); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun(runB); err != nil {
		t.Fatal(err)
	}

	bRows, err := store.LoadRuns("project-b", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(bRows) != 1 || bRows[0].Functions != 5 {
		t.Fatalf("unexpected project-b rows: %+v", bRows)
	}

	_, ok, err := store.Latest("project-c")
	if err != nil || ok {
		t.Fatalf("expected no runs for unknown project, got ok=%v err=%v", ok, err)
	}
}

func TestStore_DuplicateRunIDFails(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	run := sampleRun(time.Now().UTC(), 2, 1)
	run.ID = "fixed"
	if _, err := store.SaveRun(run); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun(run); err == nil {
		t.Fatal("expected duplicate run id to fail")
	}
	runs, err := store.LoadRuns("project-a", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || len(runs[0].Summaries) != 3 {
		t.Fatalf("expected the failed save to leave one complete run, got %+v", runs)
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	_, err := Open(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	if err := os.WriteFile(path, []byte("this is not sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if err == nil {
		t.Fatal("expected sqlite open error")
	}
	lower := strings.ToLower(err.Error())
	if !strings.Contains(lower, "not a database") && !strings.Contains(lower, "schema") {
		t.Fatalf("expected schema/open error, got: %v", err)
	}
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.db.Exec(`INSERT OR REPLACE INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open(driverName, "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	err = EnsureSchema(db)
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("expected drift error, got %v", err)
	}
}

func TestBuildTrend(t *testing.T) {
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	runs := []Run{
		sampleRun(base, 4, 2.0),
		{ID: "no-summaries", Timestamp: base.Add(time.Hour)},
		sampleRun(base.Add(2*time.Hour), 6, 3.5),
	}

	points, err := BuildTrend(runs, "cyclomatic_complexity")
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Delta != 0 || points[1].Delta != 1.5 {
		t.Fatalf("unexpected deltas %+v", points)
	}

	if _, err := BuildTrend(runs, "naming_style"); err == nil {
		t.Fatal("expected error for categorical metric")
	}
}

func TestIsCorruptError(t *testing.T) {
	if !IsCorruptError(errors.New("database disk image is malformed")) {
		t.Fatal("expected malformed sqlite message to be treated as corrupt")
	}
}
