package main

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"beholder/internal/store"
)

// stageRow is one stage or subtask record flattened for display.
type stageRow struct {
	Job      string
	Stage    string
	Subtask  string
	Percent  string
	Started  string
	Finished string
}

var statusHeaders = []string{"JOB", "STAGE", "SUBTASK", "PERCENT", "STARTED", "FINISHED"}

// collectStageRows reads every job record from the state store and flattens
// it for the status table. Rows are ordered by job, stage, subtask.
func collectStageRows(ctx context.Context, st store.Store) ([]stageRow, error) {
	keys, err := st.KeysByPrefix(ctx, store.JobKeyPrefix)
	if err != nil {
		return nil, err
	}

	rows := make([]stageRow, 0, len(keys))
	for _, key := range keys {
		parts := strings.Split(key, ":")
		if len(parts) < 3 || len(parts) > 4 || parts[0] != "job" {
			continue
		}

		row := stageRow{Job: parts[1], Stage: parts[2]}
		if len(parts) == 4 {
			row.Subtask = parts[3]
		}
		row.Percent = readField(ctx, st, key, store.FieldPercent)
		row.Started = readTimestampField(ctx, st, key, store.FieldStarted)
		row.Finished = readTimestampField(ctx, st, key, store.FieldFinished)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Job != rows[j].Job {
			return rows[i].Job < rows[j].Job
		}
		if rows[i].Stage != rows[j].Stage {
			return rows[i].Stage < rows[j].Stage
		}
		return rows[i].Subtask < rows[j].Subtask
	})
	return rows, nil
}

func readField(ctx context.Context, st store.Store, key, field string) string {
	value, err := st.GetField(ctx, key, field)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "-"
		}
		return "?"
	}
	return value
}

func readTimestampField(ctx context.Context, st store.Store, key, field string) string {
	raw := readField(ctx, st, key, field)
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return raw
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

func statusCells(rows []stageRow) [][]string {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{row.Job, row.Stage, row.Subtask, row.Percent, row.Started, row.Finished})
	}
	return cells
}
