package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/clock"
	"github.com/danieljhkim/launchdeck/internal/stores"
)

const (
	weekDays  = 7
	monthDays = 30
	yearDays  = 365

	topProjects = 10
)

// Stats summarises launch activity as of now. Daily series end on now's UTC
// day and are zero-filled; the average covers the last 30 days.
func Stats(ctx context.Context, h stores.Handle, now time.Time) (ActivityStats, error) {
	now = now.UTC()
	perDay, err := dailyCounts(ctx, h, clock.Day(now.AddDate(0, 0, -yearDays)))
	if err != nil {
		return ActivityStats{}, err
	}

	stats := ActivityStats{
		WeeklyActivity:  series(perDay, now, weekDays),
		MonthlyActivity: series(perDay, now, monthDays),
		YearlyActivity:  series(perDay, now, yearDays),
	}

	if err := h.DB.QueryRowContext(ctx, `SELECT count(*) FROM launch_history`).Scan(&stats.TotalLaunches); err != nil {
		return ActivityStats{}, fmt.Errorf("%w: failed to count launches: %v", apperr.ErrDatabase, err)
	}
	if err := h.DB.QueryRowContext(ctx, `SELECT count(*) FROM projects`).Scan(&stats.TotalProjects); err != nil {
		return ActivityStats{}, fmt.Errorf("%w: failed to count projects: %v", apperr.ErrDatabase, err)
	}

	if stats.ProjectCounts, err = projectCounts(ctx, h); err != nil {
		return ActivityStats{}, err
	}

	var lastMonth uint32
	for _, p := range stats.MonthlyActivity {
		lastMonth += p.Count
	}
	stats.AverageDailyLaunches = float64(lastMonth) / monthDays

	return stats, nil
}

func dailyCounts(ctx context.Context, h stores.Handle, since string) (map[string]uint32, error) {
	rows, err := h.DB.QueryContext(ctx, `
		SELECT date(launched_at) AS day, count(*) AS count
		FROM launch_history
		WHERE launched_at > ?
		GROUP BY day
		ORDER BY day ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read launch history: %v", apperr.ErrDatabase, err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]uint32)
	for rows.Next() {
		var (
			day   string
			count int64
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("%w: failed to read launch history: %v", apperr.ErrDatabase, err)
		}
		counts[day] = uint32(count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read launch history: %v", apperr.ErrDatabase, err)
	}
	return counts, nil
}

func projectCounts(ctx context.Context, h stores.Handle) ([]ProjectCount, error) {
	rows, err := h.DB.QueryContext(ctx, `
		SELECT p.name, count(lh.id) AS count
		FROM projects p
		LEFT JOIN launch_history lh ON p.id = lh.project_id
		GROUP BY p.id
		ORDER BY count DESC, p.name COLLATE NOCASE ASC
		LIMIT ?`, topProjects)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count project launches: %v", apperr.ErrDatabase, err)
	}
	defer func() { _ = rows.Close() }()

	counts := []ProjectCount{}
	for rows.Next() {
		var pc ProjectCount
		if err := rows.Scan(&pc.Name, &pc.Count); err != nil {
			return nil, fmt.Errorf("%w: failed to count project launches: %v", apperr.ErrDatabase, err)
		}
		counts = append(counts, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to count project launches: %v", apperr.ErrDatabase, err)
	}
	return counts, nil
}

// series returns one point per day for the days ending on now, oldest first.
func series(counts map[string]uint32, now time.Time, days int) []ActivityPoint {
	points := make([]ActivityPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := clock.Day(now.AddDate(0, 0, -i))
		points = append(points, ActivityPoint{Date: day, Count: counts[day]})
	}
	return points
}
