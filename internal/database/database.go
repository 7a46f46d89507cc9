package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leettrack/internal/model"
	"leettrack/internal/tracker"
)

// Database implements tracker.Database on top of gorm. The same queries
// serve the SQLite (file and in-memory) and PostgreSQL backends.
type Database struct {
	gorm  *gorm.DB
	sqlDB *sql.DB
	hub   *snapshotHub
	now   func() time.Time
	path  string

	// prepare runs once after the first successful Ping. A failed run is
	// retried on the next Ping.
	prepare   func(ctx context.Context, gdb *gorm.DB) error
	prepareMu sync.Mutex
	prepared  bool
}

func newDatabase(gdb *gorm.DB, sqlDB *sql.DB, path string) *Database {
	d := &Database{
		gorm:  gdb,
		sqlDB: sqlDB,
		now:   time.Now,
		path:  path,
	}
	d.hub = newSnapshotHub(d.ListProblems)
	return d
}

// Problem operations

func (d *Database) ListProblems(ctx context.Context, userID string) ([]*model.Problem, error) {
	var records []problemRecord
	err := d.gorm.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing problems: %w", err)
	}

	problems := make([]*model.Problem, len(records))
	for i := range records {
		problems[i] = records[i].toModel()
	}
	return problems, nil
}

func (d *Database) GetProblem(ctx context.Context, userID, id string) (*model.Problem, error) {
	var record problemRecord
	err := d.gorm.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding problem: %w", err)
	}
	return record.toModel(), nil
}

func (d *Database) CreateProblem(ctx context.Context, p *model.Problem) error {
	if err := d.gorm.WithContext(ctx).Create(problemToRecord(p)).Error; err != nil {
		return fmt.Errorf("inserting problem: %w", err)
	}
	d.hub.publish(p.UserID)
	return nil
}

func (d *Database) UpdateProblem(ctx context.Context, p *model.Problem) error {
	r := problemToRecord(p)
	res := d.gorm.WithContext(ctx).
		Model(&problemRecord{}).
		Where("user_id = ? AND id = ?", p.UserID, p.ID).
		Updates(map[string]any{
			"title":            r.Title,
			"url":              r.URL,
			"topic":            r.Topic,
			"difficulty":       r.Difficulty,
			"status":           r.Status,
			"notes":            r.Notes,
			"date_solved":      r.DateSolved,
			"company_tags":     r.CompanyTags,
			"time_complexity":  r.TimeComplexity,
			"space_complexity": r.SpaceComplexity,
			"contest_id":       r.ContestID,
			"updated_at":       r.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("updating problem: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return tracker.ErrNotFound
	}
	d.hub.publish(p.UserID)
	return nil
}

func (d *Database) DeleteProblem(ctx context.Context, userID, id string) error {
	res := d.gorm.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&problemRecord{})
	if res.Error != nil {
		return fmt.Errorf("deleting problem: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return tracker.ErrNotFound
	}
	d.hub.publish(userID)
	return nil
}

func (d *Database) WatchProblems(userID string, onSnapshot tracker.SnapshotFunc, onError func(error)) func() {
	return d.hub.subscribe(userID, onSnapshot, onError)
}

// Contest operations

func (d *Database) ListContests(ctx context.Context, userID string) ([]*model.Contest, error) {
	var records []contestRecord
	err := d.gorm.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing contests: %w", err)
	}

	contests := make([]*model.Contest, len(records))
	for i := range records {
		contests[i] = records[i].toModel()
	}
	return contests, nil
}

func (d *Database) CreateContest(ctx context.Context, c *model.Contest) error {
	if err := d.gorm.WithContext(ctx).Create(contestToRecord(c)).Error; err != nil {
		return fmt.Errorf("inserting contest: %w", err)
	}
	return nil
}

// Settings operations

func (d *Database) GetSettings(ctx context.Context, userID string) (*model.Settings, error) {
	var record settingsRecord
	err := d.gorm.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding settings: %w", err)
	}
	return record.toModel(), nil
}

func (d *Database) PutSettings(ctx context.Context, userID string, s model.Settings) error {
	return putSettings(d.gorm.WithContext(ctx), settingsToRecord(userID, s, d.now()))
}

func (d *Database) UpdateSettings(ctx context.Context, userID string, patch model.SettingsPatch) error {
	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := model.DefaultSettings()

		var record settingsRecord
		err := tx.Where("user_id = ?", userID).First(&record).Error
		switch {
		case err == nil:
			current = *record.toModel()
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("finding settings: %w", err)
		}

		return putSettings(tx, settingsToRecord(userID, current.Merge(patch), d.now()))
	})
}

func putSettings(tx *gorm.DB, record *settingsRecord) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// Ping checks that the backend is reachable and, on the first success,
// runs any deferred schema setup.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", tracker.ErrOffline, err)
	}
	return d.ensurePrepared(ctx)
}

func (d *Database) ensurePrepared(ctx context.Context) error {
	d.prepareMu.Lock()
	defer d.prepareMu.Unlock()

	if d.prepared || d.prepare == nil {
		return nil
	}
	if err := d.prepare(ctx, d.gorm); err != nil {
		return err
	}
	d.prepared = true
	return nil
}

// Path returns the database file path, ":memory:" or the redacted DSN kind.
func (d *Database) Path() string {
	return d.path
}

// Close stops every live subscription and closes the connection.
func (d *Database) Close() error {
	d.hub.close()
	if d.sqlDB != nil {
		return d.sqlDB.Close()
	}
	return nil
}

// Compile-time check that Database implements tracker.Database interface
var _ tracker.Database = (*Database)(nil)
