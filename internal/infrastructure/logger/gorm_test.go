package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func traceFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("error is logged with sql", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn)

		gl.Trace(context.Background(), time.Now(), traceFn("SELECT 1", 0), errors.New("boom"))

		entries := recorded.FilterMessage("SQL error").All()
		assert.Len(t, entries, 1)
		assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn)

		gl.Trace(context.Background(), time.Now(), traceFn("SELECT 1", 0), gorm.ErrRecordNotFound)
		assert.Zero(t, recorded.Len())
	})

	t.Run("slow query warns", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		gl.Trace(context.Background(), time.Now().Add(-time.Second), traceFn("SELECT 1", 1), nil)
		assert.Equal(t, 1, recorded.FilterMessage("Slow SQL").Len())
	})

	t.Run("slow locking read is flagged", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		gl.Trace(context.Background(), time.Now().Add(-time.Second),
			traceFn(`SELECT * FROM "debts" WHERE id = $1 FOR UPDATE`, 1), nil)
		entries := recorded.FilterMessage("Slow SQL").All()
		assert.Len(t, entries, 1)
		assert.Equal(t, true, entries[0].ContextMap()["row_lock"])
		assert.NotContains(t, entries[0].ContextMap(), "sql")
	})

	t.Run("full sql only when enabled", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info, WithFullSQL(true))

		gl.Trace(context.Background(), time.Now(), traceFn("SELECT * FROM debts", 3), nil)
		entries := recorded.FilterMessage("SQL query").All()
		assert.Len(t, entries, 1)
		assert.Equal(t, "SELECT * FROM debts", entries[0].ContextMap()["sql"])
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info).LogMode(gormlogger.Silent)

		gl.Trace(context.Background(), time.Now(), traceFn("SELECT 1", 0), errors.New("boom"))
		assert.Zero(t, recorded.Len())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
}
