package telemetry

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type contextKey string

type registerFunc func(name string, fn func(*gorm.DB)) error

// gormOperation is one GORM processor with hooks around its core callback.
// verb is empty for row and raw statements, which are classified from SQL.
type gormOperation struct {
	name   string
	verb   string
	before registerFunc
	after  registerFunc
}

func gormOperations(db *gorm.DB) []gormOperation {
	cb := db.Callback()
	return []gormOperation{
		{"create", "INSERT",
			func(n string, fn func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Create().After("gorm:create").Register(n, fn) }},
		{"query", "SELECT",
			func(n string, fn func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Query().After("gorm:query").Register(n, fn) }},
		{"update", "UPDATE",
			func(n string, fn func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Update().After("gorm:update").Register(n, fn) }},
		{"delete", "DELETE",
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().After("gorm:delete").Register(n, fn) }},
		{"row", "",
			func(n string, fn func(*gorm.DB)) error { return cb.Row().Before("gorm:row").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Row().After("gorm:row").Register(n, fn) }},
		{"raw", "",
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().Before("gorm:raw").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().After("gorm:raw").Register(n, fn) }},
	}
}

// registerTimedCallbacks stamps the start time into the statement context
// before every operation and calls after with the SQL verb and elapsed time
func registerTimedCallbacks(db *gorm.DB, prefix string, key contextKey, after func(db *gorm.DB, verb string, elapsed time.Duration)) error {
	before := func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		db.Statement.Context = context.WithValue(ctx, key, time.Now())
	}

	for _, op := range gormOperations(db) {
		verb := op.verb
		if err := op.before(prefix+":before_"+op.name, before); err != nil {
			return err
		}
		err := op.after(prefix+":after_"+op.name, func(db *gorm.DB) {
			v := verb
			if v == "" {
				v = detectOperationType(db.Statement.SQL.String())
			}
			var elapsed time.Duration
			if db.Statement.Context != nil {
				if start, ok := db.Statement.Context.Value(key).(time.Time); ok {
					elapsed = time.Since(start)
				}
			}
			after(db, v, elapsed)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// detectOperationType classifies a statement by its leading SQL verb
func detectOperationType(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	for _, verb := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, verb) {
			return verb
		}
	}
	return "OTHER"
}
