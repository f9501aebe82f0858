package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"

	coreport "github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
	logadapter "github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/lock-ledger/internal/infrastructure/requestid"
)

func TestExtractQueryInfo(t *testing.T) {
	testCases := []struct {
		sql       string
		queryType string
		table     string
	}{
		{`SELECT * FROM "lock_records" WHERE account = $1`, "SELECT", "lock_records"},
		{`INSERT INTO "lock_events" ("kind") VALUES ($1)`, "INSERT", "lock_events"},
		{"UPDATE `accounts` SET balance = ?", "UPDATE", "accounts"},
		{"DELETE FROM lock_reasons", "DELETE", "lock_reasons"},
		{"PRAGMA foreign_keys", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.sql, func(t *testing.T) {
			assert.Equal(t, tc.queryType, extractQueryType(tc.sql))
			assert.Equal(t, tc.table, extractTableName(tc.sql))
		})
	}
}

func TestDatabaseLoggerTrace(t *testing.T) {
	obsCore, logs := observer.New(zap.DebugLevel)
	coreLogger := logadapter.NewFromCore(obsCore, coreport.LogLevelDebug)
	dbLogger := NewDatabaseLogger(coreLogger, timeprovider.NewRealTimeProvider(), "info")

	ctx := requestid.NewContext(context.Background(), "req-42")
	sql := func() (string, int64) { return `SELECT * FROM "accounts"`, 1 }

	dbLogger.Trace(ctx, time.Now(), sql, nil)
	dbLogger.Trace(ctx, time.Now(), sql, errors.New("boom"))

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "SQL Query", entries[0].Message)
		assert.Equal(t, "req-42", entries[0].ContextMap()["trace_id"])
		assert.Equal(t, "accounts", entries[0].ContextMap()["table"])
		assert.Equal(t, "SQL Error", entries[1].Message)
	}

	logs.TakeAll()
	dbLogger.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), sql, errors.New("boom"))
	assert.Zero(t, logs.Len())
}
