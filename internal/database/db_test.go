package database

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN("app", "p@ss", "db.internal", "3306", "defaultdb")

	c, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "app", c.User)
	assert.Equal(t, "p@ss", c.Passwd)
	assert.Equal(t, "db.internal:3306", c.Addr)
	assert.Equal(t, "defaultdb", c.DBName)
	assert.True(t, c.ParseTime)
	assert.True(t, c.ClientFoundRows)
	assert.Equal(t, time.UTC, c.Loc)
}
