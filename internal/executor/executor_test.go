package executor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe-terminal/internal/dbtest"
	"cafe-terminal/internal/executor"
)

func TestQueryRowsProjectionOrder(t *testing.T) {
	_, exec := dbtest.Open(t)
	ctx := context.Background()

	res, err := exec.QueryRows(ctx, "SELECT itemname, type FROM menu WHERE type = ? ORDER BY itemname", "Soup")
	require.NoError(t, err)
	assert.Equal(t, []string{"itemname", "type"}, res.Columns)
	require.Equal(t, 2, res.Len())
	assert.Equal(t, []string{"Clam Chowder", "Soup"}, res.Rows[0])
	assert.Equal(t, "Tomato Soup", res.Value(1, 0))
	assert.Equal(t, "", res.Value(5, 0))
}

func TestQueryCount(t *testing.T) {
	_, exec := dbtest.Open(t)
	ctx := context.Background()

	n, err := exec.QueryCount(ctx, "SELECT itemname FROM menu WHERE itemname = ?", "Latte")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = exec.QueryCount(ctx, "SELECT itemname FROM menu WHERE itemname = ?", "Nope")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestExecQuotedValues(t *testing.T) {
	gdb, exec := dbtest.Open(t)
	ctx := context.Background()

	err := exec.Exec(ctx, "INSERT INTO menu (itemname, type, price, description) VALUES (?, ?, ?, ?)",
		"Baker's Dozen", "Sweets", "12.00", "it's 13")
	require.NoError(t, err)
	assert.Equal(t, int64(1), dbtest.CountRows(t, gdb, "menu", "itemname = ?", "Baker's Dozen"))
}

func TestQueryErrorWrapsDriverError(t *testing.T) {
	_, exec := dbtest.Open(t)

	err := exec.Exec(context.Background(), "UPDATE no_such_table SET x = 1")
	var qerr *executor.QueryError
	require.True(t, errors.As(err, &qerr))
	assert.Equal(t, "exec", qerr.Op)
	assert.NotNil(t, errors.Unwrap(err))

	_, err = exec.QueryRows(context.Background(), "SELECT * FROM no_such_table")
	assert.True(t, errors.As(err, &qerr))
}

func TestCurrentSequenceValue(t *testing.T) {
	_, exec := dbtest.Open(t)
	ctx := context.Background()

	var first, second int64
	err := exec.Transaction(ctx, func(tx executor.Executor) error {
		if err := tx.Exec(ctx, "INSERT INTO orders (login, paid, timestamprecieved, total) VALUES (?, ?, ?, ?)",
			"alice", false, time.Now(), "0"); err != nil {
			return err
		}
		v, ok, err := tx.CurrentSequenceValue(ctx, "orders_orderid_seq")
		if err != nil {
			return err
		}
		assert.True(t, ok)
		first = v
		if err := tx.Exec(ctx, "INSERT INTO orders (login, paid, timestamprecieved, total) VALUES (?, ?, ?, ?)",
			"alice", false, time.Now(), "0"); err != nil {
			return err
		}
		second, _, err = tx.CurrentSequenceValue(ctx, "orders_orderid_seq")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, first+1, second)
}

func TestTransactionRollsBack(t *testing.T) {
	gdb, exec := dbtest.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := exec.Transaction(ctx, func(tx executor.Executor) error {
		if err := tx.Exec(ctx, "DELETE FROM menu WHERE itemname = ?", "Latte"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), dbtest.CountRows(t, gdb, "menu", "itemname = ?", "Latte"))
}
