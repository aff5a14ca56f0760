package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe-terminal/internal/cafe"
	"cafe-terminal/internal/executor"
)

func TestReadChoiceRetriesUntilNumber(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("abc\n\n 7 \n"), &out)

	n, err := c.ReadChoice()
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, 2, strings.Count(out.String(), "Your input is invalid!"))
}

func TestReadLineEOF(t *testing.T) {
	c := New(strings.NewReader("Latte\r\n"), io.Discard)

	line, err := c.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "Latte", line)

	_, err = c.ReadLine("> ")
	assert.True(t, IsEOF(err))

	_, err = c.ReadChoice()
	assert.True(t, IsEOF(err))
}

func TestReadLineTooLong(t *testing.T) {
	c := New(strings.NewReader("12345678\n123456789\nok\ntail"), io.Discard)
	c.maxLine = 8

	line, err := c.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "12345678", line)

	_, err = c.ReadLine("")
	var verr *cafe.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "input", verr.Field)

	line, err = c.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "ok", line)

	line, err = c.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "tail", line)

	_, err = c.ReadLine("")
	assert.True(t, IsEOF(err))
}

func TestReadLineLongerThanBuffer(t *testing.T) {
	long := strings.Repeat("a", 10000)
	c := New(strings.NewReader(long+"\n"+strings.Repeat("b", MaxLineBytes+1)+"\n3\n"), io.Discard)

	line, err := c.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, long, line)

	var out bytes.Buffer
	c.out = &out
	n, err := c.ReadChoice()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, strings.Count(out.String(), "Your input is invalid!"))
}

func TestTable(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)

	require.NoError(t, c.Table(executor.Result{
		Columns: []string{"itemname", "price"},
		Rows:    [][]string{{"Latte", "3.50"}, {"Bagel", "2.00"}},
	}))
	s := out.String()
	assert.Contains(t, s, "Latte")
	assert.Contains(t, s, "2.00")

	out.Reset()
	require.NoError(t, c.Table(executor.Result{Columns: []string{"x"}}))
	assert.Equal(t, "(no rows)\n", out.String())
}
