// Package console reads line-oriented input and prints results to a terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"cafe-terminal/internal/cafe"
	"cafe-terminal/internal/executor"
)

// MaxLineBytes caps a single line of input. Longer lines are discarded.
const MaxLineBytes = 1 << 20

// Console pairs an input stream with an output writer.
type Console struct {
	in      *bufio.Reader
	out     io.Writer
	maxLine int
}

// New returns a Console reading lines from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, maxLine: MaxLineBytes}
}

// Writer exposes the output stream.
func (c *Console) Writer() io.Writer { return c.out }

// Printf writes formatted output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes args followed by a newline.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// ReadLine prints prompt and returns the next line without its terminator.
// It returns io.EOF once input is exhausted. A line longer than
// MaxLineBytes is consumed and reported as a *cafe.ValidationError.
func (c *Console) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(c.out, prompt)
	}

	var line []byte
	tooLong := false
	for {
		chunk, err := c.in.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > c.maxLine+1 {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && (!errors.Is(err, io.EOF) || (len(line) == 0 && !tooLong)) {
			return "", err
		}
		break
	}

	if tooLong {
		return "", &cafe.ValidationError{
			Field:  "input",
			Reason: fmt.Sprintf("line longer than %d bytes", c.maxLine),
		}
	}
	return strings.TrimRight(string(line), "\r\n"), nil
}

// ReadChoice keeps asking until a whole number is entered.
func (c *Console) ReadChoice() (int, error) {
	for {
		line, err := c.ReadLine("Please make your choice: ")
		var verr *cafe.ValidationError
		if errors.As(err, &verr) {
			c.Println("Your input is invalid!")
			continue
		}
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return n, nil
		}
		c.Println("Your input is invalid!")
	}
}

// Menu prints a titled list of options.
func (c *Console) Menu(title string, options ...string) {
	c.Println(title)
	c.Println(strings.Repeat("-", len(title)))
	for _, o := range options {
		c.Println(o)
	}
}

// Table renders res with a header row. Empty results print a short notice.
func (c *Console) Table(res executor.Result) error {
	if res.Len() == 0 {
		c.Println("(no rows)")
		return nil
	}
	table := tablewriter.NewWriter(c.out)
	header := make([]any, len(res.Columns))
	for i, col := range res.Columns {
		header[i] = col
	}
	table.Header(header...)
	for _, row := range res.Rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// IsEOF reports whether err means input has ended.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
