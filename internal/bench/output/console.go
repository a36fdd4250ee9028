// Package output provides console output for scheduler benchmarks: live
// delivery lines while strategies run, and the final summary.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/wesleyorama2/schedbench/internal/bench/pipeline"
)

// timeLayout renders delivery timestamps as HH:MM:SS.mmm.
const timeLayout = "15:04:05.000"

// ConsoleConfig contains configuration for Console.
type ConsoleConfig struct {
	Writer      io.Writer
	Quiet       bool
	ForceColors bool
	NoColor     bool
}

// Console prints pipeline events and summaries. It implements
// pipeline.Observer and is safe for concurrent use by all pipelines.
type Console struct {
	pipeline.NopObserver

	mu        sync.Mutex
	writer    io.Writer
	quiet     bool
	useColors bool

	strategy *color.Color
	dim      *color.Color
	good     *color.Color
	bad      *color.Color
	heading  *color.Color
}

// NewConsole creates a console printer.
func NewConsole(config ConsoleConfig) *Console {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	useColors := config.ForceColors || (isTerminal(config.Writer) && !color.NoColor)
	if config.NoColor {
		useColors = false
	}

	c := &Console{
		writer:    config.Writer,
		quiet:     config.Quiet,
		useColors: useColors,
		strategy:  color.New(color.FgCyan),
		dim:       color.New(color.FgHiBlack),
		good:      color.New(color.FgGreen),
		bad:       color.New(color.FgRed),
		heading:   color.New(color.Bold),
	}
	for _, col := range []*color.Color{c.strategy, c.dim, c.good, c.bad, c.heading} {
		if useColors {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// isTerminal checks if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// OnDelivered prints "<strategy> > <i> - [<ctx>] >> delivered by [<ctx>] on <time>".
func (c *Console) OnDelivered(e pipeline.DeliveryEvent) {
	if c.quiet {
		return
	}
	d := e.Delivery
	c.writeln(fmt.Sprintf("%s > %d - [%s] >> delivered by [%s] on %s",
		c.strategy.Sprint(e.Strategy), d.Index, d.ContextID, d.DeliveredBy,
		c.dim.Sprint(d.Timestamp.Format(timeLayout))))
}

// OnCompleted prints "<strategy> completed in <N>ms".
func (c *Console) OnCompleted(r *pipeline.Result) {
	c.writeln(fmt.Sprintf("%s completed in %dms", c.strategy.Sprint(r.Name), r.ElapsedMillis()))
}

func (c *Console) writeln(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.writer, s)
}

// write prints a block of lines without interleaving other events.
func (c *Console) write(lines []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range lines {
		fmt.Fprintln(c.writer, line)
	}
}
