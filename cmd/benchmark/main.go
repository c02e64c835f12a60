package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime/pprof"
	"slices"
	"strconv"
	"time"

	"github.com/delaneyj/fiberparty/noop"
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/delaneyj/fiberparty/ui"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	sizes   = []int{10, 100, 1_000, 5_000}
	iters   = 100
	profile = flag.String("pgo", "default.pgo", "write a CPU profile to this file, empty to disable")
)

func main() {
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkMount(false)

	benchmarkMount(true)
	benchmarkReorder(true)
	benchmarkBatchedUpdates(true)
	benchmarkConcurrent(true)
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func keyed(keys []string) *ui.Element {
	items := make([]any, len(keys))
	for i, k := range keys {
		items[i] = ui.H("li", ui.Props{"key": k, "class": "row"}, k)
	}
	return ui.H("ul", nil, items...)
}

func keysOf(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "host ops", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendResult(tbl table.Writer, name string, ops int, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			humanize.Comma(int64(ops)),
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

func benchmarkMount(shouldRender bool) {
	tbl := newTable("Mount")

	for _, n := range sizes {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})
		el := keyed(keysOf(n))
		ops := 0
		for i := 0; i < iters; i++ {
			r := noop.New(noop.Options{Logger: quiet()})
			root := r.CreateRoot()

			start := time.Now()
			if err := root.RenderSync(el); err != nil {
				log.Panic(err)
			}
			tach.AddTime(time.Since(start))
			ops = len(r.Host.Ops())
		}
		appendResult(tbl, fmt.Sprintf("mount: %d rows", n), ops, tach)
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkReorder(shouldRender bool) {
	tbl := newTable("Keyed reorder")

	for _, n := range sizes {
		for _, c := range []struct {
			name    string
			reorder func([]string) []string
		}{
			{"reverse", func(keys []string) []string {
				out := slices.Clone(keys)
				slices.Reverse(out)
				return out
			}},
			{"rotate", func(keys []string) []string {
				return append(slices.Clone(keys[len(keys)-1:]), keys[:len(keys)-1]...)
			}},
			{"drop half", func(keys []string) []string {
				out := make([]string, 0, len(keys)/2)
				for i := 0; i < len(keys); i += 2 {
					out = append(out, keys[i])
				}
				return out
			}},
		} {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			r := noop.New(noop.Options{Logger: quiet()})
			root := r.CreateRoot()
			base := keysOf(n)
			next := c.reorder(base)
			ops := 0
			for i := 0; i < iters; i++ {
				if err := root.RenderSync(keyed(base)); err != nil {
					log.Panic(err)
				}
				r.Host.Reset()

				start := time.Now()
				if err := root.RenderSync(keyed(next)); err != nil {
					log.Panic(err)
				}
				tach.AddTime(time.Since(start))
				ops = len(r.Host.Ops())
			}
			appendResult(tbl, fmt.Sprintf("%s: %d rows", c.name, n), ops, tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkBatchedUpdates(shouldRender bool) {
	tbl := newTable("Batched updates")

	for _, n := range sizes {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})
		setters := make([]ui.Setter[int], n)
		Cell := ui.FC("Cell", func(h ui.Hooks, props ui.Props) (any, error) {
			v, set := ui.UseState(h, 0)
			setters[props["i"].(int)] = set
			return ui.H("td", nil, v), nil
		})
		cells := make([]any, n)
		for i := range cells {
			cells[i] = ui.H(Cell, ui.Props{"key": i, "i": i})
		}

		r := noop.New(noop.Options{Logger: quiet()})
		root := r.CreateRoot()
		if err := root.RenderSync(ui.H("tr", nil, cells...)); err != nil {
			log.Panic(err)
		}

		ops := 0
		for i := 0; i < iters; i++ {
			r.Host.Reset()
			start := time.Now()
			r.Act(scheduler.ImmediatePriority, func() {
				for _, set := range setters {
					set.Update(func(v int) int { return v + 1 })
				}
			})
			tach.AddTime(time.Since(start))
			ops = len(r.Host.Ops())
		}
		appendResult(tbl, fmt.Sprintf("one pass: %d updates", n), ops, tach)
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkConcurrent(shouldRender bool) {
	tbl := newTable("Time-sliced render")

	for _, n := range sizes {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})
		var r *noop.Renderer
		Row := ui.FC("Row", func(h ui.Hooks, props ui.Props) (any, error) {
			// a tenth of the frame per row, so a slice renders about ten rows
			r.Advance(100 * time.Microsecond)
			return ui.H("li", nil, props["label"]), nil
		})
		rows := make([]any, n)
		for j := range rows {
			rows[j] = ui.H(Row, ui.Props{"key": j, "label": strconv.Itoa(j)})
		}

		ops, steps := 0, 0
		for i := 0; i < iters; i++ {
			r = noop.New(noop.Options{Logger: quiet(), FrameInterval: time.Millisecond})
			root := r.CreateRoot()

			start := time.Now()
			root.RenderAt(scheduler.NormalPriority, ui.H("ul", nil, rows...))
			steps = 1
			for r.Step() {
				steps++
			}
			tach.AddTime(time.Since(start))
			ops = len(r.Host.Ops())
		}
		appendResult(tbl, fmt.Sprintf("default lane: %d rows in %s slices", n, humanize.Comma(int64(steps))), ops, tach)
	}

	if shouldRender {
		tbl.Render()
	}
}
