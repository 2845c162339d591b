package main

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/cwbudde/algo-unmix/separate"
)

// progressBar renders batch progress of one separation. The bar's total is
// only known once the separator reports it.
type progressBar struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func newProgressBar(w io.Writer, name string) *progressBar {
	// Auto refresh keeps rendering when w is a pipe or file rather than a terminal.
	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(64), mpb.WithAutoRefresh())
	bar := p.AddBar(0,
		mpb.PrependDecorators(
			decor.Name(name+" "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.Elapsed(decor.ET_STYLE_GO),
		),
	)
	return &progressBar{p: p, bar: bar}
}

func (b *progressBar) update() separate.ProgressFunc {
	return func(done, total int) {
		b.bar.SetTotal(int64(total), false)
		b.bar.SetCurrent(int64(done))
	}
}

// finish completes or aborts the bar and waits for the final render.
func (b *progressBar) finish(err error) {
	if err != nil {
		b.bar.Abort(false)
	} else {
		b.bar.SetTotal(-1, true)
	}
	b.p.Wait()
}
