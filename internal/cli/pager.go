package cli

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"

	"github.com/mithrel/leancanvas/internal/present"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

const defaultPager = "less -FRSX"

// renderRecord writes r in the requested mode, through $PAGER when stdout is
// a terminal.
func renderRecord(ctx context.Context, out, errOut io.Writer, r canvas.Record, opts present.Options) error {
	if opts.Mode == present.ModeTUI {
		return present.RenderRecord(ctx, out, r, opts)
	}
	return withPager(ctx, out, errOut, func(w io.Writer) error {
		return present.RenderRecord(ctx, w, r, opts)
	})
}

// pagerCommand picks $LEANCANVAS_PAGER, then $PAGER, then less. An empty
// result disables paging.
func pagerCommand() string {
	if p, ok := os.LookupEnv("LEANCANVAS_PAGER"); ok {
		return strings.TrimSpace(p)
	}
	if p := strings.TrimSpace(os.Getenv("PAGER")); p != "" {
		return p
	}
	return defaultPager
}

// withPager pipes write's output through the pager when out is a terminal.
// If the pager cannot start, output goes to out directly.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	tty, ok := out.(*os.File)
	pager := pagerCommand()
	if !ok || pager == "" || !term.IsTerminal(int(tty.Fd())) {
		return write(out)
	}
	p := exec.CommandContext(ctx, "sh", "-c", pager)
	p.Stdout = tty
	p.Stderr = os.Stderr
	if f, ok := errOut.(*os.File); ok {
		p.Stderr = f
	}
	pipe, err := p.StdinPipe()
	if err == nil {
		err = p.Start()
	}
	if err != nil {
		return write(out)
	}
	werr := write(pipe)
	_ = pipe.Close()
	if err := p.Wait(); werr == nil {
		werr = err
	}
	return werr
}
