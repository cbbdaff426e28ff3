package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mbernardes19/torre-matheus/internal/domain"
	"github.com/mbernardes19/torre-matheus/internal/domain/opportunity"
	"github.com/mbernardes19/torre-matheus/internal/output"
	"github.com/mbernardes19/torre-matheus/pkg/pagination"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Search as you type: each line replaces the term, :next and :prev page through results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		delay := cfg.Search.Debounce
		if cmd.Flags().Changed("debounce") {
			delay, _ = cmd.Flags().GetDuration("debounce")
		}

		fmt.Fprintln(os.Stderr, "Type a search term. Commands: :next, :prev, :quit")
		return runInteractive(ctx, svc, os.Stdin, os.Stdout, delay, outputFormat())
	},
}

func init() {
	interactiveCmd.Flags().Duration("debounce", 0, "quiet period before a typed term is searched (default from SEARCH_DEBOUNCE_MS or 300ms)")
}

// prompt runs every search of one interactive run on a single session, so a newer
// term makes older in-flight searches stale.
type prompt struct {
	ctx    context.Context
	svc    opportunity.Service
	id     domain.SessionID
	out    io.Writer
	format output.Format

	runMu sync.Mutex

	mu      sync.Mutex
	pending *string
}

func runInteractive(ctx context.Context, svc opportunity.Service, in io.Reader, out io.Writer, delay time.Duration, format output.Format) error {
	p := &prompt{ctx: ctx, svc: svc, id: uuid.New(), out: out, format: format}
	d := opportunity.NewDebouncer(delay)
	defer d.Stop()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				d.Flush(p.runPending)
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}

			switch cmd := strings.TrimSpace(line); cmd {
			case ":quit", ":q":
				return nil
			case ":next", ":n":
				d.Flush(func() {
					p.runPending()
					p.page(pagination.Next)
				})
			case ":prev", ":previous", ":p":
				d.Flush(func() {
					p.runPending()
					p.page(pagination.Previous)
				})
			default:
				p.setPending(line)
				d.Trigger(p.runPending)
			}
		}
	}
}

func (p *prompt) setPending(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = &term
}

func (p *prompt) takePending() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return "", false
	}
	term := *p.pending
	p.pending = nil
	return term, true
}

func (p *prompt) runPending() {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	term, ok := p.takePending()
	if !ok {
		return
	}
	res, err := p.svc.Search(p.ctx, opportunity.SearchRequest{Term: term, SessionID: p.id})
	p.print(res, err)
}

func (p *prompt) page(dir pagination.Direction) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	res, err := p.svc.Page(p.ctx, p.id, dir)
	switch {
	case errors.Is(err, opportunity.ErrSessionNotFound):
		fmt.Fprintln(p.out, "No search yet.")
	case errors.Is(err, opportunity.ErrNoSuchPage):
		fmt.Fprintf(p.out, "No %s page.\n", dir)
	default:
		p.print(res, err)
	}
}

func (p *prompt) print(res domain.SearchResult, err error) {
	switch {
	case errors.Is(err, opportunity.ErrStaleResult):
		return
	case err != nil:
		fmt.Fprintf(p.out, "Error: %v\n", err)
	default:
		if werr := output.WriteResult(p.out, res, p.format); werr != nil {
			fmt.Fprintf(p.out, "Error: %v\n", werr)
		}
	}
}
