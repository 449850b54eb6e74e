package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jaminalder/undo-tic-tac-toe/internal/app"
	"github.com/jaminalder/undo-tic-tac-toe/internal/domain"
)

// PlayOptions configures an interactive terminal game.
type PlayOptions struct {
	In      io.Reader
	Out     io.Writer
	Profile termenv.Profile
}

const help = "0-8 play a cell, u undo, r redo, f finish, q quit"

// Play runs a terminal game against svc until the input ends, the user
// quits, or ctx is cancelled.
func Play(ctx context.Context, svc *app.Service, opts PlayOptions) error {
	gs, err := svc.CreateGame()
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	r := &renderer{w: opts.Out, p: opts.Profile}
	r.line(help)
	r.session(*gs)

	scanner := bufio.NewScanner(opts.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))

		var changed bool
		var reject string
		switch cmd {
		case "":
			continue
		case "q", "quit", "exit":
			r.line("Bye!")
			return nil
		case "u", "undo":
			gs, changed, err = svc.Undo(gs.ID)
			reject = "Nothing to undo"
		case "r", "redo":
			gs, changed, err = svc.Redo(gs.ID)
			reject = "Nothing to redo"
		case "f", "finish":
			gs, changed, err = svc.Finish(gs.ID)
			reject = "Game is not finished yet"
		default:
			pos, convErr := strconv.Atoi(cmd)
			if convErr != nil {
				r.warn("Unknown command. " + help)
				continue
			}
			gs, changed, err = svc.Play(gs.ID, pos)
			reject = "Cell is occupied"
			switch {
			case pos < 0 || pos > 8:
				reject = "Out of bounds"
			case gs != nil && gs.View().Winner != domain.Empty:
				reject = "Game is over"
			}
		}
		switch {
		case errors.Is(err, app.ErrNotFinished):
			r.warn(reject)
		case err != nil:
			return err
		case !changed:
			r.warn(reject)
		default:
			r.session(*gs)
		}
	}
}

type renderer struct {
	w io.Writer
	p termenv.Profile
}

func (r *renderer) line(s string) { _, _ = fmt.Fprintln(r.w, s) }

func (r *renderer) prompt() { _, _ = io.WriteString(r.w, "> ") }

func (r *renderer) warn(s string) {
	r.line(r.p.String(s).Foreground(r.p.Color("#fb7185")).String())
}

func (r *renderer) cell(b domain.Board, i int, win map[int]bool) string {
	switch b[i] {
	case domain.X:
		s := r.p.String("X").Foreground(r.p.Color("#818cf8"))
		if win[i] {
			s = s.Underline()
		}
		return s.String()
	case domain.O:
		s := r.p.String("O").Foreground(r.p.Color("#f472b6"))
		if win[i] {
			s = s.Underline()
		}
		return s.String()
	default:
		return r.p.String(strconv.Itoa(i)).Faint().String()
	}
}

func (r *renderer) session(gs app.Session) {
	b := gs.Root.Board.Present
	win := map[int]bool{}
	if ln, ok := domain.WinningLine(b); ok {
		for _, i := range ln {
			win[i] = true
		}
	}
	for row := 0; row < 3; row++ {
		if row > 0 {
			r.line("---+---+---")
		}
		r.line(fmt.Sprintf(" %s | %s | %s ", r.cell(b, row*3, win), r.cell(b, row*3+1, win), r.cell(b, row*3+2, win)))
	}

	v := gs.View()
	switch {
	case v.Winner != domain.Empty:
		r.line(fmt.Sprintf("Winner: %s (f to record)", v.Winner))
	case v.Finished:
		r.line("Draw (f to record)")
	default:
		r.line(fmt.Sprintf("Next: %s", v.CurrentPlayer))
	}
	s := gs.Root.Score
	r.line(fmt.Sprintf("Score  X %d  O %d  Draw %d", s.X, s.O, s.Draw))
}
