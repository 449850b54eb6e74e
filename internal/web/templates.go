package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/undo-tic-tac-toe/internal/app"
	"github.com/jaminalder/undo-tic-tac-toe/internal/domain"
	"github.com/jaminalder/undo-tic-tac-toe/internal/state"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"cellSymbol": func(c domain.Cell) string { return c.String() },
		"add":        func(a, b int) int { return a + b },
		"mul":        func(a, b int) int { return a * b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>TicTacToe</h1><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div sse-swap="board" hx-target="#board" hx-swap="outerHTML">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

// renderTemplate executes t, or the named template in t's set when name is set.
func renderTemplate(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// boardData is what the board fragment renders.
type boardData struct {
	ID    string
	Board domain.Board
	View  state.View
	Score domain.Score
	Win   map[int]bool
	Error string
}

func newBoardData(gs app.Session, errMsg string) boardData {
	d := boardData{
		ID:    gs.ID,
		Board: gs.Root.Board.Present,
		View:  gs.View(),
		Score: gs.Root.Score,
		Win:   map[int]bool{},
		Error: errMsg,
	}
	if ln, ok := domain.WinningLine(d.Board); ok {
		for _, i := range ln {
			d.Win[i] = true
		}
	}
	return d
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="status">
    {{if .View.Winner}}Winner: {{cellSymbol .View.Winner}}{{else if .View.Finished}}Draw{{else}}Next: {{cellSymbol .View.CurrentPlayer}}{{end}}
  </div>
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}{{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/{{$.ID}}/play">
        <input type="hidden" name="pos" value="{{$i}}">
        <button type="submit"{{if index $.Win $i}} class="win"{{end}}>{{cellSymbol (index $.Board $i)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <div class="controls">
    <button hx-post="/game/{{.ID}}/undo" hx-target="#board" hx-swap="outerHTML"{{if not .View.CanUndo}} disabled{{end}}>Undo</button>
    <button hx-post="/game/{{.ID}}/redo" hx-target="#board" hx-swap="outerHTML"{{if not .View.CanRedo}} disabled{{end}}>Redo</button>
    <button hx-post="/game/{{.ID}}/finish" hx-target="#board" hx-swap="outerHTML"{{if not .View.Finished}} disabled{{end}}>Finish</button>
  </div>
  <div class="score">X {{.Score.X}} &middot; O {{.Score.O}} &middot; Draw {{.Score.Draw}}</div>
</div>
`
