// Package server hosts the single-page fuzzing dashboard: the puzzle board
// and the corpus scheduler's weight distribution, pushed to the browser over
// a websocket as they change.
package server

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"

	"sokofuzz/fuzz"
	"sokofuzz/server/cell_views"
	"sokofuzz/server/fastview"
	"sokofuzz/server/root_view"
	"sokofuzz/sokoban"

	"github.com/gorilla/mux"
)

// Server serves a single page, to a single client, over a single websocket.
// Intentionally very little generalization: this is useful for watching one
// puzzle-solving session at a time, not a fleet of concurrent ones.
type Server struct {
	addr        string
	lastBoard   sokoban.State
	lastWeights map[fuzz.CorpusID]int
	rootView    *root_view.RootView
}

// NewServer initializes all of the views and returns a server.
func NewServer(
	ctx context.Context,
	addr string,
	initialBoard sokoban.State,
	boardUpdates <-chan sokoban.State,
	initialWeights map[fuzz.CorpusID]int,
	weightUpdates <-chan map[fuzz.CorpusID]int,
) (*Server, error) {
	rootView := root_view.NewRootView(ctx, boardUpdates, weightUpdates)

	return &Server{
		addr:        addr,
		lastBoard:   initialBoard,
		lastWeights: initialWeights,
		rootView:    rootView,
	}, nil
}

// Serve starts the http server, routing via gorilla/mux.
func (server *Server) Serve() (err error) {
	router := mux.NewRouter()
	router.HandleFunc("/", server.serveIndex).Methods(http.MethodGet)
	router.HandleFunc("/ws", server.serveWebsocket)

	if err = http.ListenAndServe(server.addr, router); err != nil {
		err = fmt.Errorf("serve: %w", err)
	}
	return
}

// serveWebsocket publishes view updates to the client via websocket, using
// fastview's generic client for the upgrade, ping/pong liveness check, and
// publish loop. This currently assumes this handler is hit only once, by
// one client.
func (server *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	cli, err := fastview.NewClient(server.rootView.Updates(), w, r)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	if err := cli.Sync(); err != nil {
		fmt.Println("client sync:", err)
	}
}

// serveIndex serves the dashboard's single page.
func (server *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")

	data := root_view.IndexData{
		Cells:   cell_views.Convert(server.lastBoard),
		Weights: cell_views.ConvertWeights(server.lastWeights),
	}
	if err := renderTemplate(w, server.rootView, data); err != nil {
		_, _ = w.Write([]byte(err.Error()))
	}
}

func renderTemplate(
	w io.Writer,
	vc fastview.ViewComponent,
	data interface{},
) (err error) {
	t := template.New("index.html")
	var tname string
	if tname, err = vc.Parse(t); err != nil {
		return
	}
	if _, err = t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return
	}

	err = t.Execute(w, data)
	return
}
