// Command icalserver exposes the icalkit codec over HTTP: POST a calendar
// to validate it, or to have it parsed and immediately re-serialized
// (useful for normalizing line folding and parameter quoting). Routing
// follows Durelius-next-week/backend's gorilla/mux convention.
package main

import (
	"bytes"
	"flag"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	json "go.bug.st/json"

	"github.com/icalkit/ical"
	"github.com/icalkit/ical/internal/config"
)

type server struct {
	registry *ical.Registry
	opts     config.Options
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", ".icalintrc", "path to an optional ordered properties config file")
	flag.Parse()

	opts, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("icalserver: loading %s: %v", *configPath, err)
	}

	s := &server{registry: ical.NewDefaultRegistry(opts.Dialect), opts: opts}

	r := mux.NewRouter()
	r.HandleFunc("/v1/validate", s.handleValidate).Methods(http.MethodPost)
	r.HandleFunc("/v1/roundtrip", s.handleRoundtrip).Methods(http.MethodPost)

	log.Printf("--> icalserver listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, r))
}

type validateResponse struct {
	Components int            `json:"components"`
	Warnings   []ical.Warning `json:"warnings"`
}

func (s *server) handleValidate(w http.ResponseWriter, req *http.Request) {
	log.Printf("--> validate(%s)", req.RemoteAddr)
	defer req.Body.Close()

	comps, warns, err := ical.ReadObjects(req.Body, s.registry, s.opts.ReaderOptions())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, c := range comps {
		warns = append(warns, ical.Validate(c)...)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(validateResponse{Components: len(comps), Warnings: warns})
}

func (s *server) handleRoundtrip(w http.ResponseWriter, req *http.Request) {
	log.Printf("--> roundtrip(%s)", req.RemoteAddr)
	defer req.Body.Close()

	comps, _, err := ical.ReadObjects(req.Body, s.registry, s.opts.ReaderOptions())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := ical.WriteObjects(&buf, comps, s.registry, s.opts.WriterOptions()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	_, _ = io.Copy(w, &buf)
}
