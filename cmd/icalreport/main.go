// Command icalreport batch-validates every .ics file in a directory and
// emits one CSV row per warning, marshaled the way Durelius-next-week
// exports its reports with gocarina/gocsv.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/icalkit/ical"
	"github.com/icalkit/ical/internal/config"
)

// warningRow is one flattened CSV record; gocsv marshals exported fields
// using the "csv" struct tags below.
type warningRow struct {
	Path          string `csv:"path"`
	ComponentPath string `csv:"component"`
	Property      string `csv:"property"`
	Code          int    `csv:"code"`
	Message       string `csv:"message"`
}

func main() {
	dir := flag.String("dir", ".", "directory of .ics files to scan")
	out := flag.String("out", "", "CSV output path (defaults to stdout)")
	configPath := flag.String("config", ".icalintrc", "path to an optional ordered properties config file")
	flag.Parse()

	opts, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("icalreport: loading %s: %v", *configPath, err)
	}
	registry := ical.NewDefaultRegistry(opts.Dialect)

	var rows []*warningRow
	err = filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".ics") {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			log.Printf("icalreport: %s: %v", path, err)
			return nil
		}
		defer f.Close()

		comps, warns, err := ical.ReadObjects(f, registry, opts.ReaderOptions())
		if err != nil {
			log.Printf("icalreport: %s: %v", path, err)
			return nil
		}
		for _, c := range comps {
			warns = append(warns, ical.Validate(c)...)
		}
		for _, w := range warns {
			rows = append(rows, &warningRow{
				Path:          path,
				ComponentPath: strings.Join(w.ComponentPath, "/"),
				Property:      w.PropertyName,
				Code:          w.Code,
				Message:       strings.Join(w.MessageArgs, " "),
			})
		}
		return nil
	})
	if err != nil {
		log.Fatalf("icalreport: walking %s: %v", *dir, err)
	}

	dest := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("icalreport: creating %s: %v", *out, err)
		}
		defer f.Close()
		dest = f
	}

	if err := gocsv.Marshal(rows, dest); err != nil {
		log.Fatalf("icalreport: marshaling CSV: %v", err)
	}
}
