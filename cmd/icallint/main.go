// Command icallint validates one or more .ics files and prints their
// warnings, colorized when stdout is a terminal, or as a JSON array with
// -json. File errors are logged with the standard log package.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	json "go.bug.st/json"

	"github.com/icalkit/ical"
	"github.com/icalkit/ical/internal/config"
)

func main() {
	configPath := flag.String("config", ".icalintrc", "path to an optional ordered properties config file")
	asJSON := flag.Bool("json", false, "emit warnings as a JSON array instead of text")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("icallint: usage: icallint [-config path] [-json] FILE...")
	}

	opts, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("icallint: loading %s: %v", *configPath, err)
	}
	registry := ical.NewDefaultRegistry(opts.Dialect)

	colorize := !*asJSON && isatty.IsTerminal(os.Stdout.Fd())
	exitCode := 0

	type fileReport struct {
		Path     string         `json:"path"`
		Warnings []ical.Warning `json:"warnings"`
	}
	var reports []fileReport

	for _, path := range flag.Args() {
		f, err := os.Open(path)
		if err != nil {
			log.Printf("icallint: %s: %v", path, err)
			exitCode = 1
			continue
		}

		comps, warns, err := ical.ReadObjects(f, registry, opts.ReaderOptions())
		f.Close()
		if err != nil {
			log.Printf("icallint: %s: %v", path, err)
			exitCode = 1
			continue
		}
		for _, c := range comps {
			warns = append(warns, ical.Validate(c)...)
		}

		if *asJSON {
			reports = append(reports, fileReport{Path: path, Warnings: warns})
			continue
		}

		if len(warns) > 0 {
			exitCode = 1
		}
		printWarnings(path, warns, colorize)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			log.Fatalf("icallint: encoding JSON: %v", err)
		}
	}

	os.Exit(exitCode)
}

func printWarnings(path string, warns []ical.Warning, colorize bool) {
	if len(warns) == 0 {
		if colorize {
			color.New(color.FgGreen).Printf("%s: ok\n", path)
		} else {
			fmt.Printf("%s: ok\n", path)
		}
		return
	}
	for _, w := range warns {
		if colorize {
			color.New(color.FgYellow).Printf("%s: %s\n", path, w.Error())
		} else {
			fmt.Printf("%s: %s\n", path, w.Error())
		}
	}
}
