// Command fetchfixtures downloads the real-world .mca/.nbt files listed
// in a fixture manifest into a local directory, for opt-in round-trip
// tests against actual game data.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	get "github.com/hashicorp/go-getter"

	"github.com/go-theft-craft/nbt/internal/fixtureconfig"
)

func main() {
	var (
		manifest = flag.String("manifest", "testdata/fixtures.json", "path to the fixture manifest")
		out      = flag.String("o", "testdata/fixtures", "output directory")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	m, err := fixtureconfig.Load(*manifest)
	if err != nil {
		log.Error("load fixture manifest", "path", *manifest, "error", err)
		os.Exit(1)
	}
	if len(m.Fixtures) == 0 {
		log.Info("no fixtures listed", "manifest", *manifest)
		return
	}

	for _, f := range m.Fixtures {
		dest := filepath.Join(*out, f.Dest)
		log.Info("fetching fixture", "name", f.Name, "url", f.URL, "dest", dest)
		if err := get.Get(dest, f.URL); err != nil {
			log.Error("fetch fixture", "name", f.Name, "error", err)
			os.Exit(1)
		}
	}

	log.Info("done fetching fixtures", "count", len(m.Fixtures), "out", *out)
}
