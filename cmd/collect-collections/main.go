// Command collect-collections builds a collection dataset from TMDB's
// popular movies, for use as the [collections] dataset file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vmunix/marquee/internal/collections"
	"github.com/vmunix/marquee/internal/config"
	"github.com/vmunix/marquee/internal/tmdb"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to config file")
	output := flag.String("output", "collections.json", "Output JSON file")
	pages := flag.Int("pages", 10, "Popular movie pages to scan")
	merge := flag.Bool("merge", false, "Keep collections already in the output file")
	delay := flag.Duration("delay", 250*time.Millisecond, "Pause between popular pages")
	flag.Parse()

	if err := run(*configPath, *output, *pages, *merge, *delay); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, output string, pages int, merge bool, delay time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client := tmdb.NewClient(cfg.TMDB.APIKey, tmdb.WithBaseURL(cfg.TMDB.BaseURL))

	ds := collections.Dataset{}
	if merge {
		existing, err := collections.LoadDatasetFile(output)
		switch {
		case err == nil:
			ds = existing
			fmt.Printf("Loaded %d collections from %s\n", len(ds), output)
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("load existing dataset: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	added := collect(ctx, client, ds, pages, delay, os.Stdout)
	fmt.Printf("\nAdded %d collections, %d total\n", added, len(ds))

	if err := writeDataset(output, ds); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	fmt.Printf("Written to %s\n", output)
	return nil
}

type api interface {
	PopularMoviesPage(ctx context.Context, page int) (*tmdb.MoviePage, error)
	GetMovie(ctx context.Context, tmdbID int64) (*tmdb.Movie, error)
	GetCollection(ctx context.Context, collectionID int64) (*tmdb.Collection, error)
}

// collect adds every valid collection reachable from the first pages of
// popular movies to ds and returns how many were new.
func collect(ctx context.Context, client api, ds collections.Dataset, pages int, delay time.Duration, w io.Writer) int {
	seen := make(map[int64]bool)
	added := 0

	for page := 1; page <= pages; page++ {
		list, err := client.PopularMoviesPage(ctx, page)
		if err != nil {
			fmt.Fprintf(w, "  page %d: error: %v\n", page, err)
			break
		}

		newCount := 0
		for _, m := range list.Results {
			movie, err := client.GetMovie(ctx, m.ID)
			if err != nil || movie.BelongsToCollection == nil {
				continue
			}
			id := movie.BelongsToCollection.ID
			key := fmt.Sprint(id)
			if seen[id] {
				continue
			}
			seen[id] = true
			if _, ok := ds[key]; ok {
				continue
			}

			c, err := client.GetCollection(ctx, id)
			if err != nil {
				fmt.Fprintf(w, "  collection %d: error: %v\n", id, err)
				continue
			}
			if !collections.Valid(*c) {
				continue
			}
			ds[key] = *c
			newCount++
		}
		added += newCount
		fmt.Fprintf(w, "  page %d: %d movies, %d new collections\n", page, len(list.Results), newCount)

		if page >= list.TotalPages {
			break
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return added
}

func writeDataset(path string, ds collections.Dataset) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
