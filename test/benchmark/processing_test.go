//go:build benchmark

package benchmark

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"dvr2plex-go/internal/catalog"
	"dvr2plex-go/internal/dictionary"
	"dvr2plex-go/internal/parser"
	"dvr2plex-go/internal/scanner"
	"dvr2plex-go/internal/template"
	"dvr2plex-go/internal/tokenizer"
)

var names = []string{
	"Castle (2009) S01E02 Nanny McDead",
	"Doctor Who E1203",
	"MacGyver.2016.S02E05.Skull.720p",
	"The_Late_Show_2019-03-14_20190315",
	"Will & Grace 8x12 (US) 2019-01-17",
	"S.W.A.T. (2017) - s03e10 - Sea Legs",
}

var library = []string{
	"Castle (2009)",
	"Doctor Who",
	"MacGyver (2016)",
	"The Late Show",
	"Will & Grace",
	"S.W.A.T. (2017)",
	"Marvel's Agents of S.H.I.E.L.D.",
}

func BenchmarkTokenize(b *testing.B) {
	for _, policy := range []tokenizer.Policy{tokenizer.Uniform, tokenizer.Histogram} {
		tok := tokenizer.New(policy)
		b.Run(policy.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				for _, name := range names {
					if len(tok.Tokenize(name)) == 0 {
						b.Fatalf("no tokens for %q", name)
					}
				}
			}
		})
	}
}

func BenchmarkCatalogLookup(b *testing.B) {
	series := catalog.FromNames(library)

	b.Run("Hit", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, ok := series.Lookup("Marvels Agents of SHIELD The Well"); !ok {
				b.Fatal("expected a match")
			}
		}
	})

	b.Run("Suggest", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			series.Suggest("Agents SHIELD", 3)
		}
	})
}

func BenchmarkParseAndRender(b *testing.B) {
	p := parser.New(tokenizer.New(tokenizer.Histogram))
	series := catalog.FromNames(library)

	main := dictionary.New("Main")
	main.AddKey(dictionary.Destination, "/tv")
	main.AddKey(dictionary.Template, "{Destination}/{DestSeries}/{SeasonFolder}/{DestSeries} - S{Season}E{Episode}{Title? - @}{Extension}")
	layers := template.NewLayers(main).WithEnviron(func(string) (string, bool) { return "", false })

	batchSizes := []int{10, 100, 1000}
	for _, size := range batchSizes {
		paths := make([]string, size)
		for i := range paths {
			paths[i] = fmt.Sprintf("/rec/%s.ts", names[i%len(names)])
		}

		b.Run(fmt.Sprintf("Batch%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				for _, path := range paths {
					dict := dictionary.New("File")
					p.ParsePath(dict, path, series)
					if _, err := template.RenderTemplate(layers.With(dict)); err != nil {
						b.Fatalf("render %s: %v", path, err)
					}
				}
			}
		})
	}
}

func BenchmarkScan(b *testing.B) {
	root := b.TempDir()
	for i := 0; i < 500; i++ {
		dir := filepath.Join(root, fmt.Sprintf("channel-%02d", i%10))
		if err := os.MkdirAll(dir, 0755); err != nil {
			b.Fatal(err)
		}
		name := fmt.Sprintf("%s %d.ts", names[i%len(names)], i)
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			b.Fatal(err)
		}
	}

	s, err := scanner.NewScanner([]string{".ts", ".mpg"}, scanner.DefaultIgnoredDirPatterns)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := s.Scan(root)
		if err != nil {
			b.Fatal(err)
		}
		if len(result.Files) != 500 {
			b.Fatalf("expected 500 recordings, got %d", len(result.Files))
		}
	}
}
