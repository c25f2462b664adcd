package dictionary

import (
	"fmt"

	"dvr2plex-go/internal/hashing"
)

// Template keywords. These names are part of the template language and
// must not change.
const (
	Basename        = "Basename"
	Country         = "Country"
	DateRecorded    = "DateRecorded"
	Destination     = "Destination"
	DestSeries      = "DestSeries"
	Episode         = "Episode"
	Extension       = "Extension"
	FirstAired      = "FirstAired"
	Path            = "Path"
	Season          = "Season"
	SeasonFolder    = "SeasonFolder"
	Series          = "Series"
	Source          = "Source"
	Template        = "Template"
	Title           = "Title"
	Year            = "Year"
	Execute         = "Execute"
	Stdin           = "Stdin"
	NullTermination = "NullTermination"
)

var (
	KeyBasename        = hashing.Key(Basename)
	KeyCountry         = hashing.Key(Country)
	KeyDateRecorded    = hashing.Key(DateRecorded)
	KeyDestination     = hashing.Key(Destination)
	KeyDestSeries      = hashing.Key(DestSeries)
	KeyEpisode         = hashing.Key(Episode)
	KeyExtension       = hashing.Key(Extension)
	KeyFirstAired      = hashing.Key(FirstAired)
	KeyPath            = hashing.Key(Path)
	KeySeason          = hashing.Key(Season)
	KeySeasonFolder    = hashing.Key(SeasonFolder)
	KeySeries          = hashing.Key(Series)
	KeySource          = hashing.Key(Source)
	KeyTemplate        = hashing.Key(Template)
	KeyTitle           = hashing.Key(Title)
	KeyYear            = hashing.Key(Year)
	KeyExecute         = hashing.Key(Execute)
	KeyStdin           = hashing.Key(Stdin)
	KeyNullTermination = hashing.Key(NullTermination)
)

// Keywords lists every reserved keyword name.
var Keywords = []string{
	Basename, Country, DateRecorded, Destination, DestSeries, Episode,
	Extension, FirstAired, Path, Season, SeasonFolder, Series, Source,
	Template, Title, Year, Execute, Stdin, NullTermination,
}

var keywordNames = func() map[hashing.Hash]string {
	m := make(map[hashing.Hash]string, len(Keywords))
	for _, k := range Keywords {
		m[hashing.Key(k)] = k
	}
	return m
}()

// KeywordName returns the reserved keyword that hashes to h, or "" when h
// is not a reserved keyword.
func KeywordName(h hashing.Hash) string {
	return keywordNames[h]
}

func hashString(h hashing.Hash) string {
	return fmt.Sprintf("0x%016x", uint64(h))
}
