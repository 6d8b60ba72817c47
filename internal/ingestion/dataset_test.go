package ingestion

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peliculas/peliculas/internal/graph"
)

const sampleCSV = `imdb_title_id,title,original_title,description,genre,country,director,writer,production_company,actors
tt0047478,Seven Samurai,Shichinin no Samurai,A village hires seven ronin.,"Drama, Action",Japan,Akira Kurosawa,"Akira Kurosawa, Shinobu Hashimoto",Toho,"Toshiro Mifune, Takashi Shimura"
tt0052357,Vertigo,,,"Mystery, Romance",USA,Alfred Hitchcock,,Paramount,James Stewart
,No Id,,,Drama,USA,,,,
`

func TestReadDataset(t *testing.T) {
	records, err := ReadDataset(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 2, "row without external id is skipped")

	samurai := records[0]
	assert.Equal(t, "tt0047478", samurai.ExternalID)
	assert.Equal(t, "Seven Samurai", samurai.Title)
	assert.Equal(t, "Shichinin no Samurai", samurai.OriginalTitle)
	assert.Equal(t, []string{"Drama", "Action"}, samurai.Genres)
	assert.Equal(t, []string{"Akira Kurosawa", "Shinobu Hashimoto"}, samurai.Writers)
	assert.Equal(t, []string{"Toshiro Mifune", "Takashi Shimura"}, samurai.Actors)

	vertigo := records[1]
	assert.Empty(t, vertigo.Writers, "blank multi-value cell parses to nil")
	assert.Equal(t, []string{"James Stewart"}, vertigo.Actors)
}

func TestReadDatasetMissingIDColumn(t *testing.T) {
	_, err := ReadDataset(strings.NewReader("title,genre\nSome Movie,Drama\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "imdb_title_id")
}

// countingStore records every batch the loader sends.
type countingStore struct {
	queries []string
	batches []int
}

func (c *countingStore) Execute(_ context.Context, query string, params map[string]any) ([]graph.Row, error) {
	c.queries = append(c.queries, query)
	rows := params["rows"].([]map[string]any)
	c.batches = append(c.batches, len(rows))
	return nil, nil
}

func TestLoaderBatching(t *testing.T) {
	records := make([]MovieRecord, 5)
	for i := range records {
		records[i] = MovieRecord{
			ExternalID: string(rune('a' + i)),
			Title:      "Movie",
			Genres:     []string{"Drama"},
		}
	}

	store := &countingStore{}
	loader := NewLoader(store, nil, 2)
	require.NoError(t, loader.Load(context.Background(), records))

	// 5 movies in batches of 2 -> 3 batches, then 5 genre rows -> 3 more.
	assert.Equal(t, []int{2, 2, 1, 2, 2, 1}, store.batches)
	assert.Contains(t, store.queries[0], "MERGE (movie:Movie")
	assert.Contains(t, store.queries[3], "MERGE (node:Genre")
	assert.Contains(t, store.queries[3], "MERGE (movie)-[:IN_GENRE]->(node)")
}

func TestRelationSpecDirections(t *testing.T) {
	for _, spec := range relationSpecs {
		q := spec.query()
		if spec.toMovie {
			assert.Contains(t, q, "MERGE (node)-[:"+spec.relation+"]->(movie)", spec.label)
		} else {
			assert.Contains(t, q, "MERGE (movie)-[:"+spec.relation+"]->(node)", spec.label)
		}
	}
}
