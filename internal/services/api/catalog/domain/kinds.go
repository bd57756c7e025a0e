package domain

import "lorebook/internal/core/field"

// Kinds returns the catalog's resource kinds
func Kinds() []Kind {
	return []Kind{
		{
			Name:     "actors",
			Singular: "actor",
			Base: []Field{
				{Name: "name", Type: field.String, Required: true, Rules: "max=200", Filter: true, Sort: true},
				{Name: "birth_date", Type: field.Date, Sort: true},
				{Name: "is_main", Type: field.Bool, Filter: true},
				{Name: "image", Type: field.URL},
				{Name: "instagram", Type: field.URL},
			},
			Translation: []Field{
				{Name: "character", Type: field.String, Required: true, Rules: "max=200"},
				{Name: "description", Type: field.Text, Required: true},
			},
		},
		{
			Name:     "episodes",
			Singular: "episode",
			Base: []Field{
				{Name: "episode_num", Type: field.Int, Required: true, Rules: "min=1", Filter: true, Sort: true},
				{Name: "season_id", Type: field.UUID, Filter: true},
				{Name: "air_date", Type: field.Date, Filter: true, Sort: true},
				{Name: "duration", Type: field.Int, Rules: "min=0", Sort: true},
				{Name: "thumbnail", Type: field.URL},
			},
			Translation: []Field{
				{Name: "title", Type: field.String, Required: true, Rules: "max=200"},
				{Name: "synopsis", Type: field.Text},
				{Name: "directors", Type: field.StringList},
				{Name: "writers", Type: field.StringList},
			},
		},
		{
			Name:     "seasons",
			Singular: "season",
			Base: []Field{
				{Name: "season_num", Type: field.Int, Required: true, Rules: "min=1", Filter: true, Sort: true},
				{Name: "release_date", Type: field.Date, Sort: true},
				{Name: "poster", Type: field.URL},
				{Name: "episode_count", Type: field.Int, Rules: "min=0"},
			},
			Translation: []Field{
				{Name: "title", Type: field.String, Required: true, Rules: "max=200"},
				{Name: "synopsis", Type: field.Text},
				{Name: "trailer", Type: field.URL},
			},
		},
		{
			Name:     "games",
			Singular: "game",
			Base: []Field{
				{Name: "order", Type: field.Int, Rules: "min=0", Sort: true},
				{Name: "episode_id", Type: field.UUID, Filter: true},
				{Name: "image", Type: field.URL},
			},
			Translation: []Field{
				{Name: "name", Type: field.String, Required: true, Rules: "max=200"},
				{Name: "description", Type: field.Text, Required: true},
				{Name: "rules", Type: field.StringList},
			},
		},
		{
			Name:     "locations",
			Singular: "location",
			Base: []Field{
				{Name: "game_id", Type: field.UUID, Filter: true},
				{Name: "episode_id", Type: field.UUID, Filter: true},
				{Name: "image", Type: field.URL},
			},
			Translation: []Field{
				{Name: "name", Type: field.String, Required: true, Rules: "max=200"},
				{Name: "description", Type: field.Text},
			},
		},
		{
			Name:     "soundtracks",
			Singular: "soundtrack",
			Base: []Field{
				{Name: "track_num", Type: field.Int, Rules: "min=1", Filter: true, Sort: true},
				{Name: "duration", Type: field.Int, Rules: "min=0", Sort: true},
				{Name: "artist", Type: field.String, Rules: "max=200", Filter: true, Sort: true},
				{Name: "spotify_url", Type: field.URL},
				{Name: "season_id", Type: field.UUID, Filter: true},
			},
			Translation: []Field{
				{Name: "title", Type: field.String, Required: true, Rules: "max=200"},
				{Name: "description", Type: field.Text},
			},
		},
		{
			Name:     "overview",
			Singular: "overview",
			Base: []Field{
				{Name: "creator", Type: field.String, Rules: "max=200"},
				{Name: "release_date", Type: field.Date},
				{Name: "website", Type: field.URL},
			},
			Translation: []Field{
				{Name: "title", Type: field.String, Required: true, Rules: "max=200"},
				{Name: "synopsis", Type: field.Text, Required: true},
				{Name: "genres", Type: field.StringList},
			},
		},
	}
}

// DefaultRegistry indexes Kinds
func DefaultRegistry() *Registry { return NewRegistry(Kinds()...) }
