// Package seed loads catalog fixtures from YAML and writes them through the
// catalog service, so seeded data passes the same validation as the API
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"

	perr "lorebook/internal/platform/errors"
	"lorebook/internal/platform/logger"
	"lorebook/internal/services/api/catalog/domain"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var starter []byte

// Group is the fixtures of one kind, created in file order
type Group struct {
	Kind  string           `yaml:"kind"`
	Items []map[string]any `yaml:"items"`
}

// File is a fixture document: a YAML sequence of groups, each naming a kind
// and listing items in the create payload shape
type File []Group

// Creator is the part of the catalog service seeding needs
type Creator interface {
	Create(ctx context.Context, kind string, in domain.CreateInput) (domain.View, error)
}

// Decode reads a fixture document
func Decode(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return File{}, nil
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "seed: decode fixtures")
	}
	return f, nil
}

// Open reads the fixture file at path, or the built in starter catalog when
// path is empty
func Open(path string) (File, error) {
	if path == "" {
		return Decode(bytes.NewReader(starter))
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "seed: open %s", path)
	}
	defer func() { _ = fh.Close() }()
	return Decode(fh)
}

// Apply creates every fixture in order and returns how many of each kind
// were written. It stops at the first rejected item
func Apply(ctx context.Context, c Creator, f File) (map[string]int, error) {
	log := logger.Named("seed")
	counts := map[string]int{}
	for _, g := range f {
		for i, item := range g.Items {
			in, err := domain.CreateInputFrom(item)
			if err == nil {
				_, err = c.Create(ctx, g.Kind, in)
			}
			if err != nil {
				return counts, perr.Wrapf(err, perr.CodeOf(err), "seed: %s item %d: %v", g.Kind, i, err)
			}
			counts[g.Kind]++
		}
		log.Info().Str("kind", g.Kind).Int("count", counts[g.Kind]).Msg("seeded")
	}
	return counts, nil
}
