// Package store loads UBL documents from the local download directory.
package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/veridia/invoice-summary/internal/model"
	"github.com/veridia/invoice-summary/internal/parser/ubl"
)

// Store reads documents from a directory of XML files.
type Store struct {
	dir      string
	registry *ubl.Registry
	log      zerolog.Logger
}

// New creates a store over the given directory.
func New(dir string) *Store {
	return &Store{
		dir:      dir,
		registry: ubl.NewRegistry(),
		log:      log.With().Str("component", "store").Logger(),
	}
}

// LoadAll parses every *.xml file in the directory, in file-name order.
// Files that fail to parse are returned as per-document failures so the
// caller can report them alongside pipeline failures; they never abort
// the batch.
func (s *Store) LoadAll(ctx context.Context) ([]model.Document, []model.DocumentResult, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.xml"))
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(paths)
	s.log.Debug().Str("dir", s.dir).Int("files", len(paths)).Msg("scanning documents")

	var (
		docs     []model.Document
		failures []model.DocumentResult
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		doc, err := s.loadFile(path)
		if err != nil {
			s.log.Error().Str("file", path).Err(err).Msg("skipping unreadable document")
			failures = append(failures, model.DocumentResult{
				DocumentNumber: filepath.Base(path),
				Err:            err,
				ErrorMessage:   err.Error(),
			})
			continue
		}
		docs = append(docs, *doc)
	}

	return docs, failures, nil
}

func (s *Store) loadFile(path string) (*model.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, model.NewLoadError(path, "read failed", err)
	}
	doc, err := s.registry.Parse(content)
	if err != nil {
		return nil, model.NewLoadError(path, "parse failed", err)
	}
	return doc, nil
}
