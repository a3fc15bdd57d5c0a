package main

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
)

// Replicator copies source commits into the façade, one placeholder commit
// per eligible source commit.
type Replicator struct {
	Store      WatermarkStore
	Facade     CommitWriter
	Enumerator Enumerator
	Order      WatermarkOrder
	Log        zerolog.Logger
}

// Result summarizes a replication run
type Result struct {
	// Watermark is the watermark after the run.
	Watermark Watermark
	// Commits is the number of façade commits created.
	Commits int
}

// Run replicates every commit of sources authored at or after start, in
// configuration order and, within a source, in enumeration order. Commits
// authored exactly at start that the façade already records are skipped.
//
// With BeforeCommit the watermark is persisted ahead of each commit that
// advances it. Commits arrive newest first, so a run that aborts part way
// leaves every older commit it had not reached behind the watermark, and the
// next run skips them. With AfterCommit the watermark is persisted once,
// after every source has been written; an aborted run leaves it untouched
// and the next run writes its commits again.
func (r *Replicator) Run(start Watermark, sources []Source) (Result, error) {
	res := Result{Watermark: start}

	replicated, err := r.boundary(start)
	if err != nil {
		return res, err
	}

	for _, src := range sources {
		log := r.Log.With().Str("source", src.Name).Logger()

		commits, err := r.Enumerator.Commits(src)
		if err != nil {
			return res, err
		}
		log.Debug().Int("commits", len(commits)).Str("path", src.Path).Msg("enumerated source")

		message := fmt.Sprintf("Façade commit: %s", src.Name)
		for _, c := range commits {
			at := watermarkOf(c.Author.When)
			if at.Compare(start) < 0 {
				continue
			}
			if at == start && replicated[c.Hash] {
				continue
			}

			if err := r.replicate(&res, at, message, c); err != nil {
				log.Debug().Err(err).Str("commit", c.Hash.String()).Msg("replicating commit")
				return res, err
			}

			log.Debug().
				Str("commit", c.Hash.String()).
				Stringer("watermark", res.Watermark).
				Msg("replicated commit")
		}
	}

	if r.Order == AfterCommit && res.Watermark != start {
		if err := r.Store.Write(res.Watermark); err != nil {
			return res, err
		}
	}

	return res, nil
}

// replicate writes one façade commit and advances the run's watermark. Under
// BeforeCommit an advanced watermark is persisted before the commit.
func (r *Replicator) replicate(res *Result, at Watermark, message string, c *object.Commit) error {
	advance := at.Compare(res.Watermark) > 0

	if advance && r.Order != AfterCommit {
		if err := r.Store.Write(at); err != nil {
			return err
		}
	}

	if _, err := r.Facade.Commit(message, c); err != nil {
		return err
	}
	res.Commits++

	if advance {
		res.Watermark = at
	}

	return nil
}

// boundary returns the source commits the façade already holds at exactly
// the start watermark
func (r *Replicator) boundary(start Watermark) (map[plumbing.Hash]bool, error) {
	if start == MinWatermark {
		return nil, nil
	}

	replicated, err := r.Facade.Replicated(start)
	if err != nil {
		return nil, err
	}
	r.Log.Debug().Int("commits", len(replicated)).Stringer("watermark", start).Msg("loaded façade boundary")

	return replicated, nil
}
