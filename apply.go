package main

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// payloadFile holds the raw hash of the replicated source commit
const payloadFile = "scratch-file.bin"

// CommitWriter creates façade commits.
type CommitWriter interface {
	// Commit records src in a new commit chained onto HEAD.
	Commit(message string, src *object.Commit) (plumbing.Hash, error)
	// Replicated returns the source hashes recorded by existing façade
	// commits authored exactly at the given time.
	Replicated(at Watermark) (map[plumbing.Hash]bool, error)
}

// Facade is the repository receiving placeholder commits
type Facade struct {
	Path     string
	repo     *git.Repository
	worktree *git.Worktree
}

// openFacade opens the façade repository at path, creating it when needed
func openFacade(path string) (*Facade, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ErrFacadeOpen.Wrap(err)
	}

	r, err := openOrInit(abs)
	if err != nil {
		return nil, ErrFacadeOpen.Wrap(err)
	}

	w, err := r.Worktree()
	if err != nil {
		return nil, ErrFacadeOpen.Wrap(err)
	}

	return &Facade{Path: abs, repo: r, worktree: w}, nil
}

func (f *Facade) Commit(message string, src *object.Commit) (plumbing.Hash, error) {
	if err := util.WriteFile(f.worktree.Filesystem, payloadFile, src.Hash[:], 0644); err != nil {
		return plumbing.ZeroHash, ErrStorage.Wrap(err, "writing "+payloadFile)
	}

	if _, err := f.worktree.Add(payloadFile); err != nil {
		return plumbing.ZeroHash, ErrStorage.Wrap(err, "staging "+payloadFile)
	}

	sig := src.Author
	h, err := f.worktree.Commit(message, &git.CommitOptions{
		Author:            &sig,
		Committer:         &sig,
		AllowEmptyCommits: true,
	})
	if err != nil {
		return plumbing.ZeroHash, ErrStorage.Wrap(err, "creating façade commit")
	}

	return h, nil
}

func (f *Facade) Replicated(at Watermark) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)

	head, ok, err := headHash(f.repo)
	if err != nil {
		return nil, ErrStorage.Wrap(err, "resolving façade HEAD")
	}
	if !ok {
		return seen, nil
	}

	err = walk(f.repo, head, func(c *object.Commit) error {
		if watermarkOf(c.Author.When).Compare(at) != 0 {
			return nil
		}

		h, ok, err := payloadOf(c)
		if err != nil {
			return err
		}
		if ok {
			seen[h] = true
		}
		return nil
	})
	if err != nil {
		return nil, ErrStorage.Wrap(err, "reading façade history")
	}

	return seen, nil
}

// payloadOf returns the source hash recorded in a façade commit
func payloadOf(c *object.Commit) (plumbing.Hash, bool, error) {
	file, err := c.File(payloadFile)
	if err == object.ErrFileNotFound {
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, err
	}

	contents, err := file.Contents()
	if err != nil {
		return plumbing.ZeroHash, false, err
	}

	var h plumbing.Hash
	if len(contents) != len(h) {
		return plumbing.ZeroHash, false, nil
	}
	copy(h[:], contents)
	return h, true, nil
}
