package main

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// openOrInit opens the repository at path, initializing a new one when it
// cannot be opened
func openOrInit(path string) (*git.Repository, error) {
	r, err := git.PlainOpen(path)
	if err == nil {
		return r, nil
	}
	return git.PlainInit(path, false)
}

// headHash returns the commit HEAD points to. The boolean is false when HEAD
// is unborn, i.e. the repository has no commits yet.
func headHash(r *git.Repository) (plumbing.Hash, bool, error) {
	ref, err := r.Head()
	if err == plumbing.ErrReferenceNotFound {
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, err
	}
	return ref.Hash(), true, nil
}

// walk calls fn for every commit reachable from the given commit, in
// go-git's default depth-first order
func walk(r *git.Repository, from plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := r.Log(&git.LogOptions{From: from})
	if err != nil {
		return err
	}
	defer iter.Close()

	return iter.ForEach(fn)
}
