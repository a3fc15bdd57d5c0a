package main

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Enumerator lists the commits of a source repository that are eligible
// for replication.
type Enumerator interface {
	Commits(src Source) ([]*object.Commit, error)
}

// gitEnumerator reads source repositories from disk
type gitEnumerator struct{}

func (gitEnumerator) Commits(src Source) ([]*object.Commit, error) {
	r, err := git.PlainOpen(src.Path)
	if err != nil {
		return nil, ErrRepositoryAccess.Wrap(err, src.Path)
	}
	return capture(r, src.Path)
}

// capture returns the non-merge commits reachable from HEAD, in walk order
func capture(r *git.Repository, path string) ([]*object.Commit, error) {
	head, ok, err := headHash(r)
	if err != nil {
		return nil, ErrRepositoryAccess.Wrap(err, path)
	}
	if !ok {
		return nil, ErrRepositoryAccess.New(path + ": HEAD does not point to a commit")
	}

	var commits []*object.Commit
	err = walk(r, head, func(c *object.Commit) error {
		if c.NumParents() > 1 {
			return nil
		}
		commits = append(commits, c)
		return nil
	})
	if err != nil {
		return nil, ErrStorage.Wrap(err, "walking history of "+path)
	}

	return commits, nil
}
