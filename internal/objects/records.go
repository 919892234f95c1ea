package objects

import "fmt"

// WriteCommit stores a commit and returns its id.
func WriteCommit(store *ObjectStore, commit *Commit) (string, error) {
	if err := store.Store(commit); err != nil {
		return "", fmt.Errorf("failed to store commit: %w", err)
	}
	return commit.Hash(), nil
}

// ReadCommit loads and parses the commit stored under hash.
func ReadCommit(store *ObjectStore, hash string) (*Commit, error) {
	data, err := store.Get(hash)
	if err != nil {
		return nil, err
	}
	commit, err := ParseCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", hash, err)
	}
	return commit, nil
}

// WriteTree stores a tree and returns its id.
func WriteTree(store *ObjectStore, tree *Tree) (string, error) {
	if err := store.Store(tree); err != nil {
		return "", fmt.Errorf("failed to store tree: %w", err)
	}
	return tree.Hash(), nil
}

// ReadTree loads and parses the tree stored under hash.
func ReadTree(store *ObjectStore, hash string) (*Tree, error) {
	data, err := store.Get(hash)
	if err != nil {
		return nil, err
	}
	tree, err := ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", hash, err)
	}
	return tree, nil
}
