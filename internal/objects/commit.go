package objects

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KostasZigo/sit/internal/constants"
	"github.com/KostasZigo/sit/utils"
)

// ErrMalformedCommit is returned when stored bytes do not parse as a commit.
var ErrMalformedCommit = errors.New("malformed commit")

// Signature identifies who made a commit and when.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// String renders "name <email> 2006-Jan-02 15:04:05" in the signature's own location.
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %s", s.Name, s.Email, s.When.Format(constants.SignatureTimeLayout))
}

// Commit is an immutable history record. Its hash is derived from its fields
// and is never part of the serialized form.
type Commit struct {
	hash       string
	treeHash   string
	parentHash string
	author     string
	committer  string
	message    string
}

func NewCommit(treeHash, parentHash, author, committer, message string) *Commit {
	c := &Commit{
		treeHash:   treeHash,
		parentHash: parentHash,
		author:     author,
		committer:  committer,
		message:    message,
	}
	c.hash = utils.ComputeHash(c.Content())
	return c
}

// NewInitialCommit creates a commit without ancestor.
func NewInitialCommit(treeHash, author, committer, message string) *Commit {
	return NewCommit(treeHash, constants.EmptyRef, author, committer, message)
}

// WithParent returns a copy pointing at parentHash. All other fields are kept,
// so the copy's hash differs from c's whenever the parent differs.
func (c *Commit) WithParent(parentHash string) *Commit {
	return NewCommit(c.treeHash, parentHash, c.author, c.committer, c.message)
}

// buildCommitContent creates the raw commit content:
// tree <id>\nparent <id>\nauthor <sig>\ncommitter <sig>\n\n<message>
// The message is written verbatim so parsing and re-serializing is byte stable.
func buildCommitContent(treeHash, parentHash, author, committer, message string) []byte {
	var buf bytes.Buffer

	buf.WriteString(constants.CommitTreePrefix + treeHash + "\n")
	buf.WriteString(constants.CommitParentPrefix + parentHash + "\n")
	buf.WriteString(constants.CommitAuthorPrefix + author + "\n")
	buf.WriteString(constants.CommitCommitterPrefix + committer + "\n")

	// Blank line before message
	buf.WriteByte('\n')
	buf.WriteString(message)

	return buf.Bytes()
}

// ParseCommit decodes commit content. The hash is recomputed from data.
func ParseCommit(data []byte) (*Commit, error) {
	headerEnd := bytes.Index(data, []byte("\n\n"))
	if headerEnd == -1 {
		return nil, fmt.Errorf("%w: missing header terminator", ErrMalformedCommit)
	}

	fields := map[string]*string{}
	c := &Commit{}
	fields[constants.CommitTreePrefix] = &c.treeHash
	fields[constants.CommitParentPrefix] = &c.parentHash
	fields[constants.CommitAuthorPrefix] = &c.author
	fields[constants.CommitCommitterPrefix] = &c.committer

	seen := 0
	for _, line := range strings.Split(string(data[:headerEnd]), "\n") {
		matched := false
		for prefix, target := range fields {
			if strings.HasPrefix(line, prefix) {
				*target = strings.TrimPrefix(line, prefix)
				matched = true
				seen++
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: unexpected header line %q", ErrMalformedCommit, line)
		}
	}
	if seen != len(fields) {
		return nil, fmt.Errorf("%w: expected %d header lines, got %d", ErrMalformedCommit, len(fields), seen)
	}
	if !utils.IsHexHash(c.treeHash) || !utils.IsHexHash(c.parentHash) {
		return nil, fmt.Errorf("%w: invalid tree or parent id", ErrMalformedCommit)
	}

	c.message = string(data[headerEnd+2:])
	c.hash = utils.ComputeHash(data)
	return c, nil
}

func (c *Commit) Hash() string {
	return c.hash
}

func (c *Commit) TreeHash() string {
	return c.treeHash
}

func (c *Commit) ParentHash() string {
	return c.parentHash
}

func (c *Commit) Author() string {
	return c.author
}

func (c *Commit) Committer() string {
	return c.committer
}

func (c *Commit) Message() string {
	return c.message
}

func (c *Commit) Content() []byte {
	return buildCommitContent(c.treeHash, c.parentHash, c.author, c.committer, c.message)
}

func (c *Commit) Data() []byte {
	return c.Content()
}

func (c *Commit) IsInitialCommit() bool {
	return c.parentHash == constants.EmptyRef
}

func (c *Commit) String() string {
	return fmt.Sprintf("Commit{hash: %s, tree: %s, parent: %s, author: %s, message: %q}",
		c.hash, c.treeHash, c.parentHash, c.author, c.message)
}
