package domain

import "fmt"

// CommitRef identifies one commit to inspect.
type CommitRef struct {
	Owner string
	Repo  string
	SHA   string
}

func (c CommitRef) String() string {
	return fmt.Sprintf("%s/%s@%s", c.Owner, c.Repo, c.SHA)
}

// RepositoryHistory is one repository's default-branch commits inside the lookback window.
type RepositoryHistory struct {
	FullName         string
	HasDefaultBranch bool
	// ResourcePaths are in the form /{owner}/{repo}/commit/{sha}.
	ResourcePaths []string
}

// FileDelta is one file's change counts within one commit.
type FileDelta struct {
	Filename  string
	Additions int
	Deletions int
}

// ExtensionBucket accumulates change counts for one normalized file extension.
type ExtensionBucket struct {
	Extension  string  `json:"extension"`
	Additions  int     `json:"additions"`
	Deletions  int     `json:"deletions"`
	Changes    int     `json:"changes"`
	Percentage float64 `json:"percentage"`
}

// BucketSet is the set of extension buckets for one run, kept in creation order.
type BucketSet struct {
	buckets []*ExtensionBucket
	index   map[string]int
}

// NewBucketSet creates an empty BucketSet.
func NewBucketSet() *BucketSet {
	return &BucketSet{index: make(map[string]int)}
}

// Add merges one file's counts into the bucket for ext, creating it on first encounter.
func (s *BucketSet) Add(ext string, additions, deletions int) {
	i, ok := s.index[ext]
	if !ok {
		i = len(s.buckets)
		s.index[ext] = i
		s.buckets = append(s.buckets, &ExtensionBucket{Extension: ext})
	}
	b := s.buckets[i]
	b.Additions += additions
	b.Deletions += deletions
	b.Changes += additions + deletions
}

// Get returns the bucket for ext.
func (s *BucketSet) Get(ext string) (*ExtensionBucket, bool) {
	i, ok := s.index[ext]
	if !ok {
		return nil, false
	}
	return s.buckets[i], true
}

// Buckets returns the buckets in creation order.
func (s *BucketSet) Buckets() []*ExtensionBucket {
	out := make([]*ExtensionBucket, len(s.buckets))
	copy(out, s.buckets)
	return out
}

// Len returns the number of buckets.
func (s *BucketSet) Len() int {
	return len(s.buckets)
}

// Changes returns every bucket's change count in creation order.
func (s *BucketSet) Changes() []float64 {
	changes := make([]float64, len(s.buckets))
	for i, b := range s.buckets {
		changes[i] = float64(b.Changes)
	}
	return changes
}

// Finalize sets every bucket's percentage of total. A zero total leaves all percentages at zero.
func (s *BucketSet) Finalize(total float64) {
	for _, b := range s.buckets {
		if total == 0 {
			b.Percentage = 0
			continue
		}
		b.Percentage = 100 * float64(b.Changes) / total
	}
}
