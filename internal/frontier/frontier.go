// Package frontier holds the breadth-first queue of candidate communities.
package frontier

import "strings"

// Frontier is a FIFO queue of candidates plus the set of every name it has
// ever accepted. A name is marked visited when pushed, so a community
// discovered twice in the same harvest is queued once.
//
// Frontier is not safe for concurrent use.
type Frontier struct {
	queue   []string
	visited map[string]struct{}
}

func New() *Frontier {
	return &Frontier{visited: make(map[string]struct{})}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Push queues name unless a case-insensitive equal was pushed before.
// It reports whether the name was queued.
func (f *Frontier) Push(name string) bool {
	k := key(name)
	if k == "" {
		return false
	}
	if _, ok := f.visited[k]; ok {
		return false
	}
	f.visited[k] = struct{}{}
	f.queue = append(f.queue, strings.TrimSpace(name))
	return true
}

// Pop removes and returns the oldest queued name.
func (f *Frontier) Pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	name := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return name, true
}

// Seen reports whether name has ever been pushed.
func (f *Frontier) Seen(name string) bool {
	_, ok := f.visited[key(name)]
	return ok
}

// Len is the number of queued names.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// Visited is the number of distinct names ever pushed.
func (f *Frontier) Visited() int {
	return len(f.visited)
}
