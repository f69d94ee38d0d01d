package jsontree

// Store holds the frame-spanning state a tree needs: per-node collapse state
// keyed by ID, and the per-tree reset-protocol bits. The embedding
// application owns the Store and passes it into every Show call; it is never
// a package-level singleton.
//
// A Store is confined to the single goroutine driving the render loop. State
// for nodes whose paths disappear (because the document shrank) is never
// cleaned up automatically; orphaned entries are harmless at interactive
// document sizes.
type Store struct {
	open       map[ID]bool
	policyHash map[ID]uint64
	reset      map[ID]bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		open:       make(map[ID]bool),
		policyHash: make(map[ID]uint64),
		reset:      make(map[ID]bool),
	}
}

// Load returns the collapse state for id, or def when none is stored.
// existed reports whether a stored value was found.
func (s *Store) Load(id ID, def bool) (open, existed bool) {
	open, existed = s.open[id]
	if !existed {
		open = def
	}
	return open, existed
}

// Set stores the collapse state for id.
func (s *Store) Set(id ID, open bool) {
	s.open[id] = open
}

// Toggle flips the collapse state for id, using def when none is stored, and
// returns the new state. Embedding UIs call this when the user activates a
// node between frames.
func (s *Store) Toggle(id ID, def bool) bool {
	open, _ := s.Load(id, def)
	s.open[id] = !open
	return !open
}

// Remove drops any stored collapse state for id.
func (s *Store) Remove(id ID) {
	delete(s.open, id)
}

// Len returns the number of stored collapse-state entries.
func (s *Store) Len() int { return len(s.open) }

// RequestReset arms the one-shot reset flag for the given tree. On its next
// render every expandable node's collapse state is overwritten with the
// policy-resolved default.
func (s *Store) RequestReset(tree ID) {
	s.reset[tree] = true
}

// takeReset consumes the one-shot reset flag for the given tree.
func (s *Store) takeReset(tree ID) bool {
	set := s.reset[tree]
	if set {
		delete(s.reset, tree)
	}
	return set
}

// policy returns the stored default-expand policy hash for the tree.
func (s *Store) policy(tree ID) (hash uint64, ok bool) {
	hash, ok = s.policyHash[tree]
	return hash, ok
}

// setPolicy stores the default-expand policy hash for the tree.
func (s *Store) setPolicy(tree ID, hash uint64) {
	s.policyHash[tree] = hash
}
