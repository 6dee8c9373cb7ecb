package fuzz

// Corpus holds accepted testcases keyed by a monotonically increasing id.
// Removal (pruning) forgets an entry entirely; ids are never reused.
type Corpus struct {
	nextID  CorpusID
	entries map[CorpusID]*Testcase
}

// NewCorpus returns an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{entries: make(map[CorpusID]*Testcase)}
}

// Add inserts tc and returns its new id.
func (c *Corpus) Add(tc Testcase) CorpusID {
	id := c.nextID
	c.nextID++
	c.entries[id] = &tc
	return id
}

// Get returns the testcase for id, or ok=false if it has been pruned or
// never existed.
func (c *Corpus) Get(id CorpusID) (*Testcase, bool) {
	tc, ok := c.entries[id]
	return tc, ok
}

// Remove forgets id. A second Remove of the same id is a no-op.
func (c *Corpus) Remove(id CorpusID) {
	delete(c.entries, id)
}

// Len is the number of live entries.
func (c *Corpus) Len() int {
	return len(c.entries)
}

// IDs returns every live entry's id, in no particular order.
func (c *Corpus) IDs() []CorpusID {
	ids := make([]CorpusID, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	return ids
}

// Solutions is the separate corpus of inputs whose replay is a solved
// puzzle state. The driver's terminal condition is Solutions.Len() > 0.
type Solutions struct {
	inputs []Input
}

// NewSolutions returns an empty solutions corpus.
func NewSolutions() *Solutions {
	return &Solutions{}
}

// Add appends a solved input.
func (s *Solutions) Add(input Input) {
	s.inputs = append(s.inputs, input)
}

// Len is the number of solutions found so far.
func (s *Solutions) Len() int {
	return len(s.inputs)
}

// First returns the first solution found, if any.
func (s *Solutions) First() (Input, bool) {
	if len(s.inputs) == 0 {
		return Input{}, false
	}
	return s.inputs[0], true
}
