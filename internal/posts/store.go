package posts

import "sync"

// Repository is the collection the query engine runs against.
type Repository interface {
	Insert(p Post) Post
	List() []Post
	Get(id uint64) (Post, bool)
	Update(id uint64, mutate func(*Post)) (Post, bool)
	Remove(id uint64) (Post, bool)
	Len() int
}

// Store is the in-memory post collection. Ids come from a monotonic
// counter that is independent of current contents, so deleting every
// post never makes the next id ambiguous and ids are never reused.
// All read-modify-write sequences hold the one lock.
type Store struct {
	mu     sync.RWMutex
	posts  map[uint64]*Post
	order  []uint64
	nextID uint64
}

func NewStore() *Store {
	return &Store{posts: make(map[uint64]*Post)}
}

// Insert assigns the next id and appends the post in insertion order.
func (s *Store) Insert(p Post) Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = s.nextID
	cp := p
	s.posts[p.ID] = &cp
	s.order = append(s.order, p.ID)
	return p
}

// List returns all posts in insertion order.
func (s *Store) List() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Post, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.posts[id])
	}
	return out
}

func (s *Store) Get(id uint64) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return Post{}, false
	}
	return *p, true
}

// Update applies mutate to the matching post in place. The id cannot
// change; mutate runs inside the critical section.
func (s *Store) Update(id uint64, mutate func(*Post)) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return Post{}, false
	}
	mutate(p)
	p.ID = id
	return *p, true
}

// Remove deletes the matching post and returns it.
func (s *Store) Remove(id uint64) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return Post{}, false
	}
	delete(s.posts, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return *p, true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Seed loads the two example posts a fresh process starts with.
func Seed(r Repository) {
	r.Insert(Post{Title: "First post", Content: "This is the first post.", Author: "John Doe", Date: "2023-06-01"})
	r.Insert(Post{Title: "Second post", Content: "This is the second post.", Author: "Jane Doe", Date: "2023-06-02"})
}
