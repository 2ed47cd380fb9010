package services

import (
	"context"
	"sort"

	"chat-threads/internal/domain/message"
	"chat-threads/internal/domain/thread"
	"chat-threads/internal/repository"
)

// memDB is an in-memory stand-in for the threads and messages tables.
type memDB struct {
	nextThreadID int64
	threads      map[int64]thread.Thread
	messages     map[int64]message.Message

	failThreadDelete error
	failQueries      error
	updateCalls      int

	// afterList runs once ListByCreator has read its rows.
	afterList func()
}

func newMemDB() *memDB {
	return &memDB{
		nextThreadID: 1,
		threads:      map[int64]thread.Thread{},
		messages:     map[int64]message.Message{},
	}
}

func (db *memDB) addMessage(m message.Message) {
	db.messages[m.ID] = m
}

func (db *memDB) messagesOf(threadID int64) []message.Message {
	var out []message.Message
	for _, m := range db.messages {
		if m.ThreadID == threadID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memStore struct {
	db   *memDB
	inTx bool
}

func (s *memStore) Threads() repository.ThreadRepository   { return memThreads{s.db} }
func (s *memStore) Messages() repository.MessageRepository { return memMessages{s.db} }

// WithTx restores both tables when fn fails.
func (s *memStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	threads := make(map[int64]thread.Thread, len(s.db.threads))
	for k, v := range s.db.threads {
		threads[k] = v
	}
	messages := make(map[int64]message.Message, len(s.db.messages))
	for k, v := range s.db.messages {
		messages[k] = v
	}
	if err := fn(&memStore{db: s.db, inTx: true}); err != nil {
		s.db.threads = threads
		s.db.messages = messages
		return err
	}
	return nil
}

type memThreads struct{ db *memDB }

func (r memThreads) Create(ctx context.Context, t *thread.Thread) error {
	if r.db.failQueries != nil {
		return r.db.failQueries
	}
	t.ID = r.db.nextThreadID
	r.db.nextThreadID++
	r.db.threads[t.ID] = *t
	return nil
}

func (r memThreads) IsOwnedBy(ctx context.Context, threadID, userID int64) (bool, error) {
	if r.db.failQueries != nil {
		return false, r.db.failQueries
	}
	t, ok := r.db.threads[threadID]
	return ok && t.CreatorID == userID, nil
}

func (r memThreads) ListByCreator(ctx context.Context, userID int64) ([]thread.Thread, error) {
	if r.db.failQueries != nil {
		return nil, r.db.failQueries
	}
	out := []thread.Thread{}
	for _, t := range r.db.threads {
		if t.CreatorID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateCreated.Equal(out[j].DateCreated) {
			return out[i].ID < out[j].ID
		}
		return out[i].DateCreated.Before(out[j].DateCreated)
	})
	if hook := r.db.afterList; hook != nil {
		r.db.afterList = nil
		hook()
	}
	return out, nil
}

func (r memThreads) Update(ctx context.Context, threadID int64, upd thread.Update) error {
	r.db.updateCalls++
	t, ok := r.db.threads[threadID]
	if !ok {
		return nil
	}
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Prompt != nil {
		p := *upd.Prompt
		t.Prompt = &p
	}
	if upd.PromptID != nil {
		id := *upd.PromptID
		t.PromptID = &id
	}
	r.db.threads[threadID] = t
	return nil
}

func (r memThreads) Delete(ctx context.Context, threadID int64) error {
	if r.db.failThreadDelete != nil {
		return r.db.failThreadDelete
	}
	delete(r.db.threads, threadID)
	return nil
}

type memMessages struct{ db *memDB }

func (r memMessages) ListByThread(ctx context.Context, threadID int64) ([]message.Message, error) {
	out := r.db.messagesOf(threadID)
	if out == nil {
		out = []message.Message{}
	}
	return out, nil
}

func (r memMessages) DeleteByThread(ctx context.Context, threadID int64) (int64, error) {
	var n int64
	for id, m := range r.db.messages {
		if m.ThreadID == threadID {
			delete(r.db.messages, id)
			n++
		}
	}
	return n, nil
}

type cacheKey struct{ userID, version int64 }

// fakeCache keeps versioned lists in memory. failInvalidate is called with the
// 1-based number of each InvalidateThreadList call.
type fakeCache struct {
	versions       map[int64]int64
	lists          map[cacheKey][]thread.Thread
	invalidations  int
	getErr         error
	versionErr     error
	failInvalidate func(call int) error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		versions: map[int64]int64{},
		lists:    map[cacheKey][]thread.Thread{},
	}
}

func (c *fakeCache) ListVersion(ctx context.Context, userID int64) (int64, error) {
	if c.versionErr != nil {
		return 0, c.versionErr
	}
	return c.versions[userID], nil
}

func (c *fakeCache) GetThreadList(ctx context.Context, userID, version int64) ([]thread.Thread, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	l, ok := c.lists[cacheKey{userID, version}]
	return l, ok, nil
}

func (c *fakeCache) SetThreadList(ctx context.Context, userID, version int64, threads []thread.Thread) error {
	c.lists[cacheKey{userID, version}] = threads
	return nil
}

func (c *fakeCache) InvalidateThreadList(ctx context.Context, userID int64) error {
	c.invalidations++
	if c.failInvalidate != nil {
		if err := c.failInvalidate(c.invalidations); err != nil {
			return err
		}
	}
	c.versions[userID]++
	return nil
}

// cached reports whether a list is stored for the user's current version.
func (c *fakeCache) cached(userID int64) bool {
	_, ok := c.lists[cacheKey{userID, c.versions[userID]}]
	return ok
}
