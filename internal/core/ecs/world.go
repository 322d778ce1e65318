package ecs

// World owns the entity pool, the component registry, and a deferred
// destruction queue flushed once per tick by the cleanup system.
//
// Not safe for concurrent use; it belongs to the tick goroutine.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
	pending      map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 32),
		pending:      make(map[EntityID]struct{}),
	}
}

func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

// Alive reports whether id is live and not queued for destruction.
func (w *World) Alive(id EntityID) bool {
	if _, queued := w.pending[id]; queued {
		return false
	}
	return w.pool.Alive(id)
}

// MarkForDestruction queues id for end-of-tick cleanup. It returns false
// when id is already dead or already queued.
func (w *World) MarkForDestruction(id EntityID) bool {
	if !w.Alive(id) {
		return false
	}
	w.pending[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
	return true
}

// FlushDestroyQueue destroys queued entities and clears their components.
// It returns the IDs that were destroyed.
func (w *World) FlushDestroyQueue() []EntityID {
	if len(w.destroyQueue) == 0 {
		return nil
	}
	flushed := make([]EntityID, 0, len(w.destroyQueue))
	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		if w.pool.Destroy(id) {
			flushed = append(flushed, id)
		}
		delete(w.pending, id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	return flushed
}

// Len returns the number of live entities, including queued ones.
func (w *World) Len() int { return w.pool.Len() }
