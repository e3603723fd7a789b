package service

import (
	"errors"
	"sync"
)

var (
	ErrNotFound        = errors.New("记录不存在")
	ErrDuplicateID     = errors.New("ID 已存在")
	ErrConfirmRequired = errors.New("删除操作需要确认")
)

// workingCopy 编辑器的内存工作副本
// 首次访问时整份读取，之后的增删改只作用于内存，Save 时整份写回
type workingCopy[T any] struct {
	mu     sync.Mutex
	items  []T
	loaded bool

	idOf func(T) string
	load func() []T
	save func([]T) error
}

func newWorkingCopy[T any](idOf func(T) string, load func() []T, save func([]T) error) *workingCopy[T] {
	return &workingCopy[T]{idOf: idOf, load: load, save: save}
}

// ensure 调用方需持有锁
func (w *workingCopy[T]) ensure() {
	if !w.loaded {
		w.items = w.load()
		w.loaded = true
	}
}

func (w *workingCopy[T]) reload() []T {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = w.load()
	w.loaded = true
	return w.snapshotLocked()
}

func (w *workingCopy[T]) snapshot() []T {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ensure()
	return w.snapshotLocked()
}

func (w *workingCopy[T]) snapshotLocked() []T {
	out := make([]T, len(w.items))
	copy(out, w.items)
	return out
}

func (w *workingCopy[T]) indexLocked(id string) int {
	for i, it := range w.items {
		if w.idOf(it) == id {
			return i
		}
	}
	return -1
}

func (w *workingCopy[T]) get(id string) (T, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ensure()
	var zero T
	idx := w.indexLocked(id)
	if idx == -1 {
		return zero, ErrNotFound
	}
	return w.items[idx], nil
}

func (w *workingCopy[T]) has(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ensure()
	return w.indexLocked(id) != -1
}

func (w *workingCopy[T]) add(item T) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ensure()
	if w.indexLocked(w.idOf(item)) != -1 {
		return ErrDuplicateID
	}
	w.items = append(w.items, item)
	return nil
}

// update 原位修改，保持列表顺序
func (w *workingCopy[T]) update(id string, fn func(*T)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ensure()
	idx := w.indexLocked(id)
	if idx == -1 {
		return ErrNotFound
	}
	fn(&w.items[idx])
	return nil
}

func (w *workingCopy[T]) remove(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ensure()
	idx := w.indexLocked(id)
	if idx == -1 {
		return ErrNotFound
	}
	w.items = append(w.items[:idx], w.items[idx+1:]...)
	return nil
}

func (w *workingCopy[T]) persist() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ensure()
	return w.save(w.snapshotLocked())
}
