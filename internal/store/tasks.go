package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"todopro/internal/model"
)

// DefaultPartition holds tasks created while unauthenticated.
const DefaultPartition = "default"

// TaskStore keeps tasks partitioned by user id. Each partition is one
// value holding the full task slice; switching users never exposes
// another partition's tasks.
type TaskStore struct {
	mu sync.Mutex
	db *DB
}

// NewTaskStore creates a task store over db.
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

func taskKey(partition string) string {
	if partition == "" {
		partition = DefaultPartition
	}
	return "tasks/" + partition
}

// List returns all tasks in the partition, in insertion order. An
// absent partition is an empty list, not an error.
func (s *TaskStore) List(partition string) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(partition)
}

// Add appends a task to the partition.
func (s *TaskStore) Add(partition string, task model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.read(partition)
	if err != nil {
		return err
	}
	tasks = append(tasks, task)
	return s.write(partition, tasks)
}

// Update applies mutate to the task with the given id and persists the
// partition. Returns ErrNotFound when the id is absent. Mutate must not
// change the task's id or creation time.
func (s *TaskStore) Update(partition, id string, mutate func(*model.Task)) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.read(partition)
	if err != nil {
		return model.Task{}, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			keepID, keepCreated := tasks[i].ID, tasks[i].CreatedAt
			mutate(&tasks[i])
			tasks[i].ID = keepID
			tasks[i].CreatedAt = keepCreated
			if err := s.write(partition, tasks); err != nil {
				return model.Task{}, err
			}
			return tasks[i], nil
		}
	}
	return model.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
}

// Delete removes the task with the given id. Removing an absent id is a
// no-op: deletion is permanent and idempotent.
func (s *TaskStore) Delete(partition, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.read(partition)
	if err != nil {
		return err
	}
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return nil
	}
	return s.write(partition, kept)
}

func (s *TaskStore) read(partition string) ([]model.Task, error) {
	data, err := s.db.get(taskKey(partition))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode task partition %s: %w", partition, err)
	}
	for i := range tasks {
		tasks[i].Origin = model.OriginLocal
	}
	return tasks, nil
}

func (s *TaskStore) write(partition string, tasks []model.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode task partition %s: %w", partition, err)
	}
	return s.db.set(taskKey(partition), data)
}
