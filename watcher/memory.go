package watcher

// SlotMemory is the default in-process Memory: a single value, empty at
// startup, overwritten per observed message, never cleared. It is only ever
// touched by the watcher goroutine.
type SlotMemory struct {
	id string
}

func NewSlotMemory() *SlotMemory {
	return &SlotMemory{}
}

func (m *SlotMemory) Last() (string, error) {
	return m.id, nil
}

func (m *SlotMemory) Mark(id string) error {
	m.id = id
	return nil
}
