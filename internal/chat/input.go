package chat

import "sync"

// Input is the text field a submission is read from
type Input interface {
	Value() string
	SetValue(s string)
	Focus()
}

// BufferInput is an in-memory Input, used when there is no interactive field
type BufferInput struct {
	mu    sync.Mutex
	value string
	focus int
}

// NewBufferInput creates an input holding value
func NewBufferInput(value string) *BufferInput {
	return &BufferInput{value: value}
}

func (b *BufferInput) Value() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

func (b *BufferInput) SetValue(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value = s
}

func (b *BufferInput) Focus() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focus++
}

// Focused reports how many times Focus was called
func (b *BufferInput) Focused() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.focus
}
