package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
)

// ErrNotFound is returned when no document is registered under the requested id
var ErrNotFound = errors.New("document not found")

// Memory is an in-memory document store. Documents are registered with PutWorkbook and
// PutDeck and handed out as-is, so tests can inspect them after a use case ran.
type Memory struct {
	mu        sync.Mutex
	workbooks map[string]*Workbook
	decks     map[string]*Deck
}

var _ interfaces.DocumentOpener = &Memory{}

func New() *Memory {
	return &Memory{
		workbooks: make(map[string]*Workbook),
		decks:     make(map[string]*Deck),
	}
}

func (m *Memory) PutWorkbook(id string, wb *Workbook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workbooks[id] = wb
}

func (m *Memory) PutDeck(id string, deck *Deck) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decks[id] = deck
}

func (m *Memory) OpenWorkbook(ctx context.Context, id string) (interfaces.Workbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wb, ok := m.workbooks[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "workbook not found", goerr.V("id", id))
	}
	wb.closed = false
	return wb, nil
}

func (m *Memory) OpenDeck(ctx context.Context, id string) (interfaces.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deck, ok := m.decks[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "deck not found", goerr.V("id", id))
	}
	deck.closed = false
	return deck, nil
}

var errClosed = errors.New("document is closed")
