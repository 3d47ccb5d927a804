package catalog

import (
	"github.com/meowafisha/meowafisha/pkg/event"
)

type StubLoader struct {
	Events []event.Event
	Err    error
}

func (s *StubLoader) Load() ([]event.Event, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]event.Event, len(s.Events))
	copy(out, s.Events)
	return out, nil
}
