package journal

// Memory keeps the encoded document in memory. Saves go through Encode so a
// Load returns an independent copy, the same as the disk stores.
type Memory struct {
	body  []byte
	Saves int
}

func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith returns a store that already holds body, valid or not.
func NewMemoryWith(body []byte) *Memory {
	return &Memory{body: append([]byte(nil), body...)}
}

func (m *Memory) Load() (State, error) {
	if m.body == nil {
		return State{}, ErrNotFound
	}
	return Decode(m.body)
}

func (m *Memory) Save(s State) error {
	body, err := Encode(s)
	if err != nil {
		return err
	}
	m.body = body
	m.Saves++
	return nil
}

// Body returns the last saved document.
func (m *Memory) Body() []byte {
	return append([]byte(nil), m.body...)
}
