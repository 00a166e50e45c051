package commandstructure

// mockCommand is a simple mock implementation of the Command interface for testing
type mockCommand struct {
	name        string
	executeFunc func(string) (string, error)
}

func (m *mockCommand) Name() string {
	return m.name
}

func (m *mockCommand) Execute(state string) (string, error) {
	if m.executeFunc != nil {
		return m.executeFunc(state)
	}
	return state, nil
}

// newMockCommand creates a mock command that appends its name to the state
func newMockCommand(name string) *mockCommand {
	return &mockCommand{
		name: name,
		executeFunc: func(state string) (string, error) {
			return state + "-" + name, nil
		},
	}
}

// newMockCommandWithError creates a mock command that returns an error
func newMockCommandWithError(name string, err error) *mockCommand {
	return &mockCommand{
		name: name,
		executeFunc: func(string) (string, error) {
			return "", err
		},
	}
}
