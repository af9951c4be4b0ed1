package llm

import "context"

// MockProvider is a deterministic stub Provider for tests. Responses is an
// ordered queue; each Generate call pops the next one (repeating the last
// entry once exhausted). With no responses configured it returns "".
type MockProvider struct {
	Responses []string
	calls     int
}

func (m *MockProvider) Generate(ctx context.Context, systemPrompt, userPrompt, format string) (string, map[string]string, error) {
	if len(m.Responses) == 0 {
		m.calls++
		return "", nil, nil
	}
	idx := m.calls
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	m.calls++
	return m.Responses[idx], map[string]string{"provider": "mock", "model": "mock"}, nil
}

func (m *MockProvider) ProviderName() string { return "mock" }
func (m *MockProvider) ModelName() string     { return "mock-model" }
