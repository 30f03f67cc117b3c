package genai

import (
	"testing"

	"github.com/openai/openai-go"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); err == nil {
		t.Error("expected error without an API key")
	}
}

func TestNewClientOptionOverridesEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	client, err := NewClient(WithAPIKey("sk-test"), WithModel(openai.ChatModelGPT4oMini))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.model != openai.ChatModelGPT4oMini {
		t.Errorf("expected configured model, got %s", client.model)
	}
}

func TestNewClientDefaultsModel(t *testing.T) {
	client, err := NewClient(WithAPIKey("sk-test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.model != openai.ChatModelGPT4o {
		t.Errorf("expected gpt-4o default, got %s", client.model)
	}
}
