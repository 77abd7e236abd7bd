package api

import (
	"context"
	"errors"
	"testing"
)

func TestMockClient_Answer(t *testing.T) {
	m := &MockClient{AnswerVal: "hello"}

	got, err := m.Answer(context.Background(), "id-1", "question")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("Answer() = %q, want %q", got, "hello")
	}
	if m.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", m.Calls())
	}
	if m.LastQuestion != "question" || m.LastRequestID != "id-1" {
		t.Errorf("recorded (%q, %q), want (question, id-1)", m.LastQuestion, m.LastRequestID)
	}
}

func TestMockClient_AnswerFunc(t *testing.T) {
	wantErr := errors.New("boom")
	m := &MockClient{
		AnswerVal: "ignored",
		AnswerFunc: func(ctx context.Context, requestID, question string) (string, error) {
			return "", wantErr
		},
	}

	if _, err := m.Answer(context.Background(), "", "q"); !errors.Is(err, wantErr) {
		t.Errorf("Answer() error = %v, want %v", err, wantErr)
	}
}

func TestMockClient_EndpointAndClose(t *testing.T) {
	m := &MockClient{}
	if m.Endpoint() != DefaultEndpoint {
		t.Errorf("Endpoint() = %q, want default", m.Endpoint())
	}

	m.EndpointVal = "http://example.test"
	if m.Endpoint() != "http://example.test" {
		t.Errorf("Endpoint() = %q", m.Endpoint())
	}

	m.Close()
	if !m.CloseCalled {
		t.Error("Close should be recorded")
	}
}
