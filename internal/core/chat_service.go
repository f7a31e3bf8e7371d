package core

import (
	"context"
	"log"
)

// ChatService ties sessions, retrieval and response generation together for
// the API layer.
type ChatService struct {
	pipeline  *RetrievalPipeline
	sessions  *SessionManager
	responder Responder
}

func NewChatService(pipeline *RetrievalPipeline, sessions *SessionManager, responder Responder) *ChatService {
	return &ChatService{
		pipeline:  pipeline,
		sessions:  sessions,
		responder: responder,
	}
}

// ChatReply is the answer to one chat query plus the retrieval evidence it
// was grounded on.
type ChatReply struct {
	SessionID string          `json:"session_id"`
	Answer    string          `json:"answer"`
	Retrieval RetrievalResult `json:"retrieval"`
}

// HandleQuery runs retrieval for the session, generates an answer and
// records both sides of the exchange in the session memory. Generation
// failure degrades to a canned reply; the retrieval evidence is returned
// either way.
func (s *ChatService) HandleQuery(ctx context.Context, sessionID, query string, opts RetrieveOptions) ChatReply {
	memory := s.sessions.Get(sessionID)

	retrieval := s.pipeline.Retrieve(query, memory, opts)

	answer, err := s.responder.Respond(ctx, retrieval.Prompt, &retrieval)
	if err != nil {
		log.Printf("Error generating response for session %s: %v", sessionID, err)
		answer = "I'm sorry, I encountered an error while processing your request."
	}

	memory.Append("user", query)
	memory.Append("assistant", answer)

	return ChatReply{
		SessionID: sessionID,
		Answer:    answer,
		Retrieval: retrieval,
	}
}

// NewSession creates a fresh conversation and returns its ID.
func (s *ChatService) NewSession() string {
	return s.sessions.Create()
}

// ResetSession drops a session's history. Returns false when the session is
// unknown.
func (s *ChatService) ResetSession(sessionID string) bool {
	return s.sessions.Remove(sessionID)
}
