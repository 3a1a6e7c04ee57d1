package store

import (
	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
)

func (s *store) Requests() []domain.IssueRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.IssueRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *store) RequestState() CollectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requestState
}

func (s *store) BeginRequestsLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestState = CollectionState{Status: StatusLoading}
}

func (s *store) LoadRequests(requests []domain.IssueRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = requests
	s.requestState = CollectionState{Status: StatusSucceeded}
	s.requestVersion++
}

func (s *store) FailRequestsLoad(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestState = CollectionState{Status: StatusFailed, LastError: raw}
}

func (s *store) AddRequest(r domain.IssueRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, r)
	s.requestVersion++
}

func (s *store) ReplaceRequest(r domain.IssueRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.requests {
		if s.requests[i].ID == r.ID {
			s.requests[i] = r
			s.requestVersion++
			return nil
		}
	}
	return constants.ErrNotFound
}

func (s *store) RemoveRequest(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.requests {
		if s.requests[i].ID == id {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			s.requestVersion++
			return nil
		}
	}
	return constants.ErrNotFound
}
