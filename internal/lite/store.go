package lite

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/closetly/closetly-backend/internal/analysis"
	"github.com/closetly/closetly-backend/internal/filestore"
)

// ErrEmailTaken signals a signup attempt for an email that already has an
// account.
var ErrEmailTaken = errors.New("email already registered")

const (
	historyTypeUpload  = "upload"
	historyTypeAnalyze = "analyze"
)

// User is the file-backed account record.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HistoryEntry records one upload or analyze call. Upload entries keep both
// the stored filename and the name the client sent.
type HistoryEntry struct {
	Type         string           `json:"type"`
	ImageURL     string           `json:"imageUrl"`
	Filename     string           `json:"filename,omitempty"`
	OriginalName string           `json:"originalName,omitempty"`
	Analysis     *analysis.Result `json:"analysis,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
}

// UserStore keeps accounts in a single JSON document.
type UserStore struct {
	docs *filestore.Store[[]User]
}

func NewUserStore(path string) (*UserStore, error) {
	docs, err := filestore.New[[]User](path)
	if err != nil {
		return nil, fmt.Errorf("opening user store: %w", err)
	}
	return &UserStore{docs: docs}, nil
}

// Create appends the user unless the email is already registered.
func (s *UserStore) Create(user User) error {
	_, err := s.docs.Update(func(users []User) ([]User, error) {
		for _, existing := range users {
			if strings.EqualFold(existing.Email, user.Email) {
				return users, ErrEmailTaken
			}
		}
		return append(users, user), nil
	})
	return err
}

// FindByEmail matches case-insensitively.
func (s *UserStore) FindByEmail(email string) (*User, bool, error) {
	users, err := s.docs.Load()
	if err != nil {
		return nil, false, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			user := users[i]
			return &user, true, nil
		}
	}
	return nil, false, nil
}

// HistoryStore keeps the upload/analyze log in a single JSON document.
type HistoryStore struct {
	docs *filestore.Store[[]HistoryEntry]
}

func NewHistoryStore(path string) (*HistoryStore, error) {
	docs, err := filestore.New[[]HistoryEntry](path)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return &HistoryStore{docs: docs}, nil
}

func (s *HistoryStore) Append(entry HistoryEntry) error {
	_, err := s.docs.Update(func(entries []HistoryEntry) ([]HistoryEntry, error) {
		return append(entries, entry), nil
	})
	return err
}

// Analyses returns the analyze entries newest first.
func (s *HistoryStore) Analyses() ([]HistoryEntry, error) {
	entries, err := s.docs.Load()
	if err != nil {
		return nil, err
	}
	analyses := make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Type == historyTypeAnalyze {
			analyses = append(analyses, entry)
		}
	}
	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].Timestamp.After(analyses[j].Timestamp)
	})
	return analyses, nil
}
