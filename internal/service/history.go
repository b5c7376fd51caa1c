package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/deck"
	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	exportVersion = "1.0"

	// defaultListLimit bounds the recent-history listings.
	defaultListLimit = 50

	// searchScanLimit bounds how many records a substring search walks.
	searchScanLimit = 200
)

// HistoryService serves the saved readings and conversations: listing,
// search, statistics, export/import and retention cleanup.
type HistoryService struct {
	store    domain.Store
	settings *Settings
}

// NewHistoryService creates a new history service.
func NewHistoryService(store domain.Store, settings *Settings) *HistoryService {
	return &HistoryService{store: store, settings: settings}
}

// RecentSessions lists saved game sessions, newest first. While history
// saving is disabled the listing is empty, even for records saved
// earlier.
func (s *HistoryService) RecentSessions(ctx context.Context, limit int) ([]domain.GameSession, error) {
	if !s.settings.SaveHistory() {
		return []domain.GameSession{}, nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.store.GameSessions().ListRecent(ctx, limit)
}

// RecentConversations lists conversations by last activity, empty while
// history saving is disabled.
func (s *HistoryService) RecentConversations(ctx context.Context, limit int) ([]domain.Conversation, error) {
	if !s.settings.SaveHistory() {
		return []domain.Conversation{}, nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.store.Conversations().ListRecent(ctx, limit)
}

// Session returns one saved game session.
func (s *HistoryService) Session(ctx context.Context, id uuid.UUID) (*domain.GameSession, error) {
	return s.store.GameSessions().Get(ctx, id)
}

// SessionConversations lists the conversations linked to a game session.
func (s *HistoryService) SessionConversations(ctx context.Context, sessionID uuid.UUID) ([]domain.Conversation, error) {
	return s.store.Conversations().ListBySession(ctx, sessionID)
}

// ConversationMessages returns a conversation's messages in order.
func (s *HistoryService) ConversationMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	if _, err := s.store.Conversations().Get(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.store.Messages().ListByConversation(ctx, conversationID)
}

// DeleteSession cascade-deletes a saved session.
func (s *HistoryService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteGameSession(ctx, id)
}

// DeleteConversation cascade-deletes a conversation.
func (s *HistoryService) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteConversation(ctx, id)
}

// ClearAll wipes the whole history.
func (s *HistoryService) ClearAll(ctx context.Context) error {
	return s.store.ClearAll(ctx)
}

// SearchResults groups the matches of one history search.
type SearchResults struct {
	Sessions      []domain.GameSession  `json:"sessions"`
	Conversations []domain.Conversation `json:"conversations"`
}

// Search finds saved sessions and conversations containing the query.
// Sessions match on question, reading text, spread name and drawn card
// names; conversations match on title and last message. Matching is
// case-insensitive.
func (s *HistoryService) Search(ctx context.Context, query string) (*SearchResults, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	results := &SearchResults{
		Sessions:      []domain.GameSession{},
		Conversations: []domain.Conversation{},
	}
	if q == "" {
		return results, nil
	}

	sessions, err := s.store.GameSessions().ListRecent(ctx, searchScanLimit)
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		if sessionMatches(sess, q) {
			results.Sessions = append(results.Sessions, sess)
		}
	}

	conversations, err := s.store.Conversations().ListRecent(ctx, searchScanLimit)
	if err != nil {
		return nil, err
	}
	for _, conv := range conversations {
		if strings.Contains(strings.ToLower(conv.Title), q) ||
			strings.Contains(strings.ToLower(conv.LastMessage), q) {
			results.Conversations = append(results.Conversations, conv)
		}
	}
	return results, nil
}

func sessionMatches(sess domain.GameSession, q string) bool {
	if strings.Contains(strings.ToLower(sess.Question), q) ||
		strings.Contains(strings.ToLower(sess.Reading), q) {
		return true
	}
	if spread, ok := deck.SpreadByID(sess.SpreadID); ok {
		if strings.Contains(strings.ToLower(spread.Name), q) {
			return true
		}
	}
	for _, dc := range sess.DrawnCards {
		if strings.Contains(strings.ToLower(dc.Card.Name), q) {
			return true
		}
	}
	return false
}

// CardCount is one entry of the most-drawn leaderboard.
type CardCount struct {
	CardID string `json:"card_id"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}

// Statistics summarizes the saved history.
type Statistics struct {
	TotalSessions      int            `json:"total_sessions"`
	TotalConversations int            `json:"total_conversations"`
	CompletedReadings  int            `json:"completed_readings"`
	SpreadCounts       map[string]int `json:"spread_counts"`
	MostDrawnCards     []CardCount    `json:"most_drawn_cards"`
}

// Statistics computes usage statistics over the saved history.
func (s *HistoryService) Statistics(ctx context.Context) (*Statistics, error) {
	sessions, err := s.store.GameSessions().ListRecent(ctx, searchScanLimit)
	if err != nil {
		return nil, err
	}
	conversations, err := s.store.Conversations().ListRecent(ctx, searchScanLimit)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalSessions:      len(sessions),
		TotalConversations: len(conversations),
		SpreadCounts:       make(map[string]int),
	}

	cardCounts := make(map[string]int)
	cardNames := make(map[string]string)
	for _, sess := range sessions {
		stats.SpreadCounts[sess.SpreadID]++
		if sess.Reading != "" {
			stats.CompletedReadings++
		}
		for _, dc := range sess.DrawnCards {
			cardCounts[dc.Card.ID]++
			cardNames[dc.Card.ID] = dc.Card.Name
		}
	}

	for id, count := range cardCounts {
		stats.MostDrawnCards = append(stats.MostDrawnCards, CardCount{
			CardID: id,
			Name:   cardNames[id],
			Count:  count,
		})
	}
	sort.Slice(stats.MostDrawnCards, func(i, j int) bool {
		if stats.MostDrawnCards[i].Count != stats.MostDrawnCards[j].Count {
			return stats.MostDrawnCards[i].Count > stats.MostDrawnCards[j].Count
		}
		return stats.MostDrawnCards[i].CardID < stats.MostDrawnCards[j].CardID
	})
	if len(stats.MostDrawnCards) > 5 {
		stats.MostDrawnCards = stats.MostDrawnCards[:5]
	}
	return stats, nil
}

// ConversationExport is a conversation with its messages inlined.
type ConversationExport struct {
	domain.Conversation
	Messages []domain.Message `json:"messages"`
}

// ExportData is the full history in a portable envelope.
type ExportData struct {
	Version       string               `json:"version"`
	ExportDate    time.Time            `json:"exportDate"`
	GameSessions  []domain.GameSession `json:"gameSessions"`
	Conversations []ConversationExport `json:"conversations"`
}

// Export collects the entire saved history.
func (s *HistoryService) Export(ctx context.Context) (*ExportData, error) {
	sessions, err := s.store.GameSessions().ListRecent(ctx, searchScanLimit)
	if err != nil {
		return nil, err
	}
	conversations, err := s.store.Conversations().ListRecent(ctx, searchScanLimit)
	if err != nil {
		return nil, err
	}

	if sessions == nil {
		sessions = []domain.GameSession{}
	}
	data := &ExportData{
		Version:       exportVersion,
		ExportDate:    time.Now(),
		GameSessions:  sessions,
		Conversations: make([]ConversationExport, 0, len(conversations)),
	}
	for _, conv := range conversations {
		messages, err := s.store.Messages().ListByConversation(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		data.Conversations = append(data.Conversations, ConversationExport{
			Conversation: conv,
			Messages:     messages,
		})
	}
	return data, nil
}

// ImportStats reports what an import added.
type ImportStats struct {
	Sessions      int `json:"sessions"`
	Conversations int `json:"conversations"`
	Messages      int `json:"messages"`
}

// Import merges a previously exported history into the store. Every
// record gets a fresh id so imports never collide with existing rows;
// session links inside conversations are remapped accordingly.
func (s *HistoryService) Import(ctx context.Context, data *ExportData) (*ImportStats, error) {
	if data == nil {
		return nil, fmt.Errorf("import payload is empty")
	}
	if data.Version == "" {
		return nil, fmt.Errorf("import payload has no version")
	}
	if data.GameSessions == nil || data.Conversations == nil {
		return nil, fmt.Errorf("import payload must carry both gameSessions and conversations")
	}

	stats := &ImportStats{}
	sessionIDMap := make(map[uuid.UUID]uuid.UUID, len(data.GameSessions))

	for _, sess := range data.GameSessions {
		newID := uuid.New()
		sessionIDMap[sess.ID] = newID
		sess.ID = newID
		if err := s.store.GameSessions().Create(ctx, &sess); err != nil {
			return nil, fmt.Errorf("failed to import session: %w", err)
		}
		stats.Sessions++
	}

	for _, conv := range data.Conversations {
		newConvID := uuid.New()
		record := conv.Conversation
		record.ID = newConvID
		if record.SessionID != nil {
			if mapped, ok := sessionIDMap[*record.SessionID]; ok {
				record.SessionID = &mapped
			} else {
				// Linked session was not part of the export; keep the
				// conversation but detach it.
				record.SessionID = nil
			}
		}
		if err := s.store.Conversations().Create(ctx, &record); err != nil {
			return nil, fmt.Errorf("failed to import conversation: %w", err)
		}
		stats.Conversations++

		for _, msg := range conv.Messages {
			msg.ID = uuid.New()
			msg.ConversationID = newConvID
			if err := s.store.Messages().Create(ctx, &msg); err != nil {
				return nil, fmt.Errorf("failed to import message: %w", err)
			}
			stats.Messages++
		}
	}
	return stats, nil
}

// Cleanup removes history past the retention window when auto deletion
// is enabled. Safe to call on every startup.
func (s *HistoryService) Cleanup(ctx context.Context) (sessions, conversations int, err error) {
	if !s.settings.AutoDeleteOldSessions() {
		return 0, 0, nil
	}
	days := s.settings.SessionRetentionDays()
	if days <= 0 {
		return 0, 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	sessions, conversations, err = s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, 0, err
	}
	if sessions > 0 || conversations > 0 {
		log.Info().
			Int("sessions", sessions).
			Int("conversations", conversations).
			Time("cutoff", cutoff).
			Msg("removed expired history")
	}
	return sessions, conversations, nil
}
