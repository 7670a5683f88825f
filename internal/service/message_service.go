package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ayberk/groupora/internal/cache"
	"github.com/ayberk/groupora/internal/models"
	"github.com/ayberk/groupora/internal/repository"
	"github.com/ayberk/groupora/pkg/logger"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	TitleMinLength   = 2  // title must be longer than this
	ContentMinLength = 4  // content must be longer than this
	ItemsLimit       = 50 // hard cap on listing size
)

// listableColumns is the allow-list for field projection and ordering.
var listableColumns = map[string]bool{
	"id":         true,
	"user_id":    true,
	"title":      true,
	"content":    true,
	"attachment": true,
	"likes":      true,
	"created_at": true,
	"updated_at": true,
}

// ListOptions carries the raw listing parameters from the query string.
// Limit < 0 means the caller did not send one.
type ListOptions struct {
	Fields string
	Limit  int
	Offset int
	Order  string
}

func (o ListOptions) isDefault() bool {
	return o.Fields == "" && o.Limit < 0 && o.Offset == 0 && o.Order == ""
}

type MessageService struct {
	messageRepo *repository.MessageRepository
	userRepo    *repository.UserRepository
	feed        *cache.FeedCache
	sanitizer   *bluemonday.Policy
}

func NewMessageService(
	messageRepo *repository.MessageRepository,
	userRepo *repository.UserRepository,
	feed *cache.FeedCache,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		feed:        feed,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// CreateMessage validates and persists a new message for ownerID, with the
// like counter starting at zero.
func (s *MessageService) CreateMessage(ownerID int64, title, content, attachment string) (*models.Message, error) {
	title = s.sanitizer.Sanitize(strings.TrimSpace(title))
	content = s.sanitizer.Sanitize(strings.TrimSpace(content))

	if utf8.RuneCountInString(title) <= TitleMinLength || utf8.RuneCountInString(content) <= ContentMinLength {
		return nil, fmt.Errorf("%w: title must be longer than %d and content longer than %d characters",
			ErrValidation, TitleMinLength, ContentMinLength)
	}

	if ownerID <= 0 {
		return nil, ErrUserNotFound
	}
	owner, err := s.userRepo.GetUserByID(uint(ownerID))
	if err != nil {
		logger.Log.Error("Failed to verify message owner",
			zap.Int64("owner_id", ownerID),
			zap.Error(err),
		)
		return nil, err
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}

	message := &models.Message{
		UserID:     owner.ID,
		Title:      title,
		Content:    content,
		Attachment: attachment,
		Likes:      0,
		User:       *owner,
	}

	if err := s.messageRepo.CreateMessage(message); err != nil {
		logger.Log.Error("Failed to create message",
			zap.Uint("owner_id", owner.ID),
			zap.Error(err),
		)
		return nil, err
	}

	if s.feed != nil {
		if err := s.feed.Invalidate(); err != nil {
			logger.Log.Warn("Failed to invalidate feed cache",
				zap.Error(err),
			)
		}
	}

	logger.Log.Info("Message created",
		zap.Uint("message_id", message.ID),
		zap.Uint("owner_id", owner.ID),
	)

	return message, nil
}

// ListMessages returns messages with their owners joined. No matching rows is
// an empty slice, not an error; only malformed fields/order specifications
// produce one. The unparameterized listing is served through the feed cache.
func (s *MessageService) ListMessages(opts ListOptions) ([]models.Message, error) {
	useCache := s.feed != nil && opts.isDefault()
	if useCache {
		if messages, ok := s.feed.GetFeed(); ok {
			return messages, nil
		}
	}

	query, err := s.buildListQuery(opts)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.List(query)
	if err != nil {
		logger.Log.Error("Failed to list messages",
			zap.Error(err),
		)
		return nil, err
	}

	if useCache {
		if err := s.feed.SetFeed(messages); err != nil {
			logger.Log.Warn("Failed to cache feed",
				zap.Error(err),
			)
		}
	}

	return messages, nil
}

func (s *MessageService) buildListQuery(opts ListOptions) (repository.ListQuery, error) {
	query := repository.ListQuery{
		Limit:      opts.Limit,
		Offset:     opts.Offset,
		OrderField: "title",
	}

	if opts.Limit > ItemsLimit {
		query.Limit = ItemsLimit
	}

	if opts.Fields != "" && opts.Fields != "*" {
		fields := []string{"id", "user_id"} // needed for the owner join
		seen := map[string]bool{"id": true, "user_id": true}
		for _, field := range strings.Split(opts.Fields, ",") {
			field = strings.TrimSpace(field)
			if !listableColumns[field] {
				return repository.ListQuery{}, ErrInvalidListOptions
			}
			if !seen[field] {
				fields = append(fields, field)
				seen[field] = true
			}
		}
		query.Fields = fields
	}

	if opts.Order != "" {
		parts := strings.SplitN(opts.Order, ":", 2)
		field := strings.TrimSpace(parts[0])
		if !listableColumns[field] {
			return repository.ListQuery{}, ErrInvalidListOptions
		}
		query.OrderField = field
		if len(parts) == 2 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "", "asc":
			case "desc":
				query.OrderDesc = true
			default:
				return repository.ListQuery{}, ErrInvalidListOptions
			}
		}
	}

	return query, nil
}
