package service

import (
	"errors"

	"github.com/ayberk/groupora/internal/cache"
	"github.com/ayberk/groupora/internal/journal"
	"github.com/ayberk/groupora/internal/models"
	"github.com/ayberk/groupora/internal/repository"
	"github.com/ayberk/groupora/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReactionService resolves a (user, message) pair to its reaction state and
// applies the requested transition:
//
//	none     -> liked:    create row, counter +1
//	none     -> disliked: create row, counter unchanged
//	liked    -> liked:    conflict
//	disliked -> disliked: conflict
//	disliked -> liked:    flip row, counter +1
//	liked    -> disliked: flip row, counter -1
//
// The row write and the counter write share one transaction; the counter is a
// relative store-side update and the flip is conditioned on the previous
// state, so concurrent calls cannot lose an increment or apply a transition
// twice.
type ReactionService struct {
	db           *gorm.DB
	messageRepo  *repository.MessageRepository
	userRepo     *repository.UserRepository
	reactionRepo *repository.ReactionRepository
	counter      *CounterMaintainer
	journal      *journal.Journal
	feed         *cache.FeedCache
}

func NewReactionService(
	db *gorm.DB,
	messageRepo *repository.MessageRepository,
	userRepo *repository.UserRepository,
	reactionRepo *repository.ReactionRepository,
	counter *CounterMaintainer,
	reactionJournal *journal.Journal,
	feed *cache.FeedCache,
) *ReactionService {
	return &ReactionService{
		db:           db,
		messageRepo:  messageRepo,
		userRepo:     userRepo,
		reactionRepo: reactionRepo,
		counter:      counter,
		journal:      reactionJournal,
		feed:         feed,
	}
}

// ApplyReaction applies the actor's desired stance on a message and returns
// the message with its fresh like counter. actorID comes from the identity
// middleware and is negative for an unresolvable bearer, which surfaces as
// the user not existing, same as the reference behavior.
func (s *ReactionService) ApplyReaction(actorID int64, messageID uint, desired models.ReactionState) (*models.Message, error) {
	logger.Log.Debug("Applying reaction",
		zap.Int64("actor_id", actorID),
		zap.Uint("message_id", messageID),
		zap.String("desired", string(desired)),
	)

	// 1. Load message
	message, err := s.messageRepo.GetMessageByID(messageID)
	if err != nil {
		logger.Log.Error("Failed to load message for reaction",
			zap.Uint("message_id", messageID),
			zap.Error(err),
		)
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}

	// 2. Load actor
	if actorID <= 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetUserByID(uint(actorID))
	if err != nil {
		logger.Log.Error("Failed to load user for reaction",
			zap.Int64("actor_id", actorID),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// 3-5. Resolve the current state and persist the transition atomically
	var from models.ReactionState
	var delta int

	err = s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.reactionRepo.Get(tx, user.ID, message.ID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			reaction := &models.Reaction{
				UserID:    user.ID,
				MessageID: message.ID,
				State:     desired,
			}
			if err := s.reactionRepo.Create(tx, reaction); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Lost a race against another first reaction for this pair
					return conflictFor(desired)
				}
				return err
			}
			if desired == models.ReactionLiked {
				delta = 1
			}

		case existing.State == desired:
			return conflictFor(desired)

		default:
			from = existing.State
			flipped, err := s.reactionRepo.UpdateState(tx, user.ID, message.ID, existing.State, desired)
			if err != nil {
				return err
			}
			if !flipped {
				// Row changed under us; the concurrent writer won the transition
				return conflictFor(desired)
			}
			if desired == models.ReactionLiked {
				delta = 1
			} else {
				delta = -1
			}
		}

		return s.counter.Adjust(tx, message, delta)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyLiked) || errors.Is(err, ErrAlreadyDisliked) {
			logger.Log.Warn("Reaction rejected",
				zap.Uint("user_id", user.ID),
				zap.Uint("message_id", message.ID),
				zap.Error(err),
			)
		} else {
			logger.Log.Error("Reaction transaction failed",
				zap.Uint("user_id", user.ID),
				zap.Uint("message_id", message.ID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.recordTransition(user.ID, message.ID, from, desired, delta)

	logger.Log.Info("Reaction applied",
		zap.Uint("user_id", user.ID),
		zap.Uint("message_id", message.ID),
		zap.String("state", string(desired)),
		zap.Int("likes", message.Likes),
	)

	return message, nil
}

// recordTransition appends the applied transition to the reaction journal and
// drops the cached feed. Both are best-effort after commit: failures are
// logged but do not fail the request.
func (s *ReactionService) recordTransition(userID, messageID uint, from, to models.ReactionState, delta int) {
	if s.journal != nil {
		entry := journal.NewEntry(userID, messageID, from, to, delta)
		if err := s.journal.Append(entry); err != nil {
			logger.Log.Error("Failed to journal reaction transition",
				zap.Uint("message_id", messageID),
				zap.Error(err),
			)
		}
	}

	if s.feed != nil {
		if err := s.feed.Invalidate(); err != nil {
			logger.Log.Warn("Failed to invalidate feed cache",
				zap.Error(err),
			)
		}
	}
}

func conflictFor(desired models.ReactionState) error {
	if desired == models.ReactionLiked {
		return ErrAlreadyLiked
	}
	return ErrAlreadyDisliked
}
