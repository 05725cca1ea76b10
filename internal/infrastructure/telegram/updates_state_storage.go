package telegram

import (
	"context"
	"errors"

	"github.com/gotd/td/telegram/updates"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpdatesStateStorage persists the updates manager state and the channel
// access hashes learned by the reader account
type UpdatesStateStorage struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewUpdatesStateStorage creates a new PostgreSQL-based state storage
func NewUpdatesStateStorage(db *gorm.DB, logger zerolog.Logger) *UpdatesStateStorage {
	return &UpdatesStateStorage{
		db:     db,
		logger: logger.With().Str("component", "updates_state_storage").Logger(),
	}
}

// GetState retrieves the updates state for a user
func (s *UpdatesStateStorage) GetState(ctx context.Context, userID int64) (updates.State, bool, error) {
	var state UpdatesStateModel

	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return updates.State{}, false, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get state")
		return updates.State{}, false, err
	}

	return updates.State{
		Pts:  state.Pts,
		Qts:  state.Qts,
		Date: state.Date,
		Seq:  state.Seq,
	}, true, nil
}

// SetState saves the complete updates state for a user
func (s *UpdatesStateStorage) SetState(ctx context.Context, userID int64, state updates.State) error {
	return s.upsertState(ctx, UpdatesStateModel{
		UserID: userID,
		Pts:    state.Pts,
		Qts:    state.Qts,
		Date:   state.Date,
		Seq:    state.Seq,
	}, "pts", "qts", "date", "seq")
}

// SetPts updates only the pts value for a user
func (s *UpdatesStateStorage) SetPts(ctx context.Context, userID int64, pts int) error {
	return s.upsertState(ctx, UpdatesStateModel{UserID: userID, Pts: pts}, "pts")
}

// SetQts updates only the qts value for a user
func (s *UpdatesStateStorage) SetQts(ctx context.Context, userID int64, qts int) error {
	return s.upsertState(ctx, UpdatesStateModel{UserID: userID, Qts: qts}, "qts")
}

// SetDate updates only the date value for a user
func (s *UpdatesStateStorage) SetDate(ctx context.Context, userID int64, date int) error {
	return s.upsertState(ctx, UpdatesStateModel{UserID: userID, Date: date}, "date")
}

// SetSeq updates only the seq value for a user
func (s *UpdatesStateStorage) SetSeq(ctx context.Context, userID int64, seq int) error {
	return s.upsertState(ctx, UpdatesStateModel{UserID: userID, Seq: seq}, "seq")
}

// SetDateSeq updates both date and seq values for a user
func (s *UpdatesStateStorage) SetDateSeq(ctx context.Context, userID int64, date, seq int) error {
	return s.upsertState(ctx, UpdatesStateModel{UserID: userID, Date: date, Seq: seq}, "date", "seq")
}

func (s *UpdatesStateStorage) upsertState(ctx context.Context, record UpdatesStateModel, columns ...string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&record).Error
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", record.UserID).Strs("columns", columns).Msg("failed to save state")
	}
	return err
}

// GetChannelPts retrieves the pts value for a specific channel. Rows that only
// carry an access hash are reported as missing.
func (s *UpdatesStateStorage) GetChannelPts(ctx context.Context, userID, channelID int64) (int, bool, error) {
	state, found, err := s.channelState(ctx, userID, channelID)
	if err != nil || !found || state.Pts == 0 {
		return 0, false, err
	}
	return state.Pts, true, nil
}

// SetChannelPts saves the pts value for a specific channel
func (s *UpdatesStateStorage) SetChannelPts(ctx context.Context, userID, channelID int64, pts int) error {
	return s.upsertChannel(ctx, ChannelStateModel{UserID: userID, ChannelID: channelID, Pts: pts}, "pts")
}

// ForEachChannels iterates over all channels with a known pts
func (s *UpdatesStateStorage) ForEachChannels(ctx context.Context, userID int64, f func(ctx context.Context, channelID int64, pts int) error) error {
	var states []ChannelStateModel

	err := s.db.WithContext(ctx).Where("user_id = ? AND pts > 0", userID).Find(&states).Error
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get channels")
		return err
	}

	for _, state := range states {
		if err := f(ctx, state.ChannelID, state.Pts); err != nil {
			return err
		}
	}
	return nil
}

// GetChannelAccessHash returns the access hash stored for a channel
func (s *UpdatesStateStorage) GetChannelAccessHash(ctx context.Context, userID, channelID int64) (int64, bool, error) {
	state, found, err := s.channelState(ctx, userID, channelID)
	if err != nil || !found || state.AccessHash == 0 {
		return 0, false, err
	}
	return state.AccessHash, true, nil
}

// SetChannelAccessHash stores the access hash for a channel
func (s *UpdatesStateStorage) SetChannelAccessHash(ctx context.Context, userID, channelID, accessHash int64) error {
	return s.upsertChannel(ctx, ChannelStateModel{UserID: userID, ChannelID: channelID, AccessHash: accessHash}, "access_hash")
}

func (s *UpdatesStateStorage) channelState(ctx context.Context, userID, channelID int64) (ChannelStateModel, bool, error) {
	var state ChannelStateModel

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND channel_id = ?", userID, channelID).
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ChannelStateModel{}, false, nil
	}
	if err != nil {
		s.logger.Error().Err(err).
			Int64("user_id", userID).
			Int64("channel_id", channelID).
			Msg("failed to get channel state")
		return ChannelStateModel{}, false, err
	}
	return state, true, nil
}

func (s *UpdatesStateStorage) upsertChannel(ctx context.Context, record ChannelStateModel, columns ...string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&record).Error
	if err != nil {
		s.logger.Error().Err(err).
			Int64("user_id", record.UserID).
			Int64("channel_id", record.ChannelID).
			Strs("columns", columns).
			Msg("failed to save channel state")
	}
	return err
}

var (
	_ updates.StateStorage        = (*UpdatesStateStorage)(nil)
	_ updates.ChannelAccessHasher = (*UpdatesStateStorage)(nil)
)
