package telegram

import "time"

// SessionModel represents database model for the MTProto session of the reader account
type SessionModel struct {
	ID          uint      `gorm:"primaryKey"`
	PhoneHash   string    `gorm:"uniqueIndex;not null;size:64"`
	SessionData []byte    `gorm:"type:bytea;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for SessionModel
func (SessionModel) TableName() string {
	return "mtproto_sessions"
}

// UpdatesStateModel represents the common updates state of the reader account
type UpdatesStateModel struct {
	UserID int64 `gorm:"primaryKey;column:user_id;autoIncrement:false"`
	Pts    int   `gorm:"column:pts;default:0"`
	Qts    int   `gorm:"column:qts;default:0"`
	Date   int   `gorm:"column:date;default:0"`
	Seq    int   `gorm:"column:seq;default:0"`
}

// TableName returns the table name for UpdatesStateModel
func (UpdatesStateModel) TableName() string {
	return "telegram_updates_state"
}

// ChannelStateModel holds per channel pts and the access hash learned for it
type ChannelStateModel struct {
	UserID     int64 `gorm:"primaryKey;column:user_id;autoIncrement:false"`
	ChannelID  int64 `gorm:"primaryKey;column:channel_id;autoIncrement:false"`
	Pts        int   `gorm:"column:pts;default:0"`
	AccessHash int64 `gorm:"column:access_hash;default:0"`
}

// TableName returns the table name for ChannelStateModel
func (ChannelStateModel) TableName() string {
	return "telegram_channel_state"
}
