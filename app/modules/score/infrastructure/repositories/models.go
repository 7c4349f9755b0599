package scoredb

import (
	"time"

	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/uptrace/bun"
)

// Player is a registered member of a guild's competition.
type Player struct {
	bun.BaseModel    `bun:"table:players,alias:p"`
	GuildID          sharedtypes.GuildID `bun:"guild_id,pk,notnull,type:varchar(20)"`
	UserID           sharedtypes.UserID  `bun:"user_id,pk,notnull,type:varchar(20)"`
	DisplayName      string              `bun:"display_name,notnull,default:''"`
	Points           int                 `bun:"points,notnull,default:0"`
	Wins             int                 `bun:"wins,notnull,default:0"`
	Losses           int                 `bun:"losses,notnull,default:0"`
	Draws            int                 `bun:"draws,notnull,default:0"`
	Kills            int                 `bun:"kills,notnull,default:0"`
	Deaths           int                 `bun:"deaths,notnull,default:0"`
	RegistrationDate time.Time           `bun:"registration_date,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Rank maps a role to a points threshold and optional modifiers.
type Rank struct {
	bun.BaseModel   `bun:"table:ranks,alias:rk"`
	GuildID         sharedtypes.GuildID `bun:"guild_id,pk,notnull,type:varchar(20)"`
	RoleID          sharedtypes.RoleID  `bun:"role_id,pk,notnull,type:varchar(20)"`
	PointsThreshold int                 `bun:"points_threshold,notnull"`
	WinModifier     *int                `bun:"win_modifier,nullzero"`
	LossModifier    *int                `bun:"loss_modifier,nullzero"`
}

// Competition holds guild-wide scoring and queue settings.
type Competition struct {
	bun.BaseModel        `bun:"table:competitions,alias:cp"`
	GuildID              sharedtypes.GuildID `bun:"guild_id,pk,notnull,type:varchar(20)"`
	DefaultRegisterScore int                 `bun:"default_register_score,notnull,default:0"`
	DefaultWinModifier   int                 `bun:"default_win_modifier,notnull,default:10"`
	DefaultLossModifier  int                 `bun:"default_loss_modifier,notnull,default:5"`
	AllowNegativeScore   bool                `bun:"allow_negative_score,notnull,default:false"`
	AllowMultiQueueing   bool                `bun:"allow_multi_queueing,notnull,default:true"`
	RequeueDelaySeconds  *int64              `bun:"requeue_delay_seconds"`
	QueueTimeoutSeconds  *int64              `bun:"queue_timeout_seconds"`
	UpdatedAt            time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func toSharedPlayer(p *Player) sharedtypes.Player {
	return sharedtypes.Player{
		GuildID:          p.GuildID,
		UserID:           p.UserID,
		DisplayName:      p.DisplayName,
		Points:           p.Points,
		Wins:             p.Wins,
		Losses:           p.Losses,
		Draws:            p.Draws,
		Kills:            p.Kills,
		Deaths:           p.Deaths,
		RegistrationDate: p.RegistrationDate,
	}
}

// ToSharedPlayer converts a row to the shared type. Exported for repositories
// in other modules that read the players table.
func ToSharedPlayer(p *Player) sharedtypes.Player { return toSharedPlayer(p) }

func toDBPlayer(p *sharedtypes.Player) *Player {
	return &Player{
		GuildID:          p.GuildID,
		UserID:           p.UserID,
		DisplayName:      p.DisplayName,
		Points:           p.Points,
		Wins:             p.Wins,
		Losses:           p.Losses,
		Draws:            p.Draws,
		Kills:            p.Kills,
		Deaths:           p.Deaths,
		RegistrationDate: p.RegistrationDate,
		UpdatedAt:        time.Now().UTC(),
	}
}

func toSharedRank(r *Rank) sharedtypes.Rank {
	return sharedtypes.Rank{
		GuildID:         r.GuildID,
		RoleID:          r.RoleID,
		PointsThreshold: r.PointsThreshold,
		WinModifier:     r.WinModifier,
		LossModifier:    r.LossModifier,
	}
}

// ToSharedCompetition converts a row to the shared type.
func ToSharedCompetition(c *Competition) *sharedtypes.Competition {
	out := &sharedtypes.Competition{
		GuildID:              c.GuildID,
		DefaultRegisterScore: c.DefaultRegisterScore,
		DefaultWinModifier:   c.DefaultWinModifier,
		DefaultLossModifier:  c.DefaultLossModifier,
		AllowNegativeScore:   c.AllowNegativeScore,
		AllowMultiQueueing:   c.AllowMultiQueueing,
	}
	if c.RequeueDelaySeconds != nil {
		d := time.Duration(*c.RequeueDelaySeconds) * time.Second
		out.RequeueDelay = &d
	}
	if c.QueueTimeoutSeconds != nil {
		d := time.Duration(*c.QueueTimeoutSeconds) * time.Second
		out.QueueTimeout = &d
	}
	return out
}

func toDBCompetition(c *sharedtypes.Competition) *Competition {
	out := &Competition{
		GuildID:              c.GuildID,
		DefaultRegisterScore: c.DefaultRegisterScore,
		DefaultWinModifier:   c.DefaultWinModifier,
		DefaultLossModifier:  c.DefaultLossModifier,
		AllowNegativeScore:   c.AllowNegativeScore,
		AllowMultiQueueing:   c.AllowMultiQueueing,
		UpdatedAt:            time.Now().UTC(),
	}
	if c.RequeueDelay != nil {
		s := int64(c.RequeueDelay.Seconds())
		out.RequeueDelaySeconds = &s
	}
	if c.QueueTimeout != nil {
		s := int64(c.QueueTimeout.Seconds())
		out.QueueTimeoutSeconds = &s
	}
	return out
}
