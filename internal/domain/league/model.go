package league

import "time"

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// CompetitionID identifies one of the supported football competitions.
// Match data for these competitions is pre-populated by migrations.
type CompetitionID string

const (
	CompetitionPremierLeague CompetitionID = "premier-league"
	CompetitionLaLiga        CompetitionID = "la-liga"
	CompetitionSerieA        CompetitionID = "serie-a"
	CompetitionBundesliga    CompetitionID = "bundesliga"
	CompetitionLigue1        CompetitionID = "ligue-1"
)

func SupportedCompetitions() []CompetitionID {
	return []CompetitionID{
		CompetitionPremierLeague,
		CompetitionLaLiga,
		CompetitionSerieA,
		CompetitionBundesliga,
		CompetitionLigue1,
	}
}

func IsSupportedCompetition(id CompetitionID) bool {
	for _, c := range SupportedCompetitions() {
		if c == id {
			return true
		}
	}
	return false
}

type Settings struct {
	MaxParticipants        int
	PointsPerExactScore    int
	PointsPerCorrectResult int
}

func DefaultSettings() Settings {
	return Settings{
		MaxParticipants:        50,
		PointsPerExactScore:    3,
		PointsPerCorrectResult: 1,
	}
}

// Participant is a user's membership record inside a league. Points is
// owned by the scoring process and starts at zero.
type Participant struct {
	UserID   string
	TeamName string
	JoinedAt time.Time
	Points   int
}

// League is a prediction pool over one competition. The creator is the
// admin and always appears as participant #0. InviteCode is immutable
// and globally unique for the lifetime of the system; soft deletion
// never frees it for reuse.
type League struct {
	ID            string
	Name          string
	Description   string
	CompetitionID CompetitionID
	Visibility    Visibility
	InviteCode    string
	AdminUserID   string
	Participants  []Participant
	Settings      Settings
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (l League) IsAdmin(userID string) bool {
	return l.AdminUserID == userID
}

func (l League) IsParticipant(userID string) bool {
	for _, p := range l.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func (l League) ParticipantByUser(userID string) (Participant, bool) {
	for _, p := range l.Participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}

func (l League) IsFull() bool {
	return len(l.Participants) >= l.Settings.MaxParticipants
}
