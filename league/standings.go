package league

import (
	"sort"

	"github.com/Dosada05/padel-club/models"
)

// Очки кругового этапа: победа 3, ничья 1, поражение 0.
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// Table аккумулирует статистику участников по сыгранным матчам.
type Table struct {
	rows map[int]*models.TournamentStanding
}

func NewTable(tournamentID int, participantIDs []int) *Table {
	rows := make(map[int]*models.TournamentStanding, len(participantIDs))
	for _, id := range participantIDs {
		rows[id] = &models.TournamentStanding{
			TournamentID:  tournamentID,
			ParticipantID: id,
		}
	}
	return &Table{rows: rows}
}

// ApplyMatch учитывает завершённый матч. Матчи без результата игнорируются.
func (t *Table) ApplyMatch(m *models.Match) {
	if m.Status != models.MatchCompleted || m.Score1 == nil || m.Score2 == nil {
		return
	}
	r1, ok1 := t.rows[m.Participant1ID]
	r2, ok2 := t.rows[m.Participant2ID]
	if !ok1 || !ok2 {
		return
	}

	s1, s2 := *m.Score1, *m.Score2

	r1.GamesPlayed++
	r2.GamesPlayed++
	r1.ScoreFor += s1
	r1.ScoreAgainst += s2
	r2.ScoreFor += s2
	r2.ScoreAgainst += s1
	r1.ScoreDifference = r1.ScoreFor - r1.ScoreAgainst
	r2.ScoreDifference = r2.ScoreFor - r2.ScoreAgainst

	switch {
	case s1 > s2:
		r1.Wins++
		r1.Points += PointsWin
		r2.Losses++
	case s2 > s1:
		r2.Wins++
		r2.Points += PointsWin
		r1.Losses++
	default:
		r1.Draws++
		r2.Draws++
		r1.Points += PointsDraw
		r2.Points += PointsDraw
	}
}

// Standings возвращает таблицу, отсортированную и проранжированную:
// очки, затем разница, затем забитые.
func (t *Table) Standings() []*models.TournamentStanding {
	standings := make([]*models.TournamentStanding, 0, len(t.rows))
	for _, row := range t.rows {
		standings = append(standings, row)
	}

	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.ScoreDifference != b.ScoreDifference {
			return a.ScoreDifference > b.ScoreDifference
		}
		if a.ScoreFor != b.ScoreFor {
			return a.ScoreFor > b.ScoreFor
		}
		return a.ParticipantID < b.ParticipantID
	})

	for i := range standings {
		rank := i + 1
		standings[i].Rank = &rank
	}
	return standings
}

// Compute строит таблицу турнира из всех его матчей.
func Compute(tournamentID int, participantIDs []int, matches []*models.Match) []*models.TournamentStanding {
	table := NewTable(tournamentID, participantIDs)
	for _, m := range matches {
		table.ApplyMatch(m)
	}
	return table.Standings()
}
