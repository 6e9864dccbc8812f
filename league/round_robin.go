package league

import (
	"fmt"
	"sort"
)

// Pairing — одна пара кругового этапа до сохранения в БД.
type Pairing struct {
	UID            string
	Round          int
	OrderInRound   int
	Participant1ID int
	Participant2ID int
}

// GenerateRoundRobin creates pairings for a single round-robin: each
// participant plays every other participant exactly once.
func GenerateRoundRobin(tournamentID int, participantIDs []int) ([]Pairing, error) {
	if len(participantIDs) < 2 {
		return nil, fmt.Errorf("round robin: not enough participants (found %d, min 2 required)", len(participantIDs))
	}

	pairings := make([]Pairing, 0, len(participantIDs)*(len(participantIDs)-1)/2)
	order := 0

	for i := 0; i < len(participantIDs); i++ {
		for j := i + 1; j < len(participantIDs); j++ {
			p1 := participantIDs[i]
			p2 := participantIDs[j]
			order++
			pairings = append(pairings, Pairing{
				UID:            fmt.Sprintf("T%d_RRM%d_P%dvsP%d", tournamentID, order, p1, p2),
				Round:          1,
				OrderInRound:   order,
				Participant1ID: p1,
				Participant2ID: p2,
			})
		}
	}

	sort.Slice(pairings, func(i, j int) bool {
		return pairings[i].OrderInRound < pairings[j].OrderInRound
	})

	return pairings, nil
}
