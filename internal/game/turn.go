package game

// NextPlayerTurn picks the seat that acts after the current one, skipping seats that
// passed this trick or already went out. The current seat is the one holding the turn
// without having passed; with none, the first eligible seat in fixed order is returned.
// The bool is false when no seat can act.
func NextPlayerTurn(seats [NumSeats]Seat) (SeatID, bool) {
	eligible := func(id SeatID) bool {
		return !seats[id].RoundPass && !seats[id].Won
	}

	for _, cur := range AllSeats {
		if !seats[cur].PlayerTurn || seats[cur].RoundPass {
			continue
		}
		// the walk wraps back to the current seat when everyone else is out
		for id := cur.Next(); ; id = id.Next() {
			if eligible(id) {
				return id, true
			}
			if id == cur {
				return 0, false
			}
		}
	}

	for _, id := range AllSeats {
		if eligible(id) {
			return id, true
		}
	}
	return 0, false
}
