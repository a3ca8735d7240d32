package order

// PENDING -> CONFIRMED -> SHIPPED -> DELIVERED, with CANCELLED reachable
// from the first two.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}
