package room

// Transition returns the room reached from current with input. Input without
// a matching entry or wildcard leaves the player in current.
func (r *Registry) Transition(current Room, input string) (Room, error) {
	stored, err := r.Get(current.ID)
	if err != nil {
		return Room{}, err
	}
	target, ok := stored.Next(input)
	if !ok {
		return stored, nil
	}
	return r.Get(target)
}

// Advance resolves currentID and applies input to it.
func (r *Registry) Advance(currentID ID, input string) (Room, error) {
	current, err := r.Get(currentID)
	if err != nil {
		return Room{}, err
	}
	return r.Transition(current, input)
}
